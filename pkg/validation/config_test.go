package validation

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_RangeInt(t *testing.T) {
	tests := []struct {
		value     int
		min, max  int
		expectErr bool
	}{
		{5, 1, 10, false},
		{1, 1, 10, false},
		{10, 1, 10, false},
		{0, 1, 10, true},
		{11, 1, 10, true},
	}

	for _, tt := range tests {
		cv := NewConfigValidator("TestConfig")
		cv.RangeInt("Value", tt.value, tt.min, tt.max)
		if cv.HasErrors() != tt.expectErr {
			t.Errorf("RangeInt(%d, %d, %d): HasErrors() = %v, want %v",
				tt.value, tt.min, tt.max, cv.HasErrors(), tt.expectErr)
		}
	}
}

func TestConfigValidator_MinInt(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.MinInt("Size", -2, -1)
	if !cv.HasErrors() {
		t.Error("Expected error for value below minimum")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.MinInt("Size", -1, -1)
	if cv2.HasErrors() {
		t.Error("Expected no error for value at minimum")
	}
}

func TestConfigValidator_NotEqualInt(t *testing.T) {
	cv := NewConfigValidator("alignment")
	cv.NotEqualInt("min_clique_size", 0, 0)
	if !cv.HasErrors() {
		t.Fatal("Expected error for forbidden value")
	}
	if !strings.Contains(cv.Validate().Error(), "alignment.min_clique_size") {
		t.Errorf("Error should name the field, got %v", cv.Validate())
	}

	cv2 := NewConfigValidator("alignment")
	cv2.NotEqualInt("min_clique_size", 3, 0)
	if cv2.HasErrors() {
		t.Error("Expected no error for allowed value")
	}
}

func TestConfigValidator_RangeFloat(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		expectErr bool
	}{
		{"inside", 0.5, false},
		{"lower bound", 0, false},
		{"upper bound", 1, false},
		{"below", -0.1, true},
		{"above", 1.5, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("TestConfig")
			cv.RangeFloat("Fraction", tt.value, 0, 1)
			if cv.HasErrors() != tt.expectErr {
				t.Errorf("RangeFloat(%v): HasErrors() = %v, want %v", tt.value, cv.HasErrors(), tt.expectErr)
			}
		})
	}
}

func TestConfigValidator_PositiveFloat(t *testing.T) {
	tests := []struct {
		value     float64
		expectErr bool
	}{
		{1.0, false},
		{0.001, false},
		{0, true},
		{-1, true},
		{math.Inf(1), true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		cv := NewConfigValidator("TestConfig")
		cv.PositiveFloat("Sigma", tt.value)
		if cv.HasErrors() != tt.expectErr {
			t.Errorf("PositiveFloat(%v): HasErrors() = %v, want %v", tt.value, cv.HasErrors(), tt.expectErr)
		}
	}
}

func TestConfigValidator_NonNegativeDuration(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.NonNegativeDuration("Timeout", -time.Second)
	if !cv.HasErrors() {
		t.Error("Expected error for negative duration")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.NonNegativeDuration("Timeout", 0)
	if cv2.HasErrors() {
		t.Error("Expected no error for zero duration")
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	allowed := []string{"cosine", "dot_product", "retention_time"}

	cv := NewConfigValidator("TestConfig")
	cv.OneOf("Metric", "cosine", allowed)
	if cv.HasErrors() {
		t.Error("Expected no error for allowed value")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.OneOf("Metric", "euclidean", allowed)
	if !cv2.HasErrors() {
		t.Error("Expected error for disallowed value")
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	sentinel := errors.New("custom failure")

	cv := NewConfigValidator("TestConfig")
	cv.Custom("Field", func() error { return sentinel })
	if !cv.HasErrors() {
		t.Fatal("Expected error from custom validation")
	}
	if !errors.Is(cv.Validate(), sentinel) {
		t.Error("Custom error should be wrapped")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Custom("Field", func() error { return nil })
	if cv2.HasErrors() {
		t.Error("Expected no error from passing custom validation")
	}
}

func TestConfigValidator_When(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.When(false, func(v *ConfigValidator) {
		v.MinInt("Size", 0, 1)
	})
	if cv.HasErrors() {
		t.Error("When(false) should skip validations")
	}

	cv.When(true, func(v *ConfigValidator) {
		v.MinInt("Size", 0, 1)
	})
	if !cv.HasErrors() {
		t.Error("When(true) should apply validations")
	}
}

func TestConfigValidator_Validate(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	if err := cv.Validate(); err != nil {
		t.Errorf("Validate() with no errors = %v, want nil", err)
	}

	cv.MinInt("A", 0, 1).RangeInt("B", 0, 1, 2).PositiveFloat("C", 0)

	err := cv.Validate()
	if err == nil {
		t.Fatal("Validate() should fail")
	}
	if n := strings.Count(err.Error(), "\n") + 1; n != 3 {
		t.Errorf("Validate() joined %d errors, want 3: %v", n, err)
	}
	for _, field := range []string{"TestConfig.A", "TestConfig.B", "TestConfig.C"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("Validate() error should mention %s: %v", field, err)
		}
	}
}
