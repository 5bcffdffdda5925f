package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestNewChecker(t *testing.T) {
	c := NewChecker()

	if c == nil {
		t.Fatal("NewChecker returned nil")
	}
	if c.checks == nil || c.readyChecks == nil || c.liveChecks == nil {
		t.Error("check maps not initialized")
	}
	if c.started.IsZero() {
		t.Error("start time not recorded")
	}
}

func TestRegisterReadinessCheck(t *testing.T) {
	c := NewChecker()

	called := false
	c.RegisterReadinessCheck("ready-test", func() Check {
		called = true
		return Check{Status: StatusHealthy}
	})

	c.Check()
	if called {
		t.Error("readiness check should not be called for Check()")
	}

	resp := c.CheckReadiness()
	if !called {
		t.Error("readiness check was not called")
	}
	check, exists := resp.Checks["ready-test"]
	if !exists {
		t.Fatal("readiness check result not in response")
	}
	if check.Name != "ready-test" {
		t.Errorf("Expected name to default to registration key, got %q", check.Name)
	}
}

func TestCheckStatusAggregation(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			for i, s := range tt.statuses {
				c.RegisterLivenessCheck(string(rune('a'+i)), func() Check { return Check{Status: s} })
			}

			if got := c.CheckLiveness().Status; got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCheckDuration(t *testing.T) {
	c := NewChecker()
	c.RegisterCheck("slow", func() Check {
		time.Sleep(5 * time.Millisecond)
		return Check{Status: StatusHealthy}
	})

	resp := c.Check()
	if resp.Checks["slow"].Duration < 5*time.Millisecond {
		t.Errorf("Expected duration >= 5ms, got %v", resp.Checks["slow"].Duration)
	}
	if resp.Checks["slow"].LastChecked.IsZero() {
		t.Error("LastChecked not set")
	}
	if resp.Uptime < 0 {
		t.Errorf("Expected non-negative uptime, got %f", resp.Uptime)
	}
}

func TestRunCheck(t *testing.T) {
	tests := []struct {
		name  string
		state RunState
		want  Status
	}{
		{"no run yet", RunState{}, StatusDegraded},
		{"running", RunState{Running: true}, StatusDegraded},
		{"failed", RunState{Finished: true, Err: errors.New("context canceled")}, StatusUnhealthy},
		{"succeeded", RunState{Finished: true, Samples: 3, Peaks: 30, IncompatibleRatio: 0.1}, StatusHealthy},
		{"many conflicts", RunState{Finished: true, Samples: 3, Peaks: 30, IncompatibleRatio: 0.5}, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := RunCheck(func() RunState { return tt.state }, DefaultMaxIncompatibleRatio)()

			if check.Status != tt.want {
				t.Errorf("Expected %s, got %s (%s)", tt.want, check.Status, check.Message)
			}
			if check.Name != "alignment" {
				t.Errorf("Expected name alignment, got %q", check.Name)
			}
		})
	}
}

func TestRunCheck_FailureMessage(t *testing.T) {
	check := RunCheck(func() RunState {
		return RunState{Finished: true, Err: errors.New("non-finite score")}
	}, DefaultMaxIncompatibleRatio)()

	if check.Message != "non-finite score" {
		t.Errorf("Expected error message, got %q", check.Message)
	}
}

func TestGoroutineCheck(t *testing.T) {
	if got := GoroutineCheck(DefaultMaxGoroutines)().Status; got != StatusHealthy {
		t.Errorf("Expected healthy, got %s", got)
	}
	if got := GoroutineCheck(0)().Status; got != StatusDegraded {
		t.Errorf("Expected degraded, got %s", got)
	}
}

func TestMemoryCheck(t *testing.T) {
	tests := []struct {
		name       string
		alloc, sys uint64
		want       Status
	}{
		{"normal", 100, 1000, StatusHealthy},
		{"high", 950, 1000, StatusDegraded},
		{"unknown sys", 100, 0, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := MemoryCheck(func() (uint64, uint64) { return tt.alloc, tt.sys })()
			if check.Status != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, check.Status)
			}
		})
	}

	alloc, sys := RuntimeMemory()
	if alloc == 0 || sys == 0 {
		t.Errorf("Expected non-zero runtime memory, got alloc=%d sys=%d", alloc, sys)
	}
}

func TestHandlers(t *testing.T) {
	var mu sync.Mutex
	state := RunState{}

	c := NewChecker()
	c.RegisterLivenessCheck("goroutines", GoroutineCheck(DefaultMaxGoroutines))
	c.RegisterReadinessCheck("alignment", RunCheck(func() RunState {
		mu.Lock()
		defer mu.Unlock()
		return state
	}, DefaultMaxIncompatibleRatio))
	c.RegisterCheck("alignment", RunCheck(func() RunState {
		mu.Lock()
		defer mu.Unlock()
		return state
	}, DefaultMaxIncompatibleRatio))

	mux := http.NewServeMux()
	c.Register(mux)

	get := func(path string) (int, Response) {
		t.Helper()
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		var resp Response
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		return rec.Code, resp
	}

	if code, _ := get("/health/live"); code != http.StatusOK {
		t.Errorf("Expected live 200, got %d", code)
	}

	// Degraded before the first run: general endpoint still 200, readiness 503
	if code, resp := get("/health"); code != http.StatusOK || resp.Status != StatusDegraded {
		t.Errorf("Expected 200 degraded, got %d %s", code, resp.Status)
	}
	if code, _ := get("/health/ready"); code != http.StatusServiceUnavailable {
		t.Errorf("Expected ready 503, got %d", code)
	}

	mu.Lock()
	state = RunState{Finished: true, Samples: 2, Peaks: 4}
	mu.Unlock()
	if code, _ := get("/health/ready"); code != http.StatusOK {
		t.Errorf("Expected ready 200, got %d", code)
	}

	mu.Lock()
	state = RunState{Finished: true, Err: errors.New("failed")}
	mu.Unlock()
	if code, resp := get("/health"); code != http.StatusServiceUnavailable || resp.Status != StatusUnhealthy {
		t.Errorf("Expected 503 unhealthy, got %d %s", code, resp.Status)
	}
}

func TestConcurrentCheckRegistration(t *testing.T) {
	c := NewChecker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.RegisterCheck(string(rune('A'+i)), SimpleCheck("simple"))
		}(i)
		go func() {
			defer wg.Done()
			c.Check()
		}()
	}
	wg.Wait()

	if n := len(c.Check().Checks); n != 50 {
		t.Errorf("Expected 50 checks, got %d", n)
	}
}
