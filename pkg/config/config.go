// Package config loads and validates the YAML configuration of an alignment run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-bipace/pkg/alignment"
	"github.com/dd0wney/cluso-bipace/pkg/logging"
	"github.com/dd0wney/cluso-bipace/pkg/scoring"
	"github.com/dd0wney/cluso-bipace/pkg/synthetic"
	"github.com/dd0wney/cluso-bipace/pkg/validation"
)

// Config is the top-level configuration file
type Config struct {
	Alignment AlignmentConfig  `yaml:"alignment"`
	Scoring   ScoringConfig    `yaml:"scoring"`
	Runtime   RuntimeConfig    `yaml:"runtime"`
	Logging   LoggingConfig    `yaml:"logging"`
	Metrics   MetricsConfig    `yaml:"metrics"`
	Synthetic synthetic.Config `yaml:"synthetic"`
}

// AlignmentConfig maps onto alignment.Options
type AlignmentConfig struct {
	MinCliqueSize               int     `yaml:"min_clique_size" validate:"min=-1"`
	MinBBHFraction              float64 `yaml:"min_bbh_fraction" validate:"gte=0,lte=1"`
	UseSparsePeakRepresentation bool    `yaml:"use_sparse_peak_representation"`
	BinWidth                    float64 `yaml:"bin_width" validate:"gte=0"`
	SavePeakSimilarities        bool    `yaml:"save_peak_similarities"`
	SaveUnmatchedPeaks          bool    `yaml:"save_unmatched_peaks"`
	SaveIncompatiblePeaks       bool    `yaml:"save_incompatible_peaks"`
}

// ScoringConfig selects the similarity function
type ScoringConfig struct {
	Metric             string  `yaml:"metric" validate:"oneof=cosine dot_product retention_time cosine_rt"`
	RetentionTimeSigma float64 `yaml:"retention_time_sigma" validate:"gt=0"`
}

// RuntimeConfig bounds resource use
type RuntimeConfig struct {
	Workers int           `yaml:"workers" validate:"min=0,max=4096"` // 0 = NumCPU
	Timeout time.Duration `yaml:"timeout"`                           // 0 = no deadline
}

// LoggingConfig configures the JSON logger
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Default returns the reference configuration
func Default() *Config {
	opts := alignment.DefaultOptions()
	return &Config{
		Alignment: AlignmentConfig{
			MinCliqueSize:         opts.MinCliqueSize,
			MinBBHFraction:        opts.MinBBHFraction,
			SaveUnmatchedPeaks:    opts.SaveUnmatchedPeaks,
			SaveIncompatiblePeaks: opts.SaveIncompatiblePeaks,
		},
		Scoring: ScoringConfig{
			Metric:             string(scoring.MetricCosine),
			RetentionTimeSigma: scoring.DefaultRetentionTimeSigma,
		},
		Logging:   LoggingConfig{Level: "info"},
		Synthetic: synthetic.DefaultConfig(),
	}
}

// Load reads a YAML file over the defaults and validates the result
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML bytes over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads YAML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return validation.NewConfigValidator("config").
		NotEqualInt("alignment.min_clique_size", c.Alignment.MinCliqueSize, 0).
		NonNegativeDuration("runtime.timeout", c.Runtime.Timeout).
		OneOf("logging.level", strings.ToLower(c.Logging.Level), logLevels).
		Custom("synthetic", c.Synthetic.Validate).
		Validate()
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Options converts the alignment and runtime sections
func (c *Config) Options() alignment.Options {
	return alignment.Options{
		MinCliqueSize:               c.Alignment.MinCliqueSize,
		MinBBHFraction:              c.Alignment.MinBBHFraction,
		UseSparsePeakRepresentation: c.Alignment.UseSparsePeakRepresentation,
		BinWidth:                    c.Alignment.BinWidth,
		SavePeakSimilarities:        c.Alignment.SavePeakSimilarities,
		SaveUnmatchedPeaks:          c.Alignment.SaveUnmatchedPeaks,
		SaveIncompatiblePeaks:       c.Alignment.SaveIncompatiblePeaks,
		Workers:                     c.Runtime.Workers,
	}
}

// Scorer builds the configured similarity function
func (c *Config) Scorer() (scoring.Scorer, error) {
	return scoring.New(scoring.Metric(c.Scoring.Metric), c.Scoring.RetentionTimeSigma)
}

// LogLevel returns the configured log level
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Logging.Level)
}
