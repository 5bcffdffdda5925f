package synthetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()

	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_SeedChangesOutput(t *testing.T) {
	cfg := DefaultConfig()
	a, err := Generate(cfg)
	require.NoError(t, err)

	cfg.Seed++
	b, err := Generate(cfg)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestGenerate_Shape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DropoutRate = 0
	cfg.Features = 20
	cfg.NoisePeaks = 3

	samples, err := Generate(cfg)
	require.NoError(t, err)
	require.Len(t, samples, cfg.Samples)

	for i, s := range samples {
		assert.Len(t, s.Peaks, cfg.Features+cfg.NoisePeaks, "sample %d", i)
		assert.Len(t, s.Truth, len(s.Peaks))

		seen := make(map[int]bool)
		noise := 0
		for j, d := range s.Peaks {
			if j > 0 {
				assert.LessOrEqual(t, s.Peaks[j-1].RetentionTime, d.RetentionTime, "peaks sorted by retention time")
			}
			assert.Len(t, d.MassValues, cfg.IonsPerSpectrum)
			assert.Len(t, d.Intensities, cfg.IonsPerSpectrum)
			assert.GreaterOrEqual(t, d.RetentionTime, 0.0)
			assert.Equal(t, int(d.RetentionTime*ScansPerSecond), d.ScanIndex)

			if s.Truth[j] == Noise {
				noise++
				continue
			}
			assert.False(t, seen[s.Truth[j]], "feature %d appears twice in %s", s.Truth[j], s.Name)
			seen[s.Truth[j]] = true
		}
		assert.Equal(t, cfg.NoisePeaks, noise)
	}
	assert.Equal(t, "sample-01", samples[0].Name)
}

func TestGenerate_FullDropout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DropoutRate = 1
	cfg.NoisePeaks = 0

	samples, err := Generate(cfg)
	require.NoError(t, err)
	for _, s := range samples {
		assert.Empty(t, s.Peaks)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"default", func(c *Config) {}, ""},
		{"one sample", func(c *Config) { c.Samples = 1 }, "samples"},
		{"dropout above one", func(c *Config) { c.DropoutRate = 1.5 }, "dropout_rate"},
		{"zero rt range", func(c *Config) { c.RTRange = 0 }, "rt_range"},
		{"negative jitter", func(c *Config) { c.RTJitter = -1 }, "rt_jitter"},
		{"no ions", func(c *Config) { c.IonsPerSpectrum = 0 }, "ions_per_spectrum"},
		{"ions exceed mass range", func(c *Config) { c.MassRange = 60; c.IonsPerSpectrum = 20 }, "ions_per_spectrum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, err = Generate(cfg)
			assert.Error(t, err)
		})
	}
}
