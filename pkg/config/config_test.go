package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-bipace/pkg/alignment"
	"github.com/dd0wney/cluso-bipace/pkg/logging"
	"github.com/dd0wney/cluso-bipace/pkg/scoring"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, alignment.DefaultOptions(), cfg.Options())
	assert.Equal(t, "cosine", cfg.Scoring.Metric)
	assert.Equal(t, logging.InfoLevel, cfg.LogLevel())
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_OverridesDefaults(t *testing.T) {
	data := []byte(`
alignment:
  min_clique_size: 3
  use_sparse_peak_representation: true
  bin_width: 0.5
  save_peak_similarities: true
scoring:
  metric: cosine_rt
  retention_time_sigma: 2.5
runtime:
  workers: 4
  timeout: 30s
logging:
  level: debug
metrics:
  addr: ":9090"
synthetic:
  samples: 6
  seed: 42
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	opts := cfg.Options()
	assert.Equal(t, 3, opts.MinCliqueSize)
	assert.True(t, opts.UseSparsePeakRepresentation)
	assert.Equal(t, 0.5, opts.BinWidth)
	assert.True(t, opts.SavePeakSimilarities)
	assert.True(t, opts.SaveUnmatchedPeaks, "unset keys keep their defaults")
	assert.Equal(t, 4, opts.Workers)

	assert.Equal(t, 30*time.Second, cfg.Runtime.Timeout)
	assert.Equal(t, logging.DebugLevel, cfg.LogLevel())
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, 6, cfg.Synthetic.Samples)
	assert.Equal(t, uint64(42), cfg.Synthetic.Seed)
	assert.Equal(t, 50, cfg.Synthetic.Features, "unset keys keep their defaults")

	scorer, err := cfg.Scorer()
	require.NoError(t, err)
	assert.IsType(t, scoring.Product{}, scorer)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"unknown key", "alignment:\n  min_clique: 2\n", "min_clique"},
		{"zero clique size", "alignment:\n  min_clique_size: 0\n", "alignment.min_clique_size"},
		{"clique size below -1", "alignment:\n  min_clique_size: -2\n", "alignment.min_clique_size: must be at least -1"},
		{"fraction above one", "alignment:\n  min_bbh_fraction: 1.5\n", "min_bbh_fraction"},
		{"negative bin width", "alignment:\n  bin_width: -1\n", "bin_width"},
		{"unknown metric", "scoring:\n  metric: euclidean\n", "metric"},
		{"zero sigma", "scoring:\n  retention_time_sigma: 0\n", "retention_time_sigma"},
		{"negative workers", "runtime:\n  workers: -1\n", "workers"},
		{"negative timeout", "runtime:\n  timeout: -5s\n", "runtime.timeout"},
		{"unknown level", "logging:\n  level: verbose\n", "logging.level"},
		{"one sample", "synthetic:\n  samples: 1\n", "samples"},
		{"malformed", "alignment: [", "decode config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bipace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alignment:\n  min_clique_size: 2\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Alignment.MinCliqueSize)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Alignment.MinCliqueSize = 3
	cfg.Runtime.Timeout = 90 * time.Second

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "alignment:\n  min_clique_size: 3\n"))
	assert.Contains(t, string(data), "timeout: 1m30s")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
