package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-bipace/pkg/alignment"
	"github.com/dd0wney/cluso-bipace/pkg/health"
	"github.com/dd0wney/cluso-bipace/pkg/logging"
	"github.com/dd0wney/cluso-bipace/pkg/metrics"
	"github.com/dd0wney/cluso-bipace/pkg/synthetic"
)

var (
	synthSamples  int
	synthFeatures int
	synthSeed     uint64
	synthSparse   bool
	synthOutput   string
	synthMaxRows  int
	metricsAddr   string
	holdMetrics   bool

	synthCmd = &cobra.Command{
		Use:   "synth",
		Short: "Generate synthetic samples with known correspondences and align them",
		Args:  cobra.NoArgs,
		RunE:  runSynth,
	}
)

func init() {
	f := synthCmd.Flags()
	f.IntVar(&synthSamples, "samples", 0, "number of samples (overrides synthetic.samples)")
	f.IntVar(&synthFeatures, "features", 0, "number of shared features (overrides synthetic.features)")
	f.Uint64Var(&synthSeed, "seed", 0, "random seed (overrides synthetic.seed)")
	f.BoolVar(&synthSparse, "sparse", false, "use the sparse peak representation")
	f.StringVarP(&synthOutput, "output", "o", "table", "output format (table, yaml, summary)")
	f.IntVar(&synthMaxRows, "max-rows", 25, "rows to print in table output, 0 for all")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides metrics.addr)")
	f.BoolVar(&holdMetrics, "hold", false, "keep the metrics endpoint up after the run until interrupted")
}

// runTracker records the latest run for the health endpoints
type runTracker struct {
	mu    sync.Mutex
	state health.RunState
}

func (t *runTracker) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = health.RunState{Running: true}
}

func (t *runTracker) finish(res *alignment.Result, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = health.RunState{Finished: true, Err: err, FinishedAt: time.Now()}
	if res != nil {
		t.state.Samples = res.Stats.Samples
		t.state.Peaks = res.Stats.Peaks
		t.state.IncompatibleRatio = res.Stats.IncompatibleRatio()
	}
}

func (t *runTracker) snapshot() health.RunState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func runSynth(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("samples") {
		cfg.Synthetic.Samples = synthSamples
	}
	if flags.Changed("features") {
		cfg.Synthetic.Features = synthFeatures
	}
	if flags.Changed("seed") {
		cfg.Synthetic.Seed = synthSeed
	}
	if flags.Changed("sparse") {
		cfg.Alignment.UseSparsePeakRepresentation = synthSparse
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := metrics.DefaultRegistry()
	tracker := &runTracker{}
	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, registry, tracker)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Error(err))
			}
		}()
	}

	generated, err := synthetic.Generate(cfg.Synthetic)
	if err != nil {
		return fmt.Errorf("generate samples: %w", err)
	}
	logger.Info("samples generated",
		logging.Count(len(generated)),
		logging.Int("features", cfg.Synthetic.Features),
		logging.Int64("seed", int64(cfg.Synthetic.Seed)),
	)

	scorer, err := cfg.Scorer()
	if err != nil {
		return err
	}
	aligner, err := alignment.New(cfg.Options(),
		alignment.WithLogger(logger),
		alignment.WithMetrics(registry),
	)
	if err != nil {
		return err
	}

	runCtx := ctx
	if cfg.Runtime.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Runtime.Timeout)
		defer cancel()
	}

	tracker.start()
	res, err := aligner.Align(runCtx, toInputs(generated), scorer)
	tracker.finish(res, err)
	registry.UpdateSystemMetrics()
	if err != nil {
		return err
	}

	acc := score(res, generated)
	out := cmd.OutOrStdout()
	switch synthOutput {
	case "table":
		fmt.Fprintln(out, renderSummary(res, acc))
		fmt.Fprintln(out, renderTable(res.Table, synthMaxRows))
	case "summary":
		fmt.Fprintln(out, renderSummary(res, acc))
	case "yaml":
		data, err := marshalResult(res, acc)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", synthOutput)
	}

	if holdMetrics && cfg.Metrics.Addr != "" {
		logger.Info("run finished, serving metrics until interrupted", logging.String("addr", cfg.Metrics.Addr))
		<-ctx.Done()
	}
	return nil
}

func serveMetrics(addr string, registry *metrics.Registry, tracker *runTracker) *http.Server {
	checker := health.NewChecker()
	checker.RegisterLivenessCheck("goroutines", health.GoroutineCheck(health.DefaultMaxGoroutines))
	checker.RegisterReadinessCheck("alignment", health.RunCheck(tracker.snapshot, health.DefaultMaxIncompatibleRatio))
	checker.RegisterCheck("alignment", health.RunCheck(tracker.snapshot, health.DefaultMaxIncompatibleRatio))
	checker.RegisterCheck("memory", health.MemoryCheck(health.RuntimeMemory))

	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())
	checker.Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server starting", logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", logging.Error(err))
		}
	}()
	return srv
}

func toInputs(samples []synthetic.Sample) []alignment.SampleInput {
	out := make([]alignment.SampleInput, len(samples))
	for i, s := range samples {
		out[i] = alignment.SampleInput{Name: s.Name, Peaks: s.Peaks}
	}
	return out
}
