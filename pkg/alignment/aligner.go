package alignment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dd0wney/cluso-bipace/pkg/logging"
	"github.com/dd0wney/cluso-bipace/pkg/metrics"
	"github.com/dd0wney/cluso-bipace/pkg/peak"
	"github.com/dd0wney/cluso-bipace/pkg/scoring"
)

const tracerName = "github.com/dd0wney/cluso-bipace/pkg/alignment"

// SampleInput is one sample as supplied by a peak-detection collaborator.
type SampleInput struct {
	Name  string
	Peaks []peak.Descriptor
}

// Aligner runs multi-sample peak alignment by bidirectional best hits.
// An Aligner holds no per-run state and may be reused.
type Aligner struct {
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry
	tracer  trace.Tracer
}

// Option configures an Aligner
type Option func(*Aligner)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(a *Aligner) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics records run metrics into r
func WithMetrics(r *metrics.Registry) Option {
	return func(a *Aligner) { a.metrics = r }
}

// WithTracerProvider sets the tracer provider. The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Aligner) {
		if tp != nil {
			a.tracer = tp.Tracer(tracerName)
		}
	}
}

// New validates opts and builds an Aligner
func New(opts Options, options ...Option) (*Aligner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a := &Aligner{
		opts:   opts,
		logger: logging.NewNopLogger(),
		tracer: otel.Tracer(tracerName),
	}
	for _, o := range options {
		o(a)
	}
	return a, nil
}

// Options returns the configured options
func (a *Aligner) Options() Options { return a.opts }

// run carries the state of one Align call
type run struct {
	id     uuid.UUID
	logger logging.Logger
	stats  Stats
}

// stage times fn, wraps it in a child span and records its duration
func (a *Aligner) stage(ctx context.Context, r *run, name string, fn func(ctx context.Context) error) error {
	ctx, span := a.tracer.Start(ctx, "alignment."+name)
	defer span.End()

	timer := logging.StartTimer(r.logger, "stage complete", logging.Stage(name))
	err := fn(ctx)
	a.endStage(r, name, span, timer, err)
	return err
}

// step is stage for the single-threaded stages that cannot fail
func (a *Aligner) step(ctx context.Context, r *run, name string, fn func()) {
	_, span := a.tracer.Start(ctx, "alignment."+name)
	defer span.End()

	timer := logging.StartTimer(r.logger, "stage complete", logging.Stage(name))
	fn()
	a.endStage(r, name, span, timer, nil)
}

func (a *Aligner) endStage(r *run, name string, span trace.Span, timer *logging.TimedOperation, err error) {
	var elapsed time.Duration
	if err != nil {
		elapsed = timer.EndError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		elapsed = timer.End()
		span.SetStatus(codes.Ok, "")
	}

	r.stats.StageDurations[name] = elapsed
	if a.metrics != nil {
		a.metrics.RecordStage(name, elapsed)
	}
}

// Align computes the cross-sample correspondence of the peaks in samples.
// It returns either a complete Result or the first fatal error.
func (a *Aligner) Align(ctx context.Context, samples []SampleInput, scorer scoring.Scorer) (*Result, error) {
	start := time.Now()
	r := &run{id: uuid.New()}
	r.logger = a.logger.With(logging.Component("alignment"), logging.RunID(r.id.String()))
	r.stats.StageDurations = make(map[string]time.Duration)

	ctx, span := a.tracer.Start(ctx, "alignment.Align",
		trace.WithAttributes(
			attribute.String("run_id", r.id.String()),
			attribute.Int("samples", len(samples)),
		),
	)
	defer span.End()

	res, err := a.align(ctx, r, samples, scorer)
	r.stats.Duration = time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("alignment failed", logging.Error(err), logging.Latency(r.stats.Duration))
		if a.metrics != nil {
			a.metrics.RecordRunFailure(r.stats.Duration)
		}
		return nil, err
	}

	res.Stats = r.stats
	span.SetAttributes(
		attribute.Int("peaks", r.stats.Peaks),
		attribute.Int("cliques_retained", r.stats.CliquesRetained),
		attribute.Int("incompatible", r.stats.Incompatible),
		attribute.Int("unassigned", r.stats.Unassigned),
		attribute.String("center", res.Center.SampleName),
	)
	span.SetStatus(codes.Ok, "")

	r.logger.Info("alignment complete",
		logging.Int("samples", r.stats.Samples),
		logging.Int("peaks", r.stats.Peaks),
		logging.Int("cliques", r.stats.CliquesRetained),
		logging.Int("unassigned", r.stats.Unassigned),
		logging.Int("incompatible", r.stats.Incompatible),
		logging.Ratio("incompatible_ratio", r.stats.Incompatible, r.stats.Peaks),
		logging.String("center", res.Center.SampleName),
		logging.Latency(r.stats.Duration),
	)
	if a.metrics != nil {
		a.metrics.RecordRun(r.stats.summary())
	}
	return res, nil
}

func (a *Aligner) align(ctx context.Context, r *run, samples []SampleInput, scorer scoring.Scorer) (*Result, error) {
	if scorer == nil {
		return nil, ErrNilScorer
	}
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewSamples, len(samples))
	}

	store := peak.NewStore(peak.NewFactory(a.opts.UseSparsePeakRepresentation, a.opts.BinWidth))
	err := a.stage(ctx, r, StageBuild, func(context.Context) error {
		for _, s := range samples {
			if _, err := store.AddSample(s.Name, s.Peaks); err != nil {
				return err
			}
		}
		store.PrepareEdges()
		return nil
	})
	if err != nil {
		return nil, err
	}

	k := store.SampleCount()
	r.stats.Samples = k
	r.stats.Peaks = store.Len()

	minSize, clamped := a.opts.resolveMinCliqueSize(k)
	if clamped {
		r.logger.Warn("min clique size exceeds sample count, clamping",
			logging.Int("configured", a.opts.MinCliqueSize),
			logging.Int("samples", k),
		)
	}
	r.stats.MinCliqueSize = minSize

	r.logger.Info("alignment started",
		logging.Int("samples", k),
		logging.Int("peaks", store.Len()),
		logging.Int("min_clique_size", minSize),
		logging.Bool("sparse", a.opts.UseSparsePeakRepresentation),
	)

	res := &Result{RunID: r.id, Store: store}

	d := &dispatcher{store: store, scorer: scorer, workers: a.opts.Workers, tracer: a.tracer, logger: r.logger}
	err = a.stage(ctx, r, StageDispatch, func(ctx context.Context) error {
		units, err := d.run(ctx)
		r.stats.PairUnits = units
		r.stats.ScoresComputed = d.computed()
		return err
	})
	if err != nil {
		return nil, err
	}
	if a.opts.SavePeakSimilarities {
		res.Similarities = snapshotSimilarities(store)
	}

	// From here on every stage is single-threaded and ordered.
	m := newMerger(store, r.logger)
	var unassigned []peak.ID
	a.step(ctx, r, StageMerge, func() {
		m.run()
		unassigned = m.unassigned()
		for _, id := range unassigned {
			store.Peak(id).ClearEdges()
		}
	})
	r.stats.BBHEdges = m.edges
	r.stats.PeaksWithoutBBH = m.withoutBBH()
	r.stats.CliquesCreated = m.cliques.created()
	r.stats.CliquesMerged = m.merges
	r.stats.Incompatible = len(m.incompatible)
	r.stats.Unassigned = len(unassigned)

	var dropped []*Clique
	var released []peak.ID
	a.step(ctx, r, StageFilter, func() {
		res.Cliques, dropped, released = postProcess(m.cliques, minSize)
		for _, id := range released {
			store.Peak(id).ClearEdges()
		}
	})
	r.stats.CliquesRetained = len(res.Cliques)
	r.stats.CliquesDropped = len(dropped)
	r.stats.BelowThreshold = len(released)
	for _, c := range res.Cliques {
		r.stats.Aligned += c.Size()
	}

	a.step(ctx, r, StageCenter, func() {
		res.Center = SelectCenter(store, res.Cliques)
	})
	if !a.opts.SavePeakSimilarities {
		store.ReleaseEdges()
	}

	a.step(ctx, r, StageTable, func() {
		res.Table = BuildTable(store, res.Cliques)
	})

	res.BelowThreshold = res.peaks(released)
	if a.opts.SaveUnmatchedPeaks {
		res.Unassigned = res.peaks(unassigned)
	}
	if a.opts.SaveIncompatiblePeaks {
		res.Incompatible = res.peaks(m.incompatible)
	}
	return res, nil
}
