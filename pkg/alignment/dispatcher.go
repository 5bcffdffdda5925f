package alignment

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dd0wney/cluso-bipace/pkg/logging"
	"github.com/dd0wney/cluso-bipace/pkg/parallel"
	"github.com/dd0wney/cluso-bipace/pkg/peak"
	"github.com/dd0wney/cluso-bipace/pkg/scoring"
)

// pairUnit compares every peak of sample A against every peak of sample B.
type pairUnit struct {
	a, b *peak.Sample
}

// dispatcher computes all pairwise similarities between samples.
//
// Each unit writes only the slots peak(A).edges[B] and peak(B).edges[A],
// so units never touch the same slot and need no locking.
type dispatcher struct {
	store   *peak.Store
	scorer  scoring.Scorer
	workers int
	tracer  trace.Tracer
	logger  logging.Logger

	scores atomic.Int64
}

// units lists the sample pairs i<j in tuple order
func (d *dispatcher) units() []pairUnit {
	samples := d.store.Samples()
	units := make([]pairUnit, 0, len(samples)*(len(samples)-1)/2)
	for i := range samples {
		for j := i + 1; j < len(samples); j++ {
			units = append(units, pairUnit{a: samples[i], b: samples[j]})
		}
	}
	return units
}

// run executes every unit on a bounded pool and blocks until all finish or one fails.
func (d *dispatcher) run(ctx context.Context) (int, error) {
	units := d.units()

	pool, err := parallel.NewWorkerPool(ctx, d.workers)
	if err != nil {
		return 0, err
	}

	d.logger.Debug("dispatching pair units",
		logging.Count(len(units)),
		logging.Int("workers", pool.Workers()),
	)

	for _, u := range units {
		if !pool.Submit(func(ctx context.Context) error {
			return d.compare(ctx, u)
		}) {
			break
		}
	}

	if err := pool.Wait(); err != nil {
		return len(units), err
	}
	return len(units), nil
}

func (d *dispatcher) compare(ctx context.Context, u pairUnit) error {
	_, span := d.tracer.Start(ctx, "alignment.compare",
		trace.WithAttributes(
			attribute.String("sample_a", u.a.Name),
			attribute.String("sample_b", u.b.Name),
			attribute.Int("peaks_a", u.a.Len()),
			attribute.Int("peaks_b", u.b.Len()),
		),
	)
	defer span.End()

	as := d.store.Peaks(u.a)
	bs := d.store.Peaks(u.b)

	var n int64
	defer func() { d.scores.Add(n) }()

	for _, p := range as {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		pe := p.Edges(u.b.Index)
		for _, q := range bs {
			s := d.scorer.Score(p, q)
			if !scoring.Finite(s) {
				err := fmt.Errorf("%w: %s vs %s = %v", ErrNonFiniteScore, p, q, s)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			pe.Set(q.Local, s)
			q.Edges(u.a.Index).Set(p.Local, s)
			n++
		}
	}

	span.SetAttributes(attribute.Int64("scores", n))
	return nil
}

// computed returns the number of scores produced so far
func (d *dispatcher) computed() int64 { return d.scores.Load() }
