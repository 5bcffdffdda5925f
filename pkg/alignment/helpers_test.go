package alignment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dd0wney/cluso-bipace/pkg/logging"
	"github.com/dd0wney/cluso-bipace/pkg/peak"
	"github.com/dd0wney/cluso-bipace/pkg/scoring"
	"github.com/dd0wney/cluso-bipace/pkg/synthetic"
)

// labelScores scores peaks by their "sample#local" labels in either order.
// Pairs not listed score zero.
type labelScores map[string]float64

func (m labelScores) Score(a, b *peak.Peak) float64 {
	if s, ok := m[a.String()+"|"+b.String()]; ok {
		return s
	}
	return m[b.String()+"|"+a.String()]
}

// sampleInput builds a sample whose peaks have the given retention times
func sampleInput(name string, rts ...float64) SampleInput {
	s := SampleInput{Name: name, Peaks: make([]peak.Descriptor, len(rts))}
	for i, rt := range rts {
		s.Peaks[i] = peak.Descriptor{
			ScanIndex:     i * 10,
			RetentionTime: rt,
			Intensity:     100 * float64(i+1),
			Area:          1000 * float64(i+1),
		}
	}
	return s
}

func syntheticInputs(t testing.TB, cfg synthetic.Config) []SampleInput {
	t.Helper()
	samples, err := synthetic.Generate(cfg)
	require.NoError(t, err)

	out := make([]SampleInput, len(samples))
	for i, s := range samples {
		out[i] = SampleInput{Name: s.Name, Peaks: s.Peaks}
	}
	return out
}

func mustAlign(t testing.TB, opts Options, samples []SampleInput, scorer scoring.Scorer, options ...Option) *Result {
	t.Helper()
	a, err := New(opts, options...)
	require.NoError(t, err)

	res, err := a.Align(context.Background(), samples, scorer)
	require.NoError(t, err)
	return res
}

func labels(peaks []*peak.Peak) []string {
	out := make([]string, len(peaks))
	for i, p := range peaks {
		out[i] = p.String()
	}
	return out
}

func cliqueLabels(res *Result, c *Clique) []string {
	ids := c.Members()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = res.Store.Peak(id).String()
	}
	return out
}

// newTestStore builds a store with dense factory and prepared edges
func newTestStore(t testing.TB, samples ...SampleInput) *peak.Store {
	t.Helper()
	store := peak.NewStore(nil)
	for _, s := range samples {
		_, err := store.AddSample(s.Name, s.Peaks)
		require.NoError(t, err)
	}
	store.PrepareEdges()
	return store
}

// scoreAll fills every edge slot of store with scorer on a single worker
func scoreAll(t testing.TB, store *peak.Store, scorer scoring.Scorer) {
	t.Helper()
	d := &dispatcher{
		store:   store,
		scorer:  scorer,
		workers: 1,
		tracer:  noop.NewTracerProvider().Tracer("test"),
		logger:  logging.NewNopLogger(),
	}
	_, err := d.run(context.Background())
	require.NoError(t, err)
}
