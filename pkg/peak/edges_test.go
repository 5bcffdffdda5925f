package peak

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partnerSample(first ID, n int) *Sample {
	return &Sample{Index: 1, Name: "partner", first: first, n: n}
}

func TestEdges(t *testing.T) {
	factories := map[string]Factory{
		"dense":  NewFactory(false, 0),
		"sparse": NewFactory(true, 0),
	}

	for name, f := range factories {
		t.Run(name, func(t *testing.T) {
			e := f.NewEdges(partnerSample(10, 4))

			_, ok := e.Best()
			assert.False(t, ok, "empty slot has no best")

			e.Set(0, 0.3)
			e.Set(1, 0.8)
			e.Set(2, 0)
			e.Set(3, 0.8)

			assert.Equal(t, 4, e.Len())

			best, ok := e.Best()
			require.True(t, ok)
			assert.Equal(t, Candidate{Peak: 11, Score: 0.8}, best, "equal scores keep the earlier partner")

			s, ok := e.Score(12)
			assert.True(t, ok)
			assert.Zero(t, s)

			s, ok = e.Score(10)
			assert.True(t, ok)
			assert.Equal(t, 0.3, s)

			_, ok = e.Score(9)
			assert.False(t, ok, "peak outside the partner sample")
			_, ok = e.Score(14)
			assert.False(t, ok)

			assert.Equal(t, []Candidate{{11, 0.8}, {13, 0.8}, {10, 0.3}, {12, 0}}, e.Ranked())
		})
	}
}

func TestEdges_ZeroScoresInRanking(t *testing.T) {
	dense := NewFactory(false, 0).NewEdges(partnerSample(0, 4))
	sparse := NewFactory(true, 0).NewEdges(partnerSample(0, 4))
	for _, e := range []Edges{dense, sparse} {
		e.Set(0, 0)
		e.Set(1, -0.5)
		e.Set(2, 0)
		e.Set(3, 0.5)
	}

	want := []Candidate{{3, 0.5}, {0, 0}, {2, 0}, {1, -0.5}}
	assert.Equal(t, want, dense.Ranked())
	assert.Equal(t, want, sparse.Ranked(), "zero-score partners are ranked in sample order")
}

func TestEdges_AllZeroKeepsFirst(t *testing.T) {
	for _, sparse := range []bool{false, true} {
		e := NewFactory(sparse, 0).NewEdges(partnerSample(5, 3))
		for i := 0; i < 3; i++ {
			e.Set(i, 0)
		}
		best, ok := e.Best()
		require.True(t, ok)
		assert.Equal(t, ID(5), best.Peak)
	}
}

func TestEdges_UnsetSlot(t *testing.T) {
	for _, sparse := range []bool{false, true} {
		e := NewFactory(sparse, 0).NewEdges(partnerSample(0, 3))
		_, ok := e.Score(1)
		assert.False(t, ok, "sparse=%v", sparse)
		assert.Empty(t, e.Ranked())
	}
}
