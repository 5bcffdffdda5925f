package alignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-bipace/pkg/peak"
)

func TestClique_AtMostOnePeakPerSample(t *testing.T) {
	store := newTestStore(t,
		sampleInput("A", 10, 20),
		sampleInput("B", 30),
	)
	a0 := store.Peak(0)
	a1 := store.Peak(1)
	b0 := store.Peak(2)

	c := newClique(0, store.SampleCount())
	require.True(t, c.Add(a0))
	assert.False(t, c.Add(a1), "second peak of sample A must be rejected")
	require.True(t, c.Add(b0))

	assert.Equal(t, 2, c.Size())
	assert.Equal(t, []peak.ID{a0.ID, b0.ID}, c.Members())
	assert.Equal(t, a0.ID, c.Member(0))
	assert.Equal(t, peak.None, c.Member(5))
	assert.True(t, c.Has(1))
	assert.InDelta(t, 20.0, c.MeanRetentionTime(), 1e-12)
	assert.InDelta(t, 100.0, c.MeanApexIntensity(), 1e-12)
}

func TestClique_Retire(t *testing.T) {
	store := newTestStore(t, sampleInput("A", 10), sampleInput("B", 12))

	c := newClique(3, store.SampleCount())
	c.Add(store.Peak(0))
	c.retire()

	assert.False(t, c.Live())
	assert.Zero(t, c.Size())
	assert.Empty(t, c.Members())
	assert.Zero(t, c.MeanRetentionTime())
	assert.False(t, c.Add(store.Peak(1)), "retired cliques accept no members")
}

func TestCliqueSet_IndexFollowsMembership(t *testing.T) {
	store := newTestStore(t,
		sampleInput("A", 1, 2),
		sampleInput("B", 1),
		sampleInput("C", 1),
	)
	set := newCliqueSet(store)

	c := set.create(store.Peak(1), store.Peak(2)) // A#1, B#0
	assert.Same(t, c, set.of(1))
	assert.Same(t, c, set.of(2))
	assert.Nil(t, set.of(0))

	d := set.create(store.Peak(0), store.Peak(3)) // A#0, C#0
	assert.Equal(t, CliqueID(1), d.ID)
	assert.Equal(t, 2, set.created())

	// owned lists cliques by their lowest member peak
	assert.Equal(t, []*Clique{d, c}, set.owned())

	set.release(3)
	assert.Nil(t, set.of(3))

	set.dissolve(c)
	assert.Nil(t, set.of(1))
	assert.Nil(t, set.of(2))
	assert.Equal(t, []*Clique{d}, set.owned())
}
