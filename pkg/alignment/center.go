package alignment

import (
	"github.com/dd0wney/cluso-bipace/pkg/peak"
	"github.com/dd0wney/cluso-bipace/pkg/scoring"
)

// CenterSelection is the reference sample chosen by aggregate similarity.
type CenterSelection struct {
	Sample     int
	SampleName string

	// Scores[i][j] is the average similarity between the members of samples
	// i and j over the retained cliques containing both. Zero when none do.
	Scores [][]float64

	// Aggregate[i] is the row sum of Scores[i]
	Aggregate []float64
}

// SelectCenter scores every sample against every other over the shared
// cliques and picks the first sample with the highest aggregate.
// Missing or non-finite pair scores count as zero.
func SelectCenter(store *peak.Store, cliques []*Clique) CenterSelection {
	k := store.SampleCount()
	sums := make([][]float64, k)
	counts := make([][]int, k)
	for i := range sums {
		sums[i] = make([]float64, k)
		counts[i] = make([]int, k)
	}

	for _, c := range cliques {
		for i := 0; i < k; i++ {
			pi := c.Member(i)
			if pi == peak.None {
				continue
			}
			p := store.Peak(pi)
			for j := 0; j < k; j++ {
				if i == j {
					continue
				}
				qj := c.Member(j)
				if qj == peak.None {
					continue
				}
				s, ok := p.Score(store.Peak(qj))
				if !ok || !scoring.Finite(s) {
					s = 0
				}
				sums[i][j] += s
				counts[i][j]++
			}
		}
	}

	sel := CenterSelection{
		Scores:    sums,
		Aggregate: make([]float64, k),
	}
	for i := range sums {
		for j := range sums[i] {
			if counts[i][j] > 0 {
				sums[i][j] /= float64(counts[i][j])
			}
			sel.Aggregate[i] += sums[i][j]
		}
	}

	for i := 1; i < k; i++ {
		if sel.Aggregate[i] > sel.Aggregate[sel.Sample] {
			sel.Sample = i
		}
	}
	if k > 0 {
		sel.SampleName = store.Sample(sel.Sample).Name
	}
	return sel
}
