package alignment

import "github.com/dd0wney/cluso-bipace/pkg/peak"

// Edge is a bidirectional best hit between peaks of two samples.
type Edge struct {
	P, Q  peak.ID
	Score float64
}

// bestHit returns q, the best partner of p in sample j, when p is also the
// best partner of q in p's sample.
func bestHit(store *peak.Store, p *peak.Peak, j int) (*peak.Peak, float64, bool) {
	c, ok := p.Best(j)
	if !ok {
		return nil, 0, false
	}
	q := store.Peak(c.Peak)
	if !q.IsBestHit(p) {
		return nil, 0, false
	}
	return q, c.Score, true
}

// scanBestHits visits bidirectional best hits in the fixed order: outer sample
// i in tuple order, other sample j != i in tuple order, then the peaks of i in
// sample order. Mutuality is evaluated at visit time, so fn observes the
// effect of earlier visits (cleared edges of incompatible peaks).
func scanBestHits(store *peak.Store, fn func(p, q *peak.Peak, score float64)) {
	samples := store.Samples()
	for _, si := range samples {
		for _, sj := range samples {
			if si.Index == sj.Index {
				continue
			}
			for _, p := range store.Peaks(si) {
				if q, s, ok := bestHit(store, p, sj.Index); ok {
					fn(p, q, s)
				}
			}
		}
	}
}

// BestHits returns every bidirectional best hit in scan order without
// mutating any state. Each hit is reported once from each side.
func BestHits(store *peak.Store) []Edge {
	var out []Edge
	scanBestHits(store, func(p, q *peak.Peak, score float64) {
		out = append(out, Edge{P: p.ID, Q: q.ID, Score: score})
	})
	return out
}
