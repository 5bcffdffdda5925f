package peak

import (
	"sort"
)

// Candidate is a scored partner peak in another sample.
type Candidate struct {
	Peak  ID
	Score float64
}

// Edges holds the similarity scores of one peak against every peak of one other sample.
//
// Set is called once per partner by exactly one dispatcher unit, so
// implementations are not safe for concurrent writers on the same slot.
type Edges interface {
	// Set records the score against the partner at position local of the partner sample
	Set(local int, score float64)
	// Best returns the highest-scoring partner.
	// Equal scores keep the partner that comes first in the partner sample.
	Best() (Candidate, bool)
	// Score returns the score recorded against partner
	Score(partner ID) (float64, bool)
	// Ranked returns every compared partner ordered best-first;
	// equal scores keep partner sample order
	Ranked() []Candidate
	// Len returns the number of recorded scores
	Len() int
}

type bestTracker struct {
	local int
	score float64
	ok    bool
}

func (b *bestTracker) offer(local int, score float64) {
	if !b.ok || score > b.score || (score == b.score && local < b.local) {
		b.local = local
		b.score = score
		b.ok = true
	}
}

// denseEdges keeps one score per partner peak, indexed by the partner's local position.
type denseEdges struct {
	base   ID
	scores []float64
	set    []bool
	count  int
	best   bestTracker
}

func newDenseEdges(partner *Sample) *denseEdges {
	return &denseEdges{
		base:   partner.first,
		scores: make([]float64, partner.Len()),
		set:    make([]bool, partner.Len()),
	}
}

func (e *denseEdges) Set(local int, score float64) {
	if !e.set[local] {
		e.set[local] = true
		e.count++
	}
	e.scores[local] = score
	e.best.offer(local, score)
}

func (e *denseEdges) Best() (Candidate, bool) {
	if !e.best.ok {
		return Candidate{Peak: None}, false
	}
	return Candidate{Peak: e.base + ID(e.best.local), Score: e.best.score}, true
}

func (e *denseEdges) Score(partner ID) (float64, bool) {
	i := int(partner - e.base)
	if i < 0 || i >= len(e.scores) || !e.set[i] {
		return 0, false
	}
	return e.scores[i], true
}

func (e *denseEdges) Ranked() []Candidate {
	out := make([]Candidate, 0, e.count)
	for i, ok := range e.set {
		if ok {
			out = append(out, Candidate{Peak: e.base + ID(i), Score: e.scores[i]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func (e *denseEdges) Len() int { return e.count }

// sparseEdges keeps only non-zero scores. A compared partner without an
// entry scored exactly zero. The dispatcher fills a slot completely, so a
// slot with any score has compared every partner.
type sparseEdges struct {
	base   ID
	n      int
	scores map[ID]float64
	count  int
	best   bestTracker
}

func newSparseEdges(partner *Sample) *sparseEdges {
	return &sparseEdges{
		base:   partner.first,
		n:      partner.Len(),
		scores: make(map[ID]float64),
	}
}

func (e *sparseEdges) Set(local int, score float64) {
	e.count++
	if score != 0 {
		e.scores[e.base+ID(local)] = score
	}
	e.best.offer(local, score)
}

func (e *sparseEdges) Best() (Candidate, bool) {
	if !e.best.ok {
		return Candidate{Peak: None}, false
	}
	return Candidate{Peak: e.base + ID(e.best.local), Score: e.best.score}, true
}

func (e *sparseEdges) Score(partner ID) (float64, bool) {
	i := int(partner - e.base)
	if i < 0 || i >= e.n || e.count == 0 {
		return 0, false
	}
	return e.scores[partner], true
}

// Ranked reports every compared partner, zero scores included, so the
// ranking matches the dense representation.
func (e *sparseEdges) Ranked() []Candidate {
	if e.count == 0 {
		return []Candidate{}
	}
	out := make([]Candidate, e.n)
	for i := range out {
		id := e.base + ID(i)
		out[i] = Candidate{Peak: id, Score: e.scores[id]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func (e *sparseEdges) Len() int { return e.count }
