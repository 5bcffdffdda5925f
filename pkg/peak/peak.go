package peak

import (
	"fmt"

	"github.com/google/uuid"
)

// ID addresses a peak inside a Store arena. IDs are dense and assigned in
// sample order, so the peaks of one sample occupy a contiguous range.
type ID int

// None marks the absence of a peak
const None ID = -1

// Namespace seeds the name-based UUIDs derived for peaks that arrive without one.
var Namespace = uuid.MustParse("6f1d3c52-8b0e-4c1a-9e57-2a4b9d0c7e31")

// Descriptor is the input form of a peak as supplied by a peak-detection collaborator.
type Descriptor struct {
	UID           uuid.UUID // optional; derived from sample name and scan index when zero
	ScanIndex     int
	RetentionTime float64
	Intensity     float64
	Area          float64
	MassValues    []float64
	Intensities   []float64
}

// Peak is a detected signal feature of one sample.
//
// Identity fields never change after construction. The similarity edges are
// written by the pairwise dispatcher and cleared when the peak is removed
// from clique consideration.
type Peak struct {
	ID            ID
	UID           uuid.UUID
	Sample        int
	SampleName    string
	Local         int // position within the owning sample
	ScanIndex     int
	RetentionTime float64
	Intensity     float64
	Area          float64
	Spectrum      Spectrum

	edges []Edges // indexed by partner sample; nil when not compared
}

// DeriveUID returns the deterministic UUID of a peak that arrived without one.
func DeriveUID(sampleName string, scanIndex, local int) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(fmt.Sprintf("%s/%d/%d", sampleName, scanIndex, local)))
}

// String returns a short human-readable label
func (p *Peak) String() string {
	return fmt.Sprintf("%s#%d", p.SampleName, p.Local)
}

// Edges returns the similarity slot for sample, or nil
func (p *Peak) Edges(sample int) Edges {
	if sample < 0 || sample >= len(p.edges) {
		return nil
	}
	return p.edges[sample]
}

// Best returns the best-scoring partner recorded for sample
func (p *Peak) Best(sample int) (Candidate, bool) {
	e := p.Edges(sample)
	if e == nil {
		return Candidate{Peak: None}, false
	}
	return e.Best()
}

// IsBestHit reports whether q is the best-scoring partner of p in q's sample.
func (p *Peak) IsBestHit(q *Peak) bool {
	c, ok := p.Best(q.Sample)
	return ok && c.Peak == q.ID
}

// Score returns the recorded similarity between p and q
func (p *Peak) Score(q *Peak) (float64, bool) {
	e := p.Edges(q.Sample)
	if e == nil {
		return 0, false
	}
	return e.Score(q.ID)
}

// HasEdges reports whether any similarity slot is populated
func (p *Peak) HasEdges() bool {
	for _, e := range p.edges {
		if e != nil {
			return true
		}
	}
	return false
}

// ClearEdges drops every similarity slot.
func (p *Peak) ClearEdges() {
	for i := range p.edges {
		p.edges[i] = nil
	}
}
