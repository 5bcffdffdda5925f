package alignment

import (
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-bipace/pkg/metrics"
	"github.com/dd0wney/cluso-bipace/pkg/peak"
)

// Stage names used in logs, spans and metrics
const (
	StageBuild    = "build"
	StageDispatch = "dispatch"
	StageMerge    = "merge"
	StageFilter   = "filter"
	StageCenter   = "center"
	StageTable    = "table"
)

// PairScores is the full score matrix between two samples.
// Scores[a][b] is the similarity of peak a of A and peak b of B.
type PairScores struct {
	A, B   string
	Scores [][]float64
}

// Stats summarizes one run
type Stats struct {
	Samples         int
	Peaks           int
	MinCliqueSize   int
	PairUnits       int
	ScoresComputed  int64
	BBHEdges        int
	PeaksWithoutBBH int
	CliquesCreated  int
	CliquesMerged   int
	CliquesRetained int
	CliquesDropped  int
	Aligned         int
	Unassigned      int
	Incompatible    int
	BelowThreshold  int
	StageDurations  map[string]time.Duration
	Duration        time.Duration
}

// IncompatibleRatio returns the fraction of peaks marked incompatible
func (s Stats) IncompatibleRatio() float64 {
	if s.Peaks == 0 {
		return 0
	}
	return float64(s.Incompatible) / float64(s.Peaks)
}

func (s Stats) summary() metrics.RunSummary {
	return metrics.RunSummary{
		Samples:         s.Samples,
		Peaks:           s.Peaks,
		PairUnits:       s.PairUnits,
		ScoresComputed:  s.ScoresComputed,
		BBHEdges:        s.BBHEdges,
		CliquesCreated:  s.CliquesCreated,
		CliquesMerged:   s.CliquesMerged,
		CliquesRetained: s.CliquesRetained,
		CliquesDropped:  s.CliquesDropped,
		Aligned:         s.Aligned,
		Unassigned:      s.Unassigned,
		Incompatible:    s.Incompatible,
		BelowThreshold:  s.BelowThreshold,
		Duration:        s.Duration,
	}
}

// Result is the output of one alignment run.
type Result struct {
	RunID   uuid.UUID
	Store   *peak.Store
	Table   *Table
	Cliques []*Clique // retained, sorted by mean retention time
	Center  CenterSelection

	// Diagnostic peak sets. Unassigned and BelowThreshold are in peak order,
	// Incompatible in the order the conflicts occurred. Unassigned and
	// Incompatible are nil unless the matching Save option is set.
	Unassigned     []*peak.Peak
	Incompatible   []*peak.Peak
	BelowThreshold []*peak.Peak

	// Similarities holds one matrix per sample pair i<j when SavePeakSimilarities is set
	Similarities []PairScores

	Stats Stats
}

// CliqueOf returns the retained clique holding id, or nil
func (r *Result) CliqueOf(id peak.ID) *Clique {
	p := r.Store.Peak(id)
	for _, c := range r.Cliques {
		if c.Member(p.Sample) == id {
			return c
		}
	}
	return nil
}

func (r *Result) peaks(ids []peak.ID) []*peak.Peak {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*peak.Peak, len(ids))
	for i, id := range ids {
		out[i] = r.Store.Peak(id)
	}
	return out
}

// snapshotSimilarities copies every pairwise score out of the edge slots
func snapshotSimilarities(store *peak.Store) []PairScores {
	samples := store.Samples()
	var out []PairScores
	for i, a := range samples {
		for _, b := range samples[i+1:] {
			ps := PairScores{A: a.Name, B: b.Name, Scores: make([][]float64, a.Len())}
			bs := store.Peaks(b)
			for r, p := range store.Peaks(a) {
				row := make([]float64, len(bs))
				for c, q := range bs {
					row[c], _ = p.Score(q)
				}
				ps.Scores[r] = row
			}
			out = append(out, ps)
		}
	}
	return out
}
