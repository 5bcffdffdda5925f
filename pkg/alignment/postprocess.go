package alignment

import (
	"sort"

	"github.com/dd0wney/cluso-bipace/pkg/peak"
)

// FilterBySize splits cliques into those with at least minSize members and
// the rest. Order is preserved in both slices.
func FilterBySize(cliques []*Clique, minSize int) (kept, dropped []*Clique) {
	kept = make([]*Clique, 0, len(cliques))
	for _, c := range cliques {
		if c.Size() >= minSize {
			kept = append(kept, c)
		} else {
			dropped = append(dropped, c)
		}
	}
	return kept, dropped
}

// SortByRetentionTime orders cliques ascending by mean retention time.
// Equal means keep their relative order.
func SortByRetentionTime(cliques []*Clique) {
	sort.SliceStable(cliques, func(i, j int) bool {
		return cliques[i].MeanRetentionTime() < cliques[j].MeanRetentionTime()
	})
}

// postProcess collects the surviving cliques, dissolves those below minSize
// and sorts the rest. It returns the retained cliques, the dissolved cliques
// and the peaks released by dissolution.
func postProcess(set *cliqueSet, minSize int) (retained, dropped []*Clique, released []peak.ID) {
	retained, dropped = FilterBySize(set.owned(), minSize)
	for _, c := range dropped {
		released = append(released, c.Members()...)
		set.dissolve(c)
	}
	sort.Slice(released, func(i, j int) bool { return released[i] < released[j] })
	SortByRetentionTime(retained)
	return retained, dropped, released
}
