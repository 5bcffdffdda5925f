package alignment

import (
	"github.com/google/uuid"

	"github.com/dd0wney/cluso-bipace/pkg/peak"
)

// Cell is one sample's entry in a correspondence row.
type Cell struct {
	Present       bool
	Peak          peak.ID
	UID           uuid.UUID
	ScanIndex     int
	RetentionTime float64
	Area          float64
}

// Absent is the cell of a sample with no member in the row's clique
var Absent = Cell{Peak: peak.None}

// Row is one retained clique
type Row struct {
	Clique            CliqueID
	MeanRetentionTime float64
	Cells             []Cell // one per sample, tuple order
}

// Table is the clique-by-sample correspondence table.
type Table struct {
	Samples []string
	Rows    []Row
}

// BuildTable projects cliques into rows in the given order
func BuildTable(store *peak.Store, cliques []*Clique) *Table {
	samples := store.Samples()
	t := &Table{
		Samples: make([]string, len(samples)),
		Rows:    make([]Row, 0, len(cliques)),
	}
	for i, s := range samples {
		t.Samples[i] = s.Name
	}

	for _, c := range cliques {
		row := Row{
			Clique:            c.ID,
			MeanRetentionTime: c.MeanRetentionTime(),
			Cells:             make([]Cell, len(samples)),
		}
		for i := range samples {
			id := c.Member(i)
			if id == peak.None {
				row.Cells[i] = Absent
				continue
			}
			p := store.Peak(id)
			row.Cells[i] = Cell{
				Present:       true,
				Peak:          p.ID,
				UID:           p.UID,
				ScanIndex:     p.ScanIndex,
				RetentionTime: p.RetentionTime,
				Area:          p.Area,
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Coverage returns the number of present cells per sample
func (t *Table) Coverage() []int {
	out := make([]int, len(t.Samples))
	for _, r := range t.Rows {
		for i, c := range r.Cells {
			if c.Present {
				out[i]++
			}
		}
	}
	return out
}
