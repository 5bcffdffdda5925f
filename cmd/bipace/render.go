package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-bipace/pkg/alignment"
	"github.com/dd0wney/cluso-bipace/pkg/synthetic"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	absentStyle = cellStyle.Foreground(lipgloss.Color("#666666"))
)

const absentMark = "-"

// accuracy compares the retained rows against the generator's ground truth
type accuracy struct {
	Rows       int `yaml:"rows"`
	PureRows   int `yaml:"pure_rows"`
	Features   int `yaml:"features"`
	Recovered  int `yaml:"recovered_features"`
	NoiseCells int `yaml:"noise_cells"`
}

// score counts rows whose present cells all come from one generated feature
func score(res *alignment.Result, samples []synthetic.Sample) accuracy {
	acc := accuracy{Rows: len(res.Table.Rows)}

	features := make(map[int]bool)
	for _, s := range samples {
		for _, f := range s.Truth {
			if f != synthetic.Noise {
				features[f] = false
			}
		}
	}
	acc.Features = len(features)

	for _, row := range res.Table.Rows {
		feature, pure := synthetic.Noise, true
		for _, cell := range row.Cells {
			if !cell.Present {
				continue
			}
			p := res.Store.Peak(cell.Peak)
			f := samples[p.Sample].Truth[p.Local]
			switch {
			case f == synthetic.Noise:
				acc.NoiseCells++
				pure = false
			case feature == synthetic.Noise:
				feature = f
			case feature != f:
				pure = false
			}
		}
		if pure && feature != synthetic.Noise {
			acc.PureRows++
			features[feature] = true
		}
	}

	for _, hit := range features {
		if hit {
			acc.Recovered++
		}
	}
	return acc
}

func renderSummary(res *alignment.Result, acc accuracy) string {
	s := res.Stats
	lines := []string{
		titleStyle.Render("BiPACE alignment " + res.RunID.String()),
		fmt.Sprintf("samples %d  peaks %d  min clique size %d", s.Samples, s.Peaks, s.MinCliqueSize),
		fmt.Sprintf("pair units %d  scores %d  BBH edges %d", s.PairUnits, s.ScoresComputed, s.BBHEdges),
		fmt.Sprintf("cliques created %d  merged %d  retained %d  dropped %d",
			s.CliquesCreated, s.CliquesMerged, s.CliquesRetained, s.CliquesDropped),
		fmt.Sprintf("peaks aligned %d  unassigned %d  incompatible %d  below threshold %d",
			s.Aligned, s.Unassigned, s.Incompatible, s.BelowThreshold),
		fmt.Sprintf("center sample %s", res.Center.SampleName),
		fmt.Sprintf("pure rows %d/%d  features recovered %d/%d  noise cells %d",
			acc.PureRows, acc.Rows, acc.Recovered, acc.Features, acc.NoiseCells),
		fmt.Sprintf("duration %s", s.Duration),
	}
	return statsBoxStyle.Render(strings.Join(lines, "\n"))
}

// renderTable draws up to maxRows rows as retention times, one column per sample
func renderTable(t *alignment.Table, maxRows int) string {
	rows := t.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	headers := append([]string{"clique", "mean rt"}, t.Samples...)
	data := make([][]string, len(rows))
	for i, row := range rows {
		line := make([]string, 0, len(headers))
		line = append(line, strconv.Itoa(int(row.Clique)), formatRT(row.MeanRetentionTime))
		for _, cell := range row.Cells {
			if !cell.Present {
				line = append(line, absentMark)
				continue
			}
			line = append(line, formatRT(cell.RetentionTime))
		}
		data[i] = line
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case data[row][col] == absentMark:
				return absentStyle
			default:
				return cellStyle
			}
		})

	out := tbl.String()
	if hidden := len(t.Rows) - len(rows); hidden > 0 {
		out += fmt.Sprintf("\n... %d more rows", hidden)
	}
	return out
}

func formatRT(rt float64) string {
	return strconv.FormatFloat(rt, 'f', 2, 64)
}

type resultDoc struct {
	RunID    string            `yaml:"run_id"`
	Center   string            `yaml:"center"`
	Samples  []string          `yaml:"samples"`
	Stats    map[string]int64  `yaml:"stats"`
	Accuracy accuracy          `yaml:"accuracy"`
	Rows     []rowDoc          `yaml:"rows"`
	Stages   map[string]string `yaml:"stages"`
}

type rowDoc struct {
	Clique int      `yaml:"clique"`
	MeanRT float64  `yaml:"mean_rt"`
	Peaks  []string `yaml:"peaks"` // peak UID per sample, "-" when absent
}

func marshalResult(res *alignment.Result, acc accuracy) ([]byte, error) {
	s := res.Stats
	doc := resultDoc{
		RunID:   res.RunID.String(),
		Center:  res.Center.SampleName,
		Samples: res.Table.Samples,
		Stats: map[string]int64{
			"samples":          int64(s.Samples),
			"peaks":            int64(s.Peaks),
			"pair_units":       int64(s.PairUnits),
			"scores_computed":  s.ScoresComputed,
			"bbh_edges":        int64(s.BBHEdges),
			"cliques_retained": int64(s.CliquesRetained),
			"cliques_dropped":  int64(s.CliquesDropped),
			"aligned":          int64(s.Aligned),
			"unassigned":       int64(s.Unassigned),
			"incompatible":     int64(s.Incompatible),
			"below_threshold":  int64(s.BelowThreshold),
		},
		Accuracy: acc,
		Rows:     make([]rowDoc, len(res.Table.Rows)),
		Stages:   make(map[string]string, len(s.StageDurations)),
	}
	for name, d := range s.StageDurations {
		doc.Stages[name] = d.String()
	}
	for i, row := range res.Table.Rows {
		r := rowDoc{Clique: int(row.Clique), MeanRT: row.MeanRetentionTime, Peaks: make([]string, len(row.Cells))}
		for j, cell := range row.Cells {
			if cell.Present {
				r.Peaks[j] = cell.UID.String()
			} else {
				r.Peaks[j] = absentMark
			}
		}
		doc.Rows[i] = r
	}
	return yaml.Marshal(doc)
}
