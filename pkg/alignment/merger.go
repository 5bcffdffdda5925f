package alignment

import (
	"github.com/dd0wney/cluso-bipace/pkg/logging"
	"github.com/dd0wney/cluso-bipace/pkg/peak"
)

// mergeResult describes one clique merge
type mergeResult struct {
	survivor    *Clique
	transferred int
	rejected    []peak.ID
}

// merger consumes bidirectional best hits one at a time and grows cliques.
// It is single-threaded; the outcome depends on the edge order.
type merger struct {
	store   *peak.Store
	cliques *cliqueSet
	logger  logging.Logger

	incompatible   []peak.ID
	isIncompatible []bool
	hasBBH         []bool

	edges     int
	merges    int
	rejectAdd int
}

func newMerger(store *peak.Store, logger logging.Logger) *merger {
	return &merger{
		store:          store,
		cliques:        newCliqueSet(store),
		logger:         logger,
		isIncompatible: make([]bool, store.Len()),
		hasBBH:         make([]bool, store.Len()),
	}
}

// run scans and applies every bidirectional best hit
func (m *merger) run() {
	scanBestHits(m.store, func(p, q *peak.Peak, _ float64) {
		m.apply(p, q)
	})
}

// apply processes one edge (p, q)
func (m *merger) apply(p, q *peak.Peak) {
	if m.isIncompatible[p.ID] || m.isIncompatible[q.ID] {
		return
	}
	m.edges++
	m.hasBBH[p.ID] = true
	m.hasBBH[q.ID] = true

	c := m.cliques.of(p.ID)
	d := m.cliques.of(q.ID)

	switch {
	case c == nil && d == nil:
		m.cliques.create(p, q)
	case d == nil:
		if !m.cliques.add(c, q) {
			m.rejectAdd++
		}
	case c == nil:
		if !m.cliques.add(d, p) {
			m.rejectAdd++
		}
	case c == d:
	default:
		m.merge(c, d)
	}
}

// merge drains the smaller clique into the larger. Equal sizes keep the
// clique with the lower id. Members that cannot transfer become incompatible.
func (m *merger) merge(c, d *Clique) mergeResult {
	large, small := c, d
	if small.Size() > large.Size() || (small.Size() == large.Size() && small.ID < large.ID) {
		large, small = small, large
	}

	res := mergeResult{survivor: large}
	members := small.Members()
	small.retire()

	for _, id := range members {
		p := m.store.Peak(id)
		if m.cliques.add(large, p) {
			res.transferred++
			continue
		}
		m.markIncompatible(p)
		res.rejected = append(res.rejected, id)
	}
	m.merges++

	if len(res.rejected) > 0 {
		m.logger.Debug("merge conflict",
			logging.CliqueID(int(large.ID)),
			logging.Int("absorbed_clique", int(small.ID)),
			logging.Int("transferred", res.transferred),
			logging.Int("rejected", len(res.rejected)),
		)
	}
	return res
}

// markIncompatible removes p from clique consideration for the rest of the run
func (m *merger) markIncompatible(p *peak.Peak) {
	m.isIncompatible[p.ID] = true
	m.incompatible = append(m.incompatible, p.ID)
	m.cliques.release(p.ID)
	p.ClearEdges()
}

// unassigned returns peaks that ended the merge stage in no clique and are
// not incompatible, in peak order.
func (m *merger) unassigned() []peak.ID {
	var out []peak.ID
	for id := range m.store.Len() {
		pid := peak.ID(id)
		if m.isIncompatible[pid] || m.cliques.of(pid) != nil {
			continue
		}
		out = append(out, pid)
	}
	return out
}

// withoutBBH counts peaks that never took part in a bidirectional best hit
func (m *merger) withoutBBH() int {
	n := 0
	for _, ok := range m.hasBBH {
		if !ok {
			n++
		}
	}
	return n
}
