package alignment

import (
	"fmt"

	"github.com/dd0wney/cluso-bipace/pkg/peak"
)

// CliqueID identifies a clique within one run. It is never reassigned.
type CliqueID int

// NoClique marks a peak that is not owned by any clique
const NoClique CliqueID = -1

// Clique is a set of peaks, at most one per sample, judged to be the same
// feature observed across samples.
type Clique struct {
	ID CliqueID

	members []peak.ID // indexed by sample; peak.None when absent
	size    int
	live    bool

	sumRT        float64
	sumIntensity float64
}

func newClique(id CliqueID, samples int) *Clique {
	members := make([]peak.ID, samples)
	for i := range members {
		members[i] = peak.None
	}
	return &Clique{ID: id, members: members, live: true}
}

// Add inserts p unless its sample is already represented. It reports whether p was added.
func (c *Clique) Add(p *peak.Peak) bool {
	if !c.live || c.members[p.Sample] != peak.None {
		return false
	}
	c.members[p.Sample] = p.ID
	c.size++
	c.sumRT += p.RetentionTime
	c.sumIntensity += p.Intensity
	return true
}

// Member returns the peak contributed by sample, or peak.None
func (c *Clique) Member(sample int) peak.ID {
	if sample < 0 || sample >= len(c.members) {
		return peak.None
	}
	return c.members[sample]
}

// Has reports whether sample is represented
func (c *Clique) Has(sample int) bool {
	return c.Member(sample) != peak.None
}

// Members returns the member peaks in sample order
func (c *Clique) Members() []peak.ID {
	out := make([]peak.ID, 0, c.size)
	for _, id := range c.members {
		if id != peak.None {
			out = append(out, id)
		}
	}
	return out
}

// Size returns the member count
func (c *Clique) Size() int { return c.size }

// Live reports whether the clique has not been drained by a merge or dissolved
func (c *Clique) Live() bool { return c.live }

// MeanRetentionTime returns the average retention time of the members
func (c *Clique) MeanRetentionTime() float64 {
	if c.size == 0 {
		return 0
	}
	return c.sumRT / float64(c.size)
}

// MeanApexIntensity returns the average apex intensity of the members
func (c *Clique) MeanApexIntensity() float64 {
	if c.size == 0 {
		return 0
	}
	return c.sumIntensity / float64(c.size)
}

func (c *Clique) String() string {
	return fmt.Sprintf("clique %d (size %d, rt %.3f)", c.ID, c.size, c.MeanRetentionTime())
}

// retire empties the clique and marks it dead
func (c *Clique) retire() {
	for i := range c.members {
		c.members[i] = peak.None
	}
	c.size = 0
	c.sumRT = 0
	c.sumIntensity = 0
	c.live = false
}

// cliqueSet is the clique arena plus the peak->clique index.
type cliqueSet struct {
	store   *peak.Store
	cliques []*Clique
	owner   []CliqueID // indexed by peak.ID
}

func newCliqueSet(store *peak.Store) *cliqueSet {
	owner := make([]CliqueID, store.Len())
	for i := range owner {
		owner[i] = NoClique
	}
	return &cliqueSet{store: store, owner: owner}
}

// create opens a clique holding p and q
func (s *cliqueSet) create(p, q *peak.Peak) *Clique {
	c := newClique(CliqueID(len(s.cliques)), s.store.SampleCount())
	s.cliques = append(s.cliques, c)
	s.add(c, p)
	s.add(c, q)
	return c
}

// of returns the live clique owning id, or nil
func (s *cliqueSet) of(id peak.ID) *Clique {
	cid := s.owner[id]
	if cid == NoClique {
		return nil
	}
	c := s.cliques[cid]
	if !c.live {
		return nil
	}
	return c
}

// add inserts p into c and points the index at c
func (s *cliqueSet) add(c *Clique, p *peak.Peak) bool {
	if !c.Add(p) {
		return false
	}
	s.owner[p.ID] = c.ID
	return true
}

// release removes the index entry of id
func (s *cliqueSet) release(id peak.ID) {
	s.owner[id] = NoClique
}

// dissolve retires c and releases its members from the index
func (s *cliqueSet) dissolve(c *Clique) {
	for _, id := range c.Members() {
		if s.owner[id] == c.ID {
			s.owner[id] = NoClique
		}
	}
	c.retire()
}

// owned returns the distinct live cliques reachable from the index,
// in order of their first member by peak ID.
func (s *cliqueSet) owned() []*Clique {
	seen := make([]bool, len(s.cliques))
	var out []*Clique
	for _, cid := range s.owner {
		if cid == NoClique || seen[cid] {
			continue
		}
		seen[cid] = true
		if c := s.cliques[cid]; c.live {
			out = append(out, c)
		}
	}
	return out
}

// created returns the number of cliques ever opened
func (s *cliqueSet) created() int { return len(s.cliques) }
