package peak

import (
	"fmt"
	"strings"
)

// Sample is one chromatography run: a named, ordered range of peaks.
type Sample struct {
	Index int
	Name  string

	first ID
	n     int
}

// Len returns the number of peaks in the sample
func (s *Sample) Len() int { return s.n }

// PeakID returns the ID of the peak at position local
func (s *Sample) PeakID(local int) ID { return s.first + ID(local) }

// IDs returns the sample's peak IDs in sample order
func (s *Sample) IDs() []ID {
	ids := make([]ID, s.n)
	for i := range ids {
		ids[i] = s.first + ID(i)
	}
	return ids
}

// Store is the arena holding every peak of one alignment run.
type Store struct {
	factory Factory
	samples []*Sample
	byName  map[string]int
	peaks   []*Peak
}

// NewStore creates an empty store. A nil factory selects the dense representation.
func NewStore(factory Factory) *Store {
	if factory == nil {
		factory = NewFactory(false, DefaultBinWidth)
	}
	return &Store{
		factory: factory,
		byName:  make(map[string]int),
	}
}

// AddSample appends a sample and builds its peaks in descriptor order.
func (s *Store) AddSample(name string, descriptors []Descriptor) (*Sample, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptySampleName
	}
	if _, exists := s.byName[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSample, name)
	}

	sample := &Sample{
		Index: len(s.samples),
		Name:  name,
		first: ID(len(s.peaks)),
		n:     len(descriptors),
	}

	peaks := make([]*Peak, 0, len(descriptors))
	for i, d := range descriptors {
		p, err := s.factory.NewPeak(sample, i, d)
		if err != nil {
			return nil, fmt.Errorf("sample %q peak %d: %w", name, i, err)
		}
		peaks = append(peaks, p)
	}

	s.samples = append(s.samples, sample)
	s.byName[name] = sample.Index
	s.peaks = append(s.peaks, peaks...)
	return sample, nil
}

// Samples returns all samples in insertion order
func (s *Store) Samples() []*Sample { return s.samples }

// Sample returns the sample at index i
func (s *Store) Sample(i int) *Sample { return s.samples[i] }

// SampleByName looks up a sample by name
func (s *Store) SampleByName(name string) (*Sample, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.samples[i], true
}

// Peak returns the peak with the given ID
func (s *Store) Peak(id ID) *Peak { return s.peaks[id] }

// Peaks returns the peaks of sample in sample order
func (s *Store) Peaks(sample *Sample) []*Peak {
	return s.peaks[sample.first : int(sample.first)+sample.n]
}

// Len returns the total number of peaks
func (s *Store) Len() int { return len(s.peaks) }

// SampleCount returns the number of samples
func (s *Store) SampleCount() int { return len(s.samples) }

// PrepareEdges allocates, for every peak, one similarity slot per other sample.
// It must run before the pairwise dispatcher so that units only write into
// preallocated, disjoint slots.
func (s *Store) PrepareEdges() {
	k := len(s.samples)
	for _, p := range s.peaks {
		p.edges = make([]Edges, k)
		for j, other := range s.samples {
			if j != p.Sample {
				p.edges[j] = s.factory.NewEdges(other)
			}
		}
	}
}

// ReleaseEdges clears the similarity slots of every peak
func (s *Store) ReleaseEdges() {
	for _, p := range s.peaks {
		p.ClearEdges()
	}
}
