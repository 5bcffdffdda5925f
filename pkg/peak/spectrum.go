package peak

import (
	"fmt"
	"math"
	"sort"
)

// Spectrum is a binned mass spectrum attached to a peak.
// Bins are nominal mass indices; values are summed intensities.
type Spectrum interface {
	// Len returns the number of non-zero bins
	Len() int
	// At returns the intensity stored in bin, or 0
	At(bin int) float64
	// Each calls fn for every non-zero bin in ascending bin order
	Each(fn func(bin int, value float64))
	// Norm returns the L2 norm of the spectrum
	Norm() float64
}

// MaxDenseSpan is the widest bin range a DenseSpectrum allocates. Wider spectra
// are stored sparsely by the dense factory.
const MaxDenseSpan = 1 << 16

// DenseSpectrum stores every bin between the lowest and highest populated bin.
type DenseSpectrum struct {
	offset  int
	values  []float32
	nonZero int
	norm    float64
}

// At returns the intensity in bin
func (s *DenseSpectrum) At(bin int) float64 {
	i := bin - s.offset
	if i < 0 || i >= len(s.values) {
		return 0
	}
	return float64(s.values[i])
}

// Each iterates non-zero bins
func (s *DenseSpectrum) Each(fn func(bin int, value float64)) {
	for i, v := range s.values {
		if v != 0 {
			fn(s.offset+i, float64(v))
		}
	}
}

// Len returns the number of non-zero bins
func (s *DenseSpectrum) Len() int { return s.nonZero }

// Norm returns the L2 norm
func (s *DenseSpectrum) Norm() float64 { return s.norm }

// SparseSpectrum stores only populated bins as parallel sorted arrays.
type SparseSpectrum struct {
	bins   []int32
	values []float32
	norm   float64
}

// At returns the intensity in bin using binary search
func (s *SparseSpectrum) At(bin int) float64 {
	i := sort.Search(len(s.bins), func(i int) bool { return int(s.bins[i]) >= bin })
	if i < len(s.bins) && int(s.bins[i]) == bin {
		return float64(s.values[i])
	}
	return 0
}

// Each iterates non-zero bins
func (s *SparseSpectrum) Each(fn func(bin int, value float64)) {
	for i, b := range s.bins {
		fn(int(b), float64(s.values[i]))
	}
}

// Len returns the number of non-zero bins
func (s *SparseSpectrum) Len() int { return len(s.bins) }

// Norm returns the L2 norm
func (s *SparseSpectrum) Norm() float64 { return s.norm }

// binSpectrum validates raw (m/z, intensity) arrays and sums intensities per nominal bin.
// The returned bins are sorted ascending and contain no zero values.
func binSpectrum(mz, intensity []float64, binWidth float64) ([]int, []float64, error) {
	if binWidth <= 0 || math.IsNaN(binWidth) || math.IsInf(binWidth, 0) {
		return nil, nil, ErrInvalidBinWidth
	}
	if len(mz) != len(intensity) {
		return nil, nil, ErrSpectrumShape
	}

	sums := make(map[int]float64, len(mz))
	for i, m := range mz {
		if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, nil, ErrInvalidMass
		}
		v := intensity[i]
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, ErrInvalidIntensity
		}
		if v == 0 {
			continue
		}
		bin := math.Floor(m/binWidth + 0.5)
		if bin > math.MaxInt32 {
			return nil, nil, fmt.Errorf("%w: m/z %g at bin width %g", ErrBinOutOfRange, m, binWidth)
		}
		sums[int(bin)] += v
	}

	bins := make([]int, 0, len(sums))
	for b := range sums {
		bins = append(bins, b)
	}
	sort.Ints(bins)

	values := make([]float64, len(bins))
	for i, b := range bins {
		values[i] = sums[b]
	}
	return bins, values, nil
}

// l2 computes the norm over the float32-rounded values that the spectra actually store.
func l2(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		f := float64(float32(v))
		sum += f * f
	}
	return math.Sqrt(sum)
}

// binSpan returns the number of bins between the lowest and highest populated bin
func binSpan(bins []int) int {
	if len(bins) == 0 {
		return 0
	}
	return bins[len(bins)-1] - bins[0] + 1
}

func newDenseSpectrum(bins []int, values []float64) *DenseSpectrum {
	s := &DenseSpectrum{nonZero: len(bins), norm: l2(values)}
	if len(bins) == 0 {
		return s
	}
	s.offset = bins[0]
	s.values = make([]float32, bins[len(bins)-1]-bins[0]+1)
	for i, b := range bins {
		s.values[b-s.offset] = float32(values[i])
	}
	return s
}

func newSparseSpectrum(bins []int, values []float64) *SparseSpectrum {
	s := &SparseSpectrum{
		bins:   make([]int32, len(bins)),
		values: make([]float32, len(values)),
		norm:   l2(values),
	}
	for i, b := range bins {
		s.bins[i] = int32(b)
		s.values[i] = float32(values[i])
	}
	return s
}
