package peak

import "github.com/google/uuid"

// DefaultBinWidth bins masses to nominal (unit) resolution
const DefaultBinWidth = 1.0

// Factory builds peaks and their similarity storage for one representation.
type Factory interface {
	// NewPeak builds the peak at position local of sample
	NewPeak(sample *Sample, local int, d Descriptor) (*Peak, error)
	// NewEdges allocates a similarity slot against the peaks of partner
	NewEdges(partner *Sample) Edges
}

// DenseFactory stores spectra as contiguous bin ranges and keeps every pairwise score.
type DenseFactory struct {
	BinWidth float64
}

// SparseFactory stores only populated bins and non-zero scores.
type SparseFactory struct {
	BinWidth float64
}

// NewFactory selects the dense or sparse representation
func NewFactory(sparse bool, binWidth float64) Factory {
	if binWidth == 0 {
		binWidth = DefaultBinWidth
	}
	if sparse {
		return &SparseFactory{BinWidth: binWidth}
	}
	return &DenseFactory{BinWidth: binWidth}
}

// NewPeak builds a peak with a dense spectrum. Spectra spanning more than
// MaxDenseSpan bins are stored sparsely.
func (f *DenseFactory) NewPeak(sample *Sample, local int, d Descriptor) (*Peak, error) {
	p := newPeak(sample, local, d)
	if d.MassValues == nil && d.Intensities == nil {
		return p, nil
	}
	bins, values, err := binSpectrum(d.MassValues, d.Intensities, f.BinWidth)
	if err != nil {
		return nil, err
	}
	if binSpan(bins) > MaxDenseSpan {
		p.Spectrum = newSparseSpectrum(bins, values)
		return p, nil
	}
	p.Spectrum = newDenseSpectrum(bins, values)
	return p, nil
}

// NewEdges allocates a dense score slot
func (f *DenseFactory) NewEdges(partner *Sample) Edges {
	return newDenseEdges(partner)
}

// NewPeak builds a peak with a sparse spectrum
func (f *SparseFactory) NewPeak(sample *Sample, local int, d Descriptor) (*Peak, error) {
	p := newPeak(sample, local, d)
	if d.MassValues == nil && d.Intensities == nil {
		return p, nil
	}
	bins, values, err := binSpectrum(d.MassValues, d.Intensities, f.BinWidth)
	if err != nil {
		return nil, err
	}
	p.Spectrum = newSparseSpectrum(bins, values)
	return p, nil
}

// NewEdges allocates a sparse score slot
func (f *SparseFactory) NewEdges(partner *Sample) Edges {
	return newSparseEdges(partner)
}

func newPeak(sample *Sample, local int, d Descriptor) *Peak {
	uid := d.UID
	if uid == uuid.Nil {
		uid = DeriveUID(sample.Name, d.ScanIndex, local)
	}
	return &Peak{
		ID:            sample.first + ID(local),
		UID:           uid,
		Sample:        sample.Index,
		SampleName:    sample.Name,
		Local:         local,
		ScanIndex:     d.ScanIndex,
		RetentionTime: d.RetentionTime,
		Intensity:     d.Intensity,
		Area:          d.Area,
	}
}
