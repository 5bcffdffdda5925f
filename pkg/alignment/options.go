package alignment

import (
	"fmt"

	"github.com/dd0wney/cluso-bipace/pkg/validation"
)

// AllSamples as MinCliqueSize requires a member from every sample.
const AllSamples = -1

// Options configures one alignment run.
type Options struct {
	// MinCliqueSize is the minimum member count of a retained clique.
	// AllSamples (-1) means the number of samples.
	MinCliqueSize int

	// MinBBHFraction is reserved for partial-consensus acceptance. It is
	// validated and carried through but does not change clique compatibility.
	MinBBHFraction float64

	// UseSparsePeakRepresentation stores spectra and scores sparsely.
	// Alignment output is unaffected.
	UseSparsePeakRepresentation bool

	// BinWidth is the m/z bin width used to build spectra. Zero selects peak.DefaultBinWidth.
	BinWidth float64

	SavePeakSimilarities  bool
	SaveUnmatchedPeaks    bool
	SaveIncompatiblePeaks bool

	// Workers bounds dispatcher concurrency. Non-positive selects runtime.NumCPU().
	Workers int
}

// DefaultOptions returns the reference configuration
func DefaultOptions() Options {
	return Options{
		MinCliqueSize:         AllSamples,
		MinBBHFraction:        1.0,
		SaveUnmatchedPeaks:    true,
		SaveIncompatiblePeaks: true,
	}
}

// Validate checks option ranges. Every failure wraps ErrInvalidOptions.
func (o Options) Validate() error {
	cv := validation.NewConfigValidator("alignment").
		When(o.MinCliqueSize != AllSamples, func(cv *validation.ConfigValidator) {
			cv.MinInt("min_clique_size", o.MinCliqueSize, 1)
		}).
		RangeFloat("min_bbh_fraction", o.MinBBHFraction, 0, 1).
		When(o.BinWidth != 0, func(cv *validation.ConfigValidator) {
			cv.PositiveFloat("bin_width", o.BinWidth)
		})
	if cv.HasErrors() {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, cv.Validate())
	}
	return nil
}

// resolveMinCliqueSize maps AllSamples to the sample count and clamps larger
// values to it. clamped reports whether the configured value was lowered.
func (o Options) resolveMinCliqueSize(samples int) (size int, clamped bool) {
	switch {
	case o.MinCliqueSize == AllSamples:
		return samples, false
	case o.MinCliqueSize > samples:
		return samples, true
	default:
		return o.MinCliqueSize, false
	}
}
