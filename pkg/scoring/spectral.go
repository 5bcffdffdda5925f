package scoring

import (
	"math"

	"github.com/dd0wney/cluso-bipace/pkg/peak"
)

// Dot calculates the dot product of two binned spectra.
// Iterates the spectrum with fewer populated bins.
func Dot(a, b peak.Spectrum) float64 {
	if a == nil || b == nil {
		return 0
	}
	if a.Len() > b.Len() {
		a, b = b, a
	}
	sum := 0.0
	a.Each(func(bin int, value float64) {
		sum += value * b.At(bin)
	})
	return sum
}

// CosineSimilarity calculates the cosine similarity between two spectra
// Returns 0 when either spectrum is empty or missing
// Formula: (a · b) / (||a|| * ||b||)
func CosineSimilarity(a, b peak.Spectrum) float64 {
	if a == nil || b == nil {
		return 0
	}
	normA, normB := a.Norm(), b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := Dot(a, b) / (normA * normB)
	// rounding can push identical spectra marginally above 1
	return math.Min(sim, 1)
}

// Cosine scores peaks by the cosine similarity of their mass spectra
type Cosine struct{}

// Score returns the spectral cosine similarity
func (Cosine) Score(a, b *peak.Peak) float64 {
	return CosineSimilarity(a.Spectrum, b.Spectrum)
}

// DotProduct scores peaks by the raw dot product of their spectra
type DotProduct struct{}

// Score returns the spectral dot product
func (DotProduct) Score(a, b *peak.Peak) float64 {
	return Dot(a.Spectrum, b.Spectrum)
}
