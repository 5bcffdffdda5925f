package scoring

import (
	"math"

	"github.com/dd0wney/cluso-bipace/pkg/peak"
)

// DefaultRetentionTimeSigma is the retention time tolerance in seconds
const DefaultRetentionTimeSigma = 5.0

// RetentionTimeGaussian scores peaks by a Gaussian penalty on their retention time difference.
// Formula: exp(-(rt_a - rt_b)^2 / (2 * sigma^2))
type RetentionTimeGaussian struct {
	Sigma float64
}

// Score returns a value in (0, 1]; 1 for identical retention times
func (g RetentionTimeGaussian) Score(a, b *peak.Peak) float64 {
	sigma := g.Sigma
	if sigma <= 0 {
		sigma = DefaultRetentionTimeSigma
	}
	d := a.RetentionTime - b.RetentionTime
	return math.Exp(-(d * d) / (2 * sigma * sigma))
}
