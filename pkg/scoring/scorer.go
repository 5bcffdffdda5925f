package scoring

import (
	"fmt"
	"math"

	"github.com/dd0wney/cluso-bipace/pkg/peak"
)

// ErrUnknownMetric is returned for an unrecognised metric name
var ErrUnknownMetric = fmt.Errorf("unknown similarity metric")

// Scorer computes the similarity of two peaks from different samples.
// Implementations must be commutative and return finite values; the
// alignment treats a non-finite score as a fatal contract violation.
type Scorer interface {
	Score(a, b *peak.Peak) float64
}

// Func adapts a plain function to the Scorer interface
type Func func(a, b *peak.Peak) float64

// Score calls f
func (f Func) Score(a, b *peak.Peak) float64 { return f(a, b) }

// Metric names a built-in scorer
type Metric string

const (
	MetricCosine        Metric = "cosine"
	MetricDotProduct    Metric = "dot_product"
	MetricRetentionTime Metric = "retention_time"
	MetricCosineRT      Metric = "cosine_rt" // cosine weighted by the retention time penalty
)

// Finite reports whether score is usable by the alignment
func Finite(score float64) bool {
	return !math.IsNaN(score) && !math.IsInf(score, 0)
}

// New builds the scorer for metric. sigma is the retention time tolerance
// used by the retention-time based metrics.
func New(metric Metric, sigma float64) (Scorer, error) {
	switch metric {
	case MetricCosine, "":
		return Cosine{}, nil
	case MetricDotProduct:
		return DotProduct{}, nil
	case MetricRetentionTime:
		return RetentionTimeGaussian{Sigma: sigma}, nil
	case MetricCosineRT:
		return Product{Cosine{}, RetentionTimeGaussian{Sigma: sigma}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
}

// Product multiplies the scores of its members
type Product []Scorer

// Score returns the product of all member scores
func (p Product) Score(a, b *peak.Peak) float64 {
	score := 1.0
	for _, s := range p {
		score *= s.Score(a, b)
	}
	return score
}
