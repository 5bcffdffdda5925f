// Package synthetic generates reproducible multi-sample peak lists with a
// known ground truth, for exercising the alignment without instrument data.
package synthetic

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/dd0wney/cluso-bipace/pkg/peak"
	"github.com/dd0wney/cluso-bipace/pkg/validation"
)

// ScansPerSecond converts retention time to a scan index
const ScansPerSecond = 10

// Noise marks a peak that belongs to no shared feature
const Noise = -1

const minMass = 50

// Config describes a synthetic experiment.
type Config struct {
	Samples         int     `yaml:"samples" validate:"min=2,max=256"`
	Features        int     `yaml:"features" validate:"min=0,max=100000"`
	NoisePeaks      int     `yaml:"noise_peaks" validate:"min=0,max=100000"`
	DropoutRate     float64 `yaml:"dropout_rate" validate:"gte=0,lte=1"`
	RTRange         float64 `yaml:"rt_range" validate:"gt=0"`
	RTJitter        float64 `yaml:"rt_jitter" validate:"gte=0"`
	MassRange       int     `yaml:"mass_range" validate:"min=60,max=5000"`
	IonsPerSpectrum int     `yaml:"ions_per_spectrum" validate:"min=1,max=500"`
	IntensityNoise  float64 `yaml:"intensity_noise" validate:"gte=0,lte=1"`
	Seed            uint64  `yaml:"seed"`
}

// DefaultConfig returns a small, well separated experiment
func DefaultConfig() Config {
	return Config{
		Samples:         4,
		Features:        50,
		NoisePeaks:      5,
		DropoutRate:     0.05,
		RTRange:         1800,
		RTJitter:        2,
		MassRange:       500,
		IonsPerSpectrum: 12,
		IntensityNoise:  0.1,
		Seed:            1,
	}
}

// Validate checks the configuration ranges
func (c Config) Validate() error {
	if err := validation.Struct(&c); err != nil {
		return err
	}
	// each ion takes a distinct nominal mass in minMass..MassRange
	return validation.NewConfigValidator("synthetic").
		RangeInt("ions_per_spectrum", c.IonsPerSpectrum, 1, c.MassRange-minMass+1).
		Validate()
}

// Sample is one generated sample. Truth[i] is the feature index of
// Peaks[i], or Noise.
type Sample struct {
	Name  string
	Peaks []peak.Descriptor
	Truth []int
}

type feature struct {
	rt          float64
	masses      []float64
	intensities []float64
}

// Generate builds cfg.Samples samples. The same config always yields the same output.
func Generate(cfg Config) ([]Sample, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	features := make([]feature, cfg.Features)
	for i := range features {
		features[i] = randomFeature(rng, cfg)
	}

	samples := make([]Sample, cfg.Samples)
	for s := range samples {
		var peaks []peak.Descriptor
		var truth []int

		for f, ft := range features {
			if rng.Float64() < cfg.DropoutRate {
				continue
			}
			rt := math.Max(0, ft.rt+rng.NormFloat64()*cfg.RTJitter)
			peaks = append(peaks, observe(rng, cfg, rt, ft))
			truth = append(truth, f)
		}
		for range cfg.NoisePeaks {
			ft := randomFeature(rng, cfg)
			peaks = append(peaks, observe(rng, cfg, ft.rt, ft))
			truth = append(truth, Noise)
		}

		order := make([]int, len(peaks))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return peaks[order[a]].RetentionTime < peaks[order[b]].RetentionTime
		})

		sample := Sample{
			Name:  fmt.Sprintf("sample-%02d", s+1),
			Peaks: make([]peak.Descriptor, len(peaks)),
			Truth: make([]int, len(peaks)),
		}
		for i, j := range order {
			sample.Peaks[i] = peaks[j]
			sample.Truth[i] = truth[j]
		}
		samples[s] = sample
	}
	return samples, nil
}

func randomFeature(rng *rand.Rand, cfg Config) feature {
	ft := feature{
		rt:          rng.Float64() * cfg.RTRange,
		masses:      make([]float64, 0, cfg.IonsPerSpectrum),
		intensities: make([]float64, 0, cfg.IonsPerSpectrum),
	}
	span := cfg.MassRange - minMass + 1
	seen := make(map[int]bool, cfg.IonsPerSpectrum)
	for len(ft.masses) < cfg.IonsPerSpectrum {
		m := minMass + rng.IntN(span)
		if seen[m] {
			continue
		}
		seen[m] = true
		ft.masses = append(ft.masses, float64(m))
		ft.intensities = append(ft.intensities, 10+rng.Float64()*990)
	}
	return ft
}

// observe renders one measured instance of ft at retention time rt
func observe(rng *rand.Rand, cfg Config, rt float64, ft feature) peak.Descriptor {
	d := peak.Descriptor{
		ScanIndex:     int(rt * ScansPerSecond),
		RetentionTime: rt,
		MassValues:    make([]float64, len(ft.masses)),
		Intensities:   make([]float64, len(ft.intensities)),
	}
	var total float64
	for i, m := range ft.masses {
		// Centroid error stays well inside one nominal mass bin
		d.MassValues[i] = m + (rng.Float64()-0.5)*0.2
		v := math.Abs(ft.intensities[i] * (1 + cfg.IntensityNoise*rng.NormFloat64()))
		d.Intensities[i] = v
		d.Intensity = math.Max(d.Intensity, v)
		total += v
	}
	d.Area = total * (1 + rng.Float64())
	return d
}
