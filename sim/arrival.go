package sim

import "math/rand"

// ArrivalSampler generates inter-arrival times for a node.
type ArrivalSampler interface {
	// SampleIAT returns the next inter-arrival time in seconds.
	SampleIAT(rng *rand.Rand) float64
}

// PoissonSampler generates exponentially-distributed inter-arrival times.
// A zero rate yields +Inf, which ends generation before the first packet.
type PoissonSampler struct {
	rate float64 // packets per second
}

// NewPoissonSampler creates a sampler for the given mean rate.
func NewPoissonSampler(rate float64) *PoissonSampler {
	return &PoissonSampler{rate: rate}
}

func (s *PoissonSampler) SampleIAT(rng *rand.Rand) float64 {
	return rng.ExpFloat64() / s.rate
}

// GenerateArrivals returns the sorted arrival timestamps of every packet a
// node produces in (0, horizon].
func GenerateArrivals(sampler ArrivalSampler, horizon float64, rng *rand.Rand) []float64 {
	arrivals := make([]float64, 0)
	t := 0.0
	for {
		t += sampler.SampleIAT(rng)
		if t > horizon {
			break
		}
		arrivals = append(arrivals, t)
	}
	return arrivals
}
