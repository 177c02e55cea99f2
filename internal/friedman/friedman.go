// Package friedman provides the synthetic regression target used by the demo
// service. The reference value is the Friedman #1 benchmark function scaled
// by 5, which only depends on the first five features; the remaining inputs
// are noise dimensions. The package also provides the random sampling used to
// generate feature vectors and observation noise.
package friedman

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const (
	// FeatureCount is the input dimensionality the model was exported with.
	FeatureCount = 20

	// NoiseScale scales the Gaussian noise added to the reference value.
	NoiseScale = 0.1
)

// Value computes the scaled Friedman #1 reference value (pre-noise) from the
// first five components of x. It panics if len(x) < 5; callers sample vectors
// of FeatureCount entries.
func Value(x []float64) float64 {
	v := 2*math.Sin(math.Pi*x[0]*x[1]) + (2*x[2]-1)*(2*x[2]-1) + 2*x[3] + x[4]
	return 5 * v
}

// Sampler draws uniform feature vectors and Gaussian observation noise.
// It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a Sampler seeded from the wall clock.
func NewSampler() *Sampler {
	return NewSeededSampler(time.Now().UnixNano())
}

// NewSeededSampler returns a Sampler with a fixed seed for reproducible draws.
func NewSeededSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Vector draws n values uniformly from [0,1).
func (s *Sampler) Vector(n int) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	x := make([]float64, n)
	for i := range x {
		x[i] = s.rng.Float64()
	}
	return x
}

// Matrix draws rows independent vectors of cols uniform values each.
func (s *Sampler) Matrix(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = s.Vector(cols)
	}
	return out
}

// Noise draws one observation-noise value, NoiseScale * N(0,1).
func (s *Sampler) Noise() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NoiseScale * s.rng.NormFloat64()
}
