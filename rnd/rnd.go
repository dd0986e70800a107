/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package rnd supplies the random draws used by rule expressions.
//
// Each worker gets its own Source seeded from the master seed and its
// worker index, so runs are reproducible for a fixed seed and worker
// count regardless of scheduling.
package rnd

import (
	"math"
	"math/rand/v2"
)

// Source is a seeded stream of random draws.  It is not safe for
// concurrent use; give each worker its own.
type Source struct {
	r *rand.Rand
}

// New returns a source for the given seed.
func New(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewPCG(seed, seed<<32|0x9e3779b9))}
}

// NewWorker derives a worker's source from the master seed and the
// worker's index.
func NewWorker(master uint64, worker int) *Source {
	return New(master ^ uint64(worker)*0x9e3779b97f4a7c15)
}

// Uniform returns a draw from [0,1).
func (s *Source) Uniform() float64 {
	return s.r.Float64()
}

// Range returns a uniform draw from [lo,hi).
func (s *Source) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

// IntN returns a uniform draw from [0,n).
func (s *Source) IntN(n int) int {
	return s.r.IntN(n)
}

// Normal returns a draw from a normal distribution.
func (s *Source) Normal(mu, sigma float64) float64 {
	return mu + sigma*s.r.NormFloat64()
}

// LogNormal returns exp of a normal draw, so mu and sigma are the
// parameters of the underlying normal.
func (s *Source) LogNormal(mu, sigma float64) float64 {
	return math.Exp(s.Normal(mu, sigma))
}

// Exponential returns a draw from an exponential distribution with
// rate lambda.
func (s *Source) Exponential(lambda float64) float64 {
	return -math.Log(1.0-s.r.Float64()) / lambda
}

// Geometric returns the number of failures before the first success
// in Bernoulli trials with success probability p.
func (s *Source) Geometric(p float64) float64 {
	if p >= 1 {
		return 0
	}
	u := 1.0 - s.r.Float64()
	return math.Floor(math.Log(u) / math.Log(1.0-p))
}

// Binomial returns the number of successes in n trials with success
// probability p.
func (s *Source) Binomial(n int, p float64) float64 {
	k := 0
	for i := 0; i < n; i++ {
		if s.r.Float64() < p {
			k++
		}
	}
	return float64(k)
}

// NegBinomial returns the number of failures before the r-th success.
func (s *Source) NegBinomial(r int, p float64) float64 {
	var sum float64
	for i := 0; i < r; i++ {
		sum += s.Geometric(p)
	}
	return sum
}

// Poisson returns a draw from a Poisson distribution with the given
// mean.  Large means fall back to a rounded normal approximation.
func (s *Source) Poisson(mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	if mean > 30 {
		d := math.Round(s.Normal(mean, math.Sqrt(mean)))
		if d < 0 {
			d = 0
		}
		return d
	}
	l := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= s.r.Float64()
		if p <= l {
			return float64(k)
		}
		k++
	}
}

// DrawFromCDF returns the index of the first cdf entry that is at
// least a uniform draw.  The cdf must be nondecreasing with a final
// entry of 1.
func (s *Source) DrawFromCDF(cdf []float64) int {
	u := s.r.Float64()
	lo, hi := 0, len(cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cdf[mid] < u {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// SampleWithoutReplacement returns k distinct values drawn uniformly
// from [0,n).  It panics if k > n.
func (s *Source) SampleWithoutReplacement(n, k int) []int {
	if k > n {
		panic("rnd: sample larger than range")
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + s.r.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
		out[i] = pool[i]
	}
	return out
}
