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

package rnd

import (
	"math"
	"testing"
)

func TestReproducible(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if a.Uniform() != b.Uniform() {
			t.Fatal("same seed diverged")
		}
	}
	c := New(43)
	same := true
	for i := 0; i < 10; i++ {
		if New(42).Uniform() != c.Uniform() {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds agree")
	}
}

func TestWorkersIndependent(t *testing.T) {
	a := NewWorker(7, 0)
	b := NewWorker(7, 1)
	if a.Uniform() == b.Uniform() {
		t.Fatal("worker streams coincide")
	}
}

func TestRange(t *testing.T) {
	s := New(1)
	for i := 0; i < 1000; i++ {
		v := s.Range(2, 5)
		if v < 2 || v >= 5 {
			t.Fatal(v)
		}
	}
}

func TestExponentialMean(t *testing.T) {
	s := New(1)
	var sum float64
	n := 20000
	for i := 0; i < n; i++ {
		sum += s.Exponential(2.0)
	}
	mean := sum / float64(n)
	if math.Abs(mean-0.5) > 0.02 {
		t.Fatal(mean)
	}
}

func TestPoissonMean(t *testing.T) {
	s := New(1)
	for _, lambda := range []float64{3.0, 100.0} {
		var sum float64
		n := 20000
		for i := 0; i < n; i++ {
			sum += s.Poisson(lambda)
		}
		mean := sum / float64(n)
		if math.Abs(mean-lambda)/lambda > 0.05 {
			t.Fatal(lambda, mean)
		}
	}
	if s.Poisson(0) != 0 {
		t.Fatal("zero mean")
	}
}

func TestBinomialBounds(t *testing.T) {
	s := New(1)
	for i := 0; i < 100; i++ {
		v := s.Binomial(10, 0.5)
		if v < 0 || v > 10 {
			t.Fatal(v)
		}
	}
}

func TestGeometricEdge(t *testing.T) {
	s := New(1)
	if v := s.Geometric(1.0); v != 0 {
		t.Fatal(v)
	}
	for i := 0; i < 100; i++ {
		if v := s.Geometric(0.5); v < 0 {
			t.Fatal(v)
		}
	}
}

func TestDrawFromCDF(t *testing.T) {
	s := New(1)
	cdf := []float64{0.1, 0.4, 1.0}
	counts := make([]int, 3)
	n := 30000
	for i := 0; i < n; i++ {
		counts[s.DrawFromCDF(cdf)]++
	}
	want := []float64{0.1, 0.3, 0.6}
	for i, c := range counts {
		got := float64(c) / float64(n)
		if math.Abs(got-want[i]) > 0.02 {
			t.Fatal(i, got)
		}
	}
}

func TestDrawFromCDFDegenerate(t *testing.T) {
	s := New(1)
	if i := s.DrawFromCDF([]float64{1.0}); i != 0 {
		t.Fatal(i)
	}
}

func TestSampleWithoutReplacement(t *testing.T) {
	s := New(1)
	got := s.SampleWithoutReplacement(10, 10)
	seen := map[int]bool{}
	for _, v := range got {
		if v < 0 || v >= 10 || seen[v] {
			t.Fatal(got)
		}
		seen[v] = true
	}
	if len(s.SampleWithoutReplacement(100, 5)) != 5 {
		t.Fatal("wrong size")
	}
}
