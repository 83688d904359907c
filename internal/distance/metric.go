// Package distance provides the dissimilarity metrics speciation is built
// on. A metric must be non-negative and return zero for identical
// representations; symmetry is expected but the speciation code only ever
// measures from a centroid outward.
//
// Representations of unequal length are compared as if the shorter were
// zero-padded, so a malformed genome still gets a finite distance and flows
// through speciation instead of crashing it.
package distance

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Metric computes a scalar dissimilarity between two genome representations
// and a centroid representation for a set of them.
type Metric interface {
	Name() string
	Distance(a, b []float64) float64
	Centroid(representations [][]float64) ([]float64, error)
}

// Euclidean is the L2 metric. Its centroid is the component-wise mean, which
// minimizes the summed squared distance to the set.
type Euclidean struct{}

func (Euclidean) Name() string {
	return "euclidean"
}

func (Euclidean) Distance(a, b []float64) float64 {
	return paddedDistance(a, b, 2)
}

func (Euclidean) Centroid(representations [][]float64) ([]float64, error) {
	return meanCentroid(representations)
}

// Manhattan is the L1 metric. The component-wise mean is kept as its
// centroid as well; the exact L1 medoid is not worth the cost for species
// bookkeeping.
type Manhattan struct{}

func (Manhattan) Name() string {
	return "manhattan"
}

func (Manhattan) Distance(a, b []float64) float64 {
	return paddedDistance(a, b, 1)
}

func (Manhattan) Centroid(representations [][]float64) ([]float64, error) {
	return meanCentroid(representations)
}

func paddedDistance(a, b []float64, norm float64) float64 {
	if len(a) == len(b) {
		return floats.Distance(a, b, norm)
	}
	if len(a) < len(b) {
		a, b = b, a
	}
	padded := make([]float64, len(a))
	copy(padded, b)
	return floats.Distance(a, padded, norm)
}

func meanCentroid(representations [][]float64) ([]float64, error) {
	if len(representations) == 0 {
		return nil, fmt.Errorf("centroid requires at least one representation")
	}
	width := 0
	for _, rep := range representations {
		if len(rep) > width {
			width = len(rep)
		}
	}
	centroid := make([]float64, width)
	padded := make([]float64, width)
	for _, rep := range representations {
		if len(rep) == width {
			floats.Add(centroid, rep)
			continue
		}
		for i := range padded {
			padded[i] = 0
		}
		copy(padded, rep)
		floats.Add(centroid, padded)
	}
	floats.Scale(1/float64(len(representations)), centroid)
	return centroid, nil
}
