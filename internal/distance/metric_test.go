package distance

import (
	"math"
	"testing"
)

func TestEuclideanDistance(t *testing.T) {
	m := Euclidean{}
	if got := m.Distance([]float64{0, 0}, []float64{3, 4}); got != 5 {
		t.Fatalf("expected distance 5, got %f", got)
	}
	if got := m.Distance([]float64{1, 2, 3}, []float64{1, 2, 3}); got != 0 {
		t.Fatalf("expected zero self-distance, got %f", got)
	}
	a := []float64{1, -2}
	b := []float64{4, 7}
	if m.Distance(a, b) != m.Distance(b, a) {
		t.Fatalf("expected symmetric distance")
	}
}

func TestManhattanDistance(t *testing.T) {
	m := Manhattan{}
	if got := m.Distance([]float64{0, 0}, []float64{3, 4}); got != 7 {
		t.Fatalf("expected distance 7, got %f", got)
	}
}

func TestCentroidIsComponentWiseMean(t *testing.T) {
	m := Euclidean{}
	centroid, err := m.Centroid([][]float64{
		{0, 0},
		{2, 4},
		{4, 2},
	})
	if err != nil {
		t.Fatalf("centroid: %v", err)
	}
	want := []float64{2, 2}
	for i := range want {
		if math.Abs(centroid[i]-want[i]) > 1e-12 {
			t.Fatalf("expected centroid %v, got %v", want, centroid)
		}
	}
}

func TestCentroidOfSingleRepresentationIsThatRepresentation(t *testing.T) {
	m := Euclidean{}
	centroid, err := m.Centroid([][]float64{{1.5, -2.5}})
	if err != nil {
		t.Fatalf("centroid: %v", err)
	}
	if centroid[0] != 1.5 || centroid[1] != -2.5 {
		t.Fatalf("expected the sole member back, got %v", centroid)
	}
}

func TestCentroidRejectsEmptySet(t *testing.T) {
	if _, err := (Euclidean{}).Centroid(nil); err == nil {
		t.Fatalf("expected error for empty set")
	}
}

func TestDistancePadsShorterRepresentation(t *testing.T) {
	m := Euclidean{}
	// {3} against {3, 4} reads as {3, 0} against {3, 4}.
	if got := m.Distance([]float64{3}, []float64{3, 4}); got != 4 {
		t.Fatalf("expected padded distance 4, got %f", got)
	}
	if m.Distance([]float64{3}, []float64{3, 4}) != m.Distance([]float64{3, 4}, []float64{3}) {
		t.Fatalf("expected padding to preserve symmetry")
	}
}

func TestCentroidPadsRaggedRepresentations(t *testing.T) {
	centroid, err := (Euclidean{}).Centroid([][]float64{{1, 2}, {1}})
	if err != nil {
		t.Fatalf("centroid: %v", err)
	}
	want := []float64{1, 1}
	for i := range want {
		if centroid[i] != want[i] {
			t.Fatalf("expected centroid %v, got %v", want, centroid)
		}
	}
}
