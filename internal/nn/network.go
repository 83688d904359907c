package nn

import "fmt"

// LayeredNetwork is a fixed-topology feedforward network whose weights come
// from a flat genome vector. Each non-input neuron has one weight per
// predecessor plus a bias weight; the same activation function is applied to
// every hidden and output neuron.
type LayeredNetwork struct {
	layerSizes []int
	weights    []float64
	values     [][]float64
	activate   Activation
}

// WeightCount returns the flat vector length a network with the given layer
// sizes requires.
func WeightCount(layerSizes []int) int {
	total := 0
	for l := 1; l < len(layerSizes); l++ {
		total += (layerSizes[l-1] + 1) * layerSizes[l]
	}
	return total
}

func NewLayeredNetwork(layerSizes []int, weights []float64, activationName string) (*LayeredNetwork, error) {
	if len(layerSizes) < 2 {
		return nil, fmt.Errorf("network requires at least input and output layers, got %d", len(layerSizes))
	}
	for i, size := range layerSizes {
		if size <= 0 {
			return nil, fmt.Errorf("layer %d has non-positive size %d", i, size)
		}
	}
	if want := WeightCount(layerSizes); len(weights) != want {
		return nil, fmt.Errorf("weight vector has length %d, want %d for layers %v", len(weights), want, layerSizes)
	}
	activate, err := GetActivation(activationName)
	if err != nil {
		return nil, err
	}

	values := make([][]float64, len(layerSizes))
	for i, size := range layerSizes {
		values[i] = make([]float64, size)
	}
	return &LayeredNetwork{
		layerSizes: layerSizes,
		weights:    append([]float64(nil), weights...),
		values:     values,
		activate:   activate,
	}, nil
}

func (n *LayeredNetwork) InputCount() int {
	return n.layerSizes[0]
}

func (n *LayeredNetwork) OutputCount() int {
	return n.layerSizes[len(n.layerSizes)-1]
}

// Inputs exposes the input buffer for the caller to write.
func (n *LayeredNetwork) Inputs() []float64 {
	return n.values[0]
}

// Outputs exposes the output layer's activations from the last Activate.
func (n *LayeredNetwork) Outputs() []float64 {
	return n.values[len(n.values)-1]
}

// Activate runs one forward pass from the current input buffer.
func (n *LayeredNetwork) Activate() {
	w := 0
	for l := 1; l < len(n.layerSizes); l++ {
		prev := n.values[l-1]
		for j := 0; j < n.layerSizes[l]; j++ {
			sum := 0.0
			for i := range prev {
				sum += prev[i] * n.weights[w]
				w++
			}
			sum += n.weights[w] // bias weight
			w++
			n.values[l][j] = n.activate(sum)
		}
	}
}

// ResetState zeroes every activation buffer, inputs included, so nothing
// leaks between independent trials.
func (n *LayeredNetwork) ResetState() {
	for _, layer := range n.values {
		for i := range layer {
			layer[i] = 0
		}
	}
}
