package nn

import (
	"fmt"
	"math"
	"sort"
)

// Activation maps a neuron's weighted input sum to its output value.
type Activation func(float64) float64

var activations = map[string]Activation{
	"identity": func(x float64) float64 { return x },
	"sigmoid":  func(x float64) float64 { return 1 / (1 + math.Exp(-x)) },
	"tanh":     math.Tanh,
	"relu": func(x float64) float64 {
		if x < 0 {
			return 0
		}
		return x
	},
}

// GetActivation resolves an activation function by name.
func GetActivation(name string) (Activation, error) {
	fn, ok := activations[name]
	if !ok {
		return nil, fmt.Errorf("unsupported activation: %s", name)
	}
	return fn, nil
}

// ActivationNames lists the registered activation names in sorted order.
func ActivationNames() []string {
	names := make([]string, 0, len(activations))
	for name := range activations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
