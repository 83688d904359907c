// Package scape holds the task environments genomes are scored against.
// Every scape runs a fixed deterministic trial protocol over a black box, so
// the same box always earns the same fitness.
package scape

import (
	"context"
	"fmt"

	"github.com/filipGG/sharpneat-refactor/internal/model"
	"github.com/filipGG/sharpneat-refactor/internal/nn"
)

// PhenomeEvaluator scores one decoded phenotype. Evaluate returns an error
// only for contract violations (for example a negative output); those abort
// the generation rather than being folded into a score.
type PhenomeEvaluator interface {
	Name() string
	InputCount() int
	OutputCount() int
	Evaluate(ctx context.Context, box nn.BlackBox) (model.FitnessInfo, error)
	TestForStopCondition(fitness model.FitnessInfo) bool
}

// ForName resolves a registered evaluator by name.
func ForName(name string) (PhenomeEvaluator, error) {
	switch name {
	case "binary-3-multiplexer":
		return NewBinaryThreeMultiplexer(), nil
	case "binary-6-multiplexer":
		return NewBinarySixMultiplexer(), nil
	case "xor":
		return NewXORScape(), nil
	default:
		return nil, fmt.Errorf("unknown scape: %s", name)
	}
}

// checkBoxShape verifies the configured vector lengths once per evaluation.
// A mismatch is a configuration error, not a per-case score.
func checkBoxShape(box nn.BlackBox, inputCount, outputCount int) error {
	if got := box.InputCount(); got < inputCount {
		return fmt.Errorf("box has %d inputs, need %d", got, inputCount)
	}
	if got := box.OutputCount(); got < outputCount {
		return fmt.Errorf("box has %d outputs, need %d", got, outputCount)
	}
	return nil
}
