package scape

import (
	"context"
	"fmt"

	"github.com/filipGG/sharpneat-refactor/internal/model"
	"github.com/filipGG/sharpneat-refactor/internal/nn"
)

// XORScape scores a box on the four XOR truth-table cases using the same
// bias-plus-bits protocol and squared-error accumulation as the multiplexer
// scapes. Success bonus is 10.
type XORScape struct {
	bonus float64
}

func NewXORScape() *XORScape {
	return &XORScape{bonus: 10}
}

func (s *XORScape) Name() string {
	return "xor"
}

func (s *XORScape) InputCount() int {
	return 3
}

func (s *XORScape) OutputCount() int {
	return 1
}

func (s *XORScape) Evaluate(ctx context.Context, box nn.BlackBox) (model.FitnessInfo, error) {
	if err := checkBoxShape(box, s.InputCount(), 1); err != nil {
		return model.FitnessInfo{}, fmt.Errorf("xor: %w", err)
	}

	fitness := 0.0
	success := true
	for i := 0; i < 4; i++ {
		if err := ctx.Err(); err != nil {
			return model.FitnessInfo{}, err
		}
		output, err := s.runCase(box, i)
		if err != nil {
			return model.FitnessInfo{}, err
		}

		correct := i == 1 || i == 2
		if correct {
			fitness += 1.0 - (1.0-output)*(1.0-output)
		} else {
			fitness += 1.0 - output*output
		}
		if (output > 0.5) != correct {
			success = false
		}
	}
	if success {
		fitness += s.bonus
	}
	return model.FitnessInfo{Primary: fitness}, nil
}

func (s *XORScape) runCase(box nn.BlackBox, caseIndex int) (float64, error) {
	defer box.ResetState()

	inputs := box.Inputs()
	inputs[0] = 1.0
	inputs[1] = float64(caseIndex & 1)
	inputs[2] = float64((caseIndex >> 1) & 1)
	box.Activate()

	output := box.Outputs()[0]
	if output < 0 {
		return 0, fmt.Errorf("xor: case %d produced negative output %v, phenotype activation contract violated", caseIndex, output)
	}
	return output, nil
}

func (s *XORScape) TestForStopCondition(fitness model.FitnessInfo) bool {
	return fitness.Primary >= s.bonus
}
