package scape

import (
	"context"
	"fmt"

	"github.com/filipGG/sharpneat-refactor/internal/model"
	"github.com/filipGG/sharpneat-refactor/internal/nn"
)

// BinaryMultiplexerScape evaluates a box against every input combination of
// a binary multiplexer. The select bits come first in the case index,
// followed by the data bits; the addressed data bit is the correct answer.
//
// Input layout: slot 0 is a constant 1.0 bias, slot j+1 carries bit j of the
// case index. One scalar output; a value above 0.5 reads as a true response.
type BinaryMultiplexerScape struct {
	name       string
	selectBits int
	totalBits  int
	bonus      float64
}

// NewBinaryThreeMultiplexer builds the 3-multiplexer benchmark: one select
// bit, two data bits, 8 cases, success bonus 100.
func NewBinaryThreeMultiplexer() *BinaryMultiplexerScape {
	return newBinaryMultiplexer("binary-3-multiplexer", 1, 100)
}

// NewBinarySixMultiplexer builds the 6-multiplexer benchmark: two select
// bits, four data bits, 64 cases, success bonus 1000.
func NewBinarySixMultiplexer() *BinaryMultiplexerScape {
	return newBinaryMultiplexer("binary-6-multiplexer", 2, 1000)
}

func newBinaryMultiplexer(name string, selectBits int, bonus float64) *BinaryMultiplexerScape {
	return &BinaryMultiplexerScape{
		name:       name,
		selectBits: selectBits,
		totalBits:  selectBits + (1 << selectBits),
		bonus:      bonus,
	}
}

func (s *BinaryMultiplexerScape) Name() string {
	return s.name
}

func (s *BinaryMultiplexerScape) InputCount() int {
	return s.totalBits + 1
}

func (s *BinaryMultiplexerScape) OutputCount() int {
	return 1
}

// CaseCount is the number of distinct input combinations the protocol runs.
func (s *BinaryMultiplexerScape) CaseCount() int {
	return 1 << s.totalBits
}

// CorrectAnswer returns the addressed data bit for a case index.
func (s *BinaryMultiplexerScape) CorrectAnswer(caseIndex int) bool {
	selector := caseIndex & ((1 << s.selectBits) - 1)
	return (caseIndex>>(s.selectBits+selector))&1 == 1
}

// Evaluate runs all cases, accumulating a squared-error score per case plus
// the success bonus when every boolean response is correct. Squared error is
// deliberate: it gives the search a smoother gradient than binary
// correctness.
func (s *BinaryMultiplexerScape) Evaluate(ctx context.Context, box nn.BlackBox) (model.FitnessInfo, error) {
	if err := checkBoxShape(box, s.InputCount(), 1); err != nil {
		return model.FitnessInfo{}, fmt.Errorf("%s: %w", s.name, err)
	}

	fitness := 0.0
	success := true
	for i := 0; i < s.CaseCount(); i++ {
		if err := ctx.Err(); err != nil {
			return model.FitnessInfo{}, err
		}
		output, err := s.runCase(box, i)
		if err != nil {
			return model.FitnessInfo{}, err
		}

		correct := s.CorrectAnswer(i)
		if correct {
			fitness += 1.0 - (1.0-output)*(1.0-output)
		} else {
			fitness += 1.0 - output*output
		}
		// Strictly greater: an output of exactly 0.5 is a false response.
		if (output > 0.5) != correct {
			success = false
		}
	}
	if success {
		fitness += s.bonus
	}
	return model.FitnessInfo{Primary: fitness}, nil
}

// runCase drives one activation and guarantees the box state is reset on
// every exit path, so nothing leaks into the next case.
func (s *BinaryMultiplexerScape) runCase(box nn.BlackBox, caseIndex int) (float64, error) {
	defer box.ResetState()

	inputs := box.Inputs()
	inputs[0] = 1.0
	for j := 0; j < s.totalBits; j++ {
		inputs[j+1] = float64((caseIndex >> j) & 1)
	}
	box.Activate()

	output := box.Outputs()[0]
	if output < 0 {
		return 0, fmt.Errorf("%s: case %d produced negative output %v, phenotype activation contract violated", s.name, caseIndex, output)
	}
	return output, nil
}

// TestForStopCondition reports whether the fitness can only have been earned
// by a fully correct phenotype.
func (s *BinaryMultiplexerScape) TestForStopCondition(fitness model.FitnessInfo) bool {
	return fitness.Primary >= s.bonus
}
