package evo

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/filipGG/sharpneat-refactor/internal/model"
	"github.com/filipGG/sharpneat-refactor/internal/nn"
)

// valueBox exposes a single fixed output; enough to drive the list
// evaluator without a real network.
type valueBox struct {
	value   float64
	inputs  []float64
	outputs []float64
}

func newValueBox(value float64) *valueBox {
	return &valueBox{value: value, inputs: make([]float64, 1), outputs: make([]float64, 1)}
}

func (b *valueBox) InputCount() int    { return 1 }
func (b *valueBox) OutputCount() int   { return 1 }
func (b *valueBox) Inputs() []float64  { return b.inputs }
func (b *valueBox) Outputs() []float64 { return b.outputs }
func (b *valueBox) Activate()          { b.outputs[0] = b.value }
func (b *valueBox) ResetState()        { b.outputs[0] = 0 }

// stubDecoder fails for designated genome IDs and otherwise produces a box
// echoing the genome's first weight.
type stubDecoder struct {
	failIDs map[int]bool
}

func (d stubDecoder) Decode(genome *model.Genome) (nn.BlackBox, error) {
	if d.failIDs[genome.ID] {
		return nil, fmt.Errorf("decode genome %d: malformed representation", genome.ID)
	}
	return newValueBox(genome.Representation[0]), nil
}

// stubScape scores a box by its raw output and can be armed to fail.
type stubScape struct {
	evalErr error
}

func (stubScape) Name() string     { return "stub" }
func (stubScape) InputCount() int  { return 1 }
func (stubScape) OutputCount() int { return 1 }

func (s stubScape) Evaluate(_ context.Context, box nn.BlackBox) (model.FitnessInfo, error) {
	if s.evalErr != nil {
		return model.FitnessInfo{}, s.evalErr
	}
	box.Activate()
	fitness := model.FitnessInfo{Primary: box.Outputs()[0]}
	box.ResetState()
	return fitness, nil
}

func (stubScape) TestForStopCondition(fitness model.FitnessInfo) bool {
	return fitness.Primary >= 100
}

func TestEvaluateAllAssignsFitness(t *testing.T) {
	genomes := []*model.Genome{
		newGenome(1, 5),
		newGenome(2, 7),
		newGenome(3, 2),
	}
	evaluator := &ListEvaluator{Decoder: stubDecoder{}, Evaluator: stubScape{}, Workers: 2}

	if err := evaluator.EvaluateAll(context.Background(), genomes); err != nil {
		t.Fatalf("evaluate all: %v", err)
	}
	for _, genome := range genomes {
		if genome.Fitness.Primary != genome.Representation[0] {
			t.Fatalf("genome %d: expected fitness %v, got %v", genome.ID, genome.Representation[0], genome.Fitness.Primary)
		}
	}
}

func TestEvaluateAllAbsorbsDecodeFailure(t *testing.T) {
	genomes := []*model.Genome{
		newGenome(1, 5),
		newGenome(2, 7),
	}
	genomes[1].Fitness = model.FitnessInfo{Primary: 99} // stale score must be replaced

	evaluator := &ListEvaluator{
		Decoder:   stubDecoder{failIDs: map[int]bool{2: true}},
		Evaluator: stubScape{},
		Workers:   2,
	}
	if err := evaluator.EvaluateAll(context.Background(), genomes); err != nil {
		t.Fatalf("decode failure must not abort the pass: %v", err)
	}

	if genomes[0].Fitness.Primary != 5 {
		t.Fatalf("expected healthy genome scored, got %v", genomes[0].Fitness)
	}
	if !reflect.DeepEqual(genomes[1].Fitness, model.NullFitnessInfo) {
		t.Fatalf("expected null fitness for undecodable genome, got %v", genomes[1].Fitness)
	}
}

func TestEvaluateAllPropagatesEvaluatorError(t *testing.T) {
	genomes := []*model.Genome{newGenome(1, 5)}
	evaluator := &ListEvaluator{
		Decoder:   stubDecoder{},
		Evaluator: stubScape{evalErr: fmt.Errorf("negative output")},
		Workers:   1,
	}
	if err := evaluator.EvaluateAll(context.Background(), genomes); err == nil {
		t.Fatalf("expected evaluator error to abort the pass")
	}
}

func TestEvaluateAllHonorsCancellation(t *testing.T) {
	genomes := []*model.Genome{newGenome(1, 5), newGenome(2, 6)}
	evaluator := &ListEvaluator{Decoder: stubDecoder{}, Evaluator: stubScape{}, Workers: 2}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := evaluator.EvaluateAll(ctx, genomes); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestEvaluateAllEmptyListIsNoOp(t *testing.T) {
	evaluator := &ListEvaluator{Decoder: stubDecoder{}, Evaluator: stubScape{}}
	if err := evaluator.EvaluateAll(context.Background(), nil); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
