package evo

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"github.com/filipGG/sharpneat-refactor/internal/model"
	"github.com/filipGG/sharpneat-refactor/internal/nn"
	"github.com/filipGG/sharpneat-refactor/internal/scape"
)

// perfectXORWeights encodes a hand-built sigmoid network solving XOR on the
// bias-plus-two-inputs layout with layers [3, 2, 1]: an OR gate, a NAND
// gate, and an AND of the two.
var perfectXORWeights = []float64{
	-10, 20, 20, 0,
	30, -20, -20, 0,
	20, 20, -30,
}

func xorTestConfig(popSize int) Config {
	return Config{
		Scape:              scape.NewXORScape(),
		Decoder:            nn.VectorDecoder{LayerSizes: []int{3, 2, 1}, Activation: "sigmoid"},
		PopulationSize:     popSize,
		TargetSpeciesCount: 3,
		Workers:            2,
		Seed:               42,
	}
}

func seedGenomes(rng *rand.Rand, count, weightCount int) []*model.Genome {
	genomes := make([]*model.Genome, count)
	for i := range genomes {
		rep := make([]float64, weightCount)
		for j := range rep {
			rep[j] = rng.NormFloat64()
		}
		genomes[i] = &model.Genome{ID: i + 1, Representation: rep}
	}
	return genomes
}

func TestNewValidatesConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	initial := seedGenomes(rng, 10, len(perfectXORWeights))

	cfg := xorTestConfig(10)
	cfg.Scape = nil
	if _, err := New(cfg, initial); err == nil {
		t.Fatalf("expected error for missing scape")
	}

	cfg = xorTestConfig(10)
	cfg.Decoder = nil
	if _, err := New(cfg, initial); err == nil {
		t.Fatalf("expected error for missing decoder")
	}

	cfg = xorTestConfig(10)
	cfg.TargetSpeciesCount = 11
	if _, err := New(cfg, initial); err == nil {
		t.Fatalf("expected error for target species above population size")
	}

	if _, err := New(xorTestConfig(10), initial[:5]); err == nil {
		t.Fatalf("expected error for initial population size mismatch")
	}
}

func TestPerformOneGenerationMaintainsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	initial := seedGenomes(rng, 12, len(perfectXORWeights))

	algorithm, err := New(xorTestConfig(12), initial)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for gen := 1; gen <= 3; gen++ {
		diag, err := algorithm.PerformOneGeneration(context.Background())
		if err != nil {
			t.Fatalf("generation %d: %v", gen, err)
		}
		if diag.Generation != gen {
			t.Fatalf("expected generation %d, got %d", gen, diag.Generation)
		}
		if diag.SpeciesCount != 3 {
			t.Fatalf("generation %d: expected 3 species, got %d", gen, diag.SpeciesCount)
		}
		if diag.BestFitness < diag.MinFitness {
			t.Fatalf("generation %d: best %v below min %v", gen, diag.BestFitness, diag.MinFitness)
		}

		pop := algorithm.Population()
		if err := pop.Validate(); err != nil {
			t.Fatalf("generation %d: partition invariant: %v", gen, err)
		}
		if pop.GenomeCount() != 12 {
			t.Fatalf("generation %d: expected 12 genomes, got %d", gen, pop.GenomeCount())
		}
	}
}

func TestStopConditionAfterPlantedPerfectGenome(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	initial := seedGenomes(rng, 10, len(perfectXORWeights))
	initial[9].Representation = append([]float64(nil), perfectXORWeights...)

	algorithm, err := New(xorTestConfig(10), initial)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if algorithm.TestForStopCondition() {
		t.Fatalf("stop condition must be false before any evaluation")
	}

	if _, err := algorithm.PerformOneGeneration(context.Background()); err != nil {
		t.Fatalf("generation: %v", err)
	}
	if !algorithm.TestForStopCondition() {
		t.Fatalf("expected stop condition after evaluating a perfect genome")
	}

	best := algorithm.BestGenome()
	if best == nil {
		t.Fatalf("expected a best genome after evaluation")
	}
	if best.Fitness.Primary < 10 {
		t.Fatalf("expected bonus-earning fitness, got %v", best.Fitness.Primary)
	}
}

func TestUndecodableGenomeSurvivesGenerationWithNullFitness(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	initial := seedGenomes(rng, 8, len(perfectXORWeights))
	initial[0].Representation = []float64{1, 2} // wrong length, decode fails

	algorithm, err := New(xorTestConfig(8), initial)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	diag, err := algorithm.PerformOneGeneration(context.Background())
	if err != nil {
		t.Fatalf("generation: %v", err)
	}

	if !reflect.DeepEqual(initial[0].Fitness, model.NullFitnessInfo) {
		t.Fatalf("expected null fitness for undecodable genome, got %v", initial[0].Fitness)
	}
	if diag.MinFitness != 0 {
		t.Fatalf("expected the undecodable genome at the bottom of the range, min=%v", diag.MinFitness)
	}
}

func TestPerformOneGenerationHonorsCancellation(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	initial := seedGenomes(rng, 6, len(perfectXORWeights))

	algorithm, err := New(xorTestConfig(6), initial)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := algorithm.PerformOneGeneration(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
