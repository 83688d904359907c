package evo

import (
	"context"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/filipGG/sharpneat-refactor/internal/distance"
	"github.com/filipGG/sharpneat-refactor/internal/model"
	"github.com/filipGG/sharpneat-refactor/internal/scape"
)

// Config assembles the collaborators one evolutionary run needs.
type Config struct {
	Scape              scape.PhenomeEvaluator
	Decoder            Decoder
	Metric             distance.Metric
	Reproducer         Reproducer
	PopulationSize     int
	TargetSpeciesCount int
	Workers            int
	Seed               int64
}

// EvolutionAlgorithm owns the population and sequences one generation at a
// time: evaluate every genome, cluster into species, repair empty species,
// then reproduce. The best genome ever seen is retained for the stop test.
type EvolutionAlgorithm struct {
	cfg        Config
	rng        *rand.Rand
	ids        *model.IDSequence
	listEval   *ListEvaluator
	speciation *KMeansSpeciation
	balancer   *Balancer

	genomes    []*model.Genome
	pop        *model.Population
	generation int
	best       *model.Genome
}

func New(cfg Config, initial []*model.Genome) (*EvolutionAlgorithm, error) {
	if cfg.Scape == nil {
		return nil, fmt.Errorf("scape is required")
	}
	if cfg.Decoder == nil {
		return nil, fmt.Errorf("decoder is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.TargetSpeciesCount <= 0 || cfg.TargetSpeciesCount > cfg.PopulationSize {
		return nil, fmt.Errorf("target species count must be in [1, population size]")
	}
	if len(initial) != cfg.PopulationSize {
		return nil, fmt.Errorf("initial population mismatch: got=%d want=%d", len(initial), cfg.PopulationSize)
	}
	if cfg.Metric == nil {
		cfg.Metric = distance.Euclidean{}
	}
	if cfg.Reproducer == nil {
		cfg.Reproducer = WeightPerturbReproducer{}
	}

	maxID := 0
	for _, genome := range initial {
		if genome.ID > maxID {
			maxID = genome.ID
		}
	}

	genomes := make([]*model.Genome, len(initial))
	copy(genomes, initial)

	return &EvolutionAlgorithm{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		ids:        model.NewIDSequence(maxID + 1),
		listEval:   &ListEvaluator{Decoder: cfg.Decoder, Evaluator: cfg.Scape, Workers: cfg.Workers},
		speciation: &KMeansSpeciation{Metric: cfg.Metric},
		balancer:   &Balancer{Metric: cfg.Metric, Workers: cfg.Workers},
		genomes:    genomes,
	}, nil
}

// PerformOneGeneration advances the search by one full cycle and returns the
// generation's diagnostics. Structural invariant violations abort with an
// error; per-genome decode failures do not.
func (ea *EvolutionAlgorithm) PerformOneGeneration(ctx context.Context) (model.GenerationDiagnostics, error) {
	if err := ctx.Err(); err != nil {
		return model.GenerationDiagnostics{}, err
	}
	ea.generation++

	if err := ea.listEval.EvaluateAll(ctx, ea.genomes); err != nil {
		return model.GenerationDiagnostics{}, fmt.Errorf("generation %d: evaluate: %w", ea.generation, err)
	}
	ea.trackBest()

	speciesList, err := ea.speciation.Speciate(ea.rng, ea.genomes, ea.cfg.TargetSpeciesCount)
	if err != nil {
		return model.GenerationDiagnostics{}, fmt.Errorf("generation %d: speciate: %w", ea.generation, err)
	}
	empty := make([]*model.Species, 0)
	for _, species := range speciesList {
		if species.Size() == 0 {
			empty = append(empty, species)
		}
	}
	if err := ea.balancer.PopulateEmptySpecies(empty, speciesList); err != nil {
		return model.GenerationDiagnostics{}, fmt.Errorf("generation %d: %w", ea.generation, err)
	}

	ea.pop = &model.Population{
		SpeciesList:        speciesList,
		TargetSize:         ea.cfg.PopulationSize,
		TargetSpeciesCount: ea.cfg.TargetSpeciesCount,
	}
	if err := ea.pop.Validate(); err != nil {
		return model.GenerationDiagnostics{}, fmt.Errorf("generation %d: partition invariant: %w", ea.generation, err)
	}

	diagnostics := ea.summarize(len(empty))

	ea.genomes, err = ea.cfg.Reproducer.NextGeneration(ea.rng, ea.pop, ea.ids)
	if err != nil {
		return model.GenerationDiagnostics{}, fmt.Errorf("generation %d: reproduce: %w", ea.generation, err)
	}
	return diagnostics, nil
}

// TestForStopCondition delegates to the scape on the best fitness seen so
// far.
func (ea *EvolutionAlgorithm) TestForStopCondition() bool {
	if ea.best == nil {
		return false
	}
	return ea.cfg.Scape.TestForStopCondition(ea.best.Fitness)
}

// Population returns the most recent speciated view, nil before the first
// generation completes.
func (ea *EvolutionAlgorithm) Population() *model.Population {
	return ea.pop
}

func (ea *EvolutionAlgorithm) Generation() int {
	return ea.generation
}

// BestGenome returns a snapshot of the best genome seen across all
// generations, nil before the first evaluation.
func (ea *EvolutionAlgorithm) BestGenome() *model.Genome {
	return ea.best
}

func (ea *EvolutionAlgorithm) trackBest() {
	for _, genome := range ea.genomes {
		if ea.best == nil || model.CompareFitness(genome.Fitness, ea.best.Fitness) > 0 {
			snapshot := &model.Genome{
				ID:             genome.ID,
				Representation: genome.CloneRepresentation(),
				Fitness:        genome.Fitness,
			}
			ea.best = snapshot
		}
	}
}

func (ea *EvolutionAlgorithm) summarize(repaired int) model.GenerationDiagnostics {
	fitnesses := make([]float64, 0, len(ea.genomes))
	minFitness := 0.0
	bestFitness := 0.0
	for i, genome := range ea.genomes {
		fitnesses = append(fitnesses, genome.Fitness.Primary)
		if i == 0 || genome.Fitness.Primary < minFitness {
			minFitness = genome.Fitness.Primary
		}
		if i == 0 || genome.Fitness.Primary > bestFitness {
			bestFitness = genome.Fitness.Primary
		}
	}

	stdDev := 0.0
	if len(fitnesses) > 1 {
		stdDev = stat.StdDev(fitnesses, nil)
	}

	largest := 0
	for _, species := range ea.pop.SpeciesList {
		if species.Size() > largest {
			largest = species.Size()
		}
	}

	return model.GenerationDiagnostics{
		Generation:         ea.generation,
		BestFitness:        bestFitness,
		MeanFitness:        stat.Mean(fitnesses, nil),
		StdDevFitness:      stdDev,
		MinFitness:         minFitness,
		SpeciesCount:       len(ea.pop.SpeciesList),
		MeanSpeciesSize:    float64(len(ea.genomes)) / float64(len(ea.pop.SpeciesList)),
		LargestSpeciesSize: largest,
		RepairedSpecies:    repaired,
	}
}
