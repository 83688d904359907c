// Package evo implements the population-level mechanics of the search:
// evaluating every genome against a scape, partitioning the population into
// species, repairing degenerate partitions, and sequencing generations.
package evo

import (
	"context"
	"runtime"
	"sync"

	"github.com/filipGG/sharpneat-refactor/internal/model"
	"github.com/filipGG/sharpneat-refactor/internal/nn"
	"github.com/filipGG/sharpneat-refactor/internal/scape"
)

// Decoder turns a genome into an executable phenotype. A decode failure is
// an expected per-genome condition, not a structural error.
type Decoder interface {
	Decode(genome *model.Genome) (nn.BlackBox, error)
}

// ListEvaluator scores every genome in a list across a bounded worker pool.
// Each genome is decoded into its own box, so no box is ever shared between
// concurrent evaluations. Genomes that fail to decode receive the null
// fitness and stay in the population as worst-ranked candidates.
type ListEvaluator struct {
	Decoder   Decoder
	Evaluator scape.PhenomeEvaluator
	Workers   int
}

// EvaluateAll assigns a fitness to every genome in place. An evaluator error
// (a phenotype contract violation) aborts the pass and is returned.
func (e *ListEvaluator) EvaluateAll(ctx context.Context, genomes []*model.Genome) error {
	workerCount := e.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount > len(genomes) {
		workerCount = len(genomes)
	}
	if workerCount < 1 {
		return nil
	}

	jobs := make(chan *model.Genome)
	results := make(chan error, len(genomes))

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for genome := range jobs {
				if err := ctx.Err(); err != nil {
					results <- err
					continue
				}
				results <- e.evaluateOne(ctx, genome)
			}
		}()
	}

	for _, genome := range genomes {
		jobs <- genome
	}
	close(jobs)

	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *ListEvaluator) evaluateOne(ctx context.Context, genome *model.Genome) error {
	box, err := e.Decoder.Decode(genome)
	if err != nil {
		// Undecodable genomes score the null fitness instead of halting
		// the generation.
		genome.Fitness = model.NullFitnessInfo
		return nil
	}
	fitness, err := e.Evaluator.Evaluate(ctx, box)
	if err != nil {
		return err
	}
	genome.Fitness = fitness
	return nil
}
