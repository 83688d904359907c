package evo

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/filipGG/sharpneat-refactor/internal/model"
)

// Reproducer produces the next generation's genomes from a speciated,
// evaluated population.
type Reproducer interface {
	Name() string
	NextGeneration(rng *rand.Rand, pop *model.Population, ids *model.IDSequence) ([]*model.Genome, error)
}

// WeightPerturbReproducer keeps an elite fraction of the population
// unchanged and fills the remainder with children cloned from random elites
// with Gaussian noise added to every weight. It is deliberately simple; the
// search pressure comes from evaluation and speciation, not from a clever
// operator.
type WeightPerturbReproducer struct {
	EliteFraction float64
	StdDev        float64
}

func (WeightPerturbReproducer) Name() string {
	return "weight_perturb"
}

func (r WeightPerturbReproducer) NextGeneration(rng *rand.Rand, pop *model.Population, ids *model.IDSequence) ([]*model.Genome, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	genomes := pop.Genomes()
	if len(genomes) == 0 {
		return nil, fmt.Errorf("cannot reproduce from an empty population")
	}
	sort.Slice(genomes, func(i, j int) bool {
		if c := model.CompareFitness(genomes[i].Fitness, genomes[j].Fitness); c != 0 {
			return c > 0
		}
		return genomes[i].ID < genomes[j].ID
	})

	eliteFraction := r.EliteFraction
	if eliteFraction <= 0 || eliteFraction > 1 {
		eliteFraction = 0.2
	}
	eliteCount := int(eliteFraction * float64(len(genomes)))
	if eliteCount < 1 {
		eliteCount = 1
	}

	stdDev := r.StdDev
	if stdDev <= 0 {
		stdDev = 0.1
	}

	targetSize := pop.TargetSize
	if targetSize <= 0 {
		targetSize = len(genomes)
	}

	next := make([]*model.Genome, 0, targetSize)
	for i := 0; i < eliteCount && i < targetSize; i++ {
		next = append(next, genomes[i])
	}
	for len(next) < targetSize {
		parent := genomes[rng.Intn(eliteCount)]
		child := &model.Genome{
			ID:             ids.Next(),
			Representation: parent.CloneRepresentation(),
		}
		for i := range child.Representation {
			child.Representation[i] += rng.NormFloat64() * stdDev
		}
		next = append(next, child)
	}
	return next, nil
}
