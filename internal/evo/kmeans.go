package evo

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/filipGG/sharpneat-refactor/internal/distance"
	"github.com/filipGG/sharpneat-refactor/internal/model"
)

const defaultKMeansIterations = 5

// KMeansSpeciation is the full clustering pass that produces a species
// partition from scratch each generation. It may leave species empty; the
// Balancer repairs those before the partition is used.
type KMeansSpeciation struct {
	Metric        distance.Metric
	MaxIterations int
}

// Speciate partitions genomes into speciesCount species by nearest centroid.
// Centroids are seeded from randomly chosen distinct genomes, then refined
// for a bounded number of assign/recompute rounds, stopping early once the
// assignment is stable.
func (k *KMeansSpeciation) Speciate(rng *rand.Rand, genomes []*model.Genome, speciesCount int) ([]*model.Species, error) {
	if k.Metric == nil {
		return nil, fmt.Errorf("speciation requires a distance metric")
	}
	if rng == nil {
		return nil, fmt.Errorf("speciation requires a random source")
	}
	if speciesCount < 1 {
		return nil, fmt.Errorf("species count must be >= 1, got %d", speciesCount)
	}
	if len(genomes) < speciesCount {
		return nil, fmt.Errorf("cannot split %d genomes into %d species", len(genomes), speciesCount)
	}

	speciesList := make([]*model.Species, speciesCount)
	for i, seedIdx := range rng.Perm(len(genomes))[:speciesCount] {
		species := model.NewSpecies(i + 1)
		species.Centroid = genomes[seedIdx].CloneRepresentation()
		speciesList[i] = species
	}

	maxIterations := k.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultKMeansIterations
	}

	assignment := make([]int, len(genomes))
	for i := range assignment {
		assignment[i] = -1
	}
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, genome := range genomes {
			nearest := k.nearestSpecies(genome, speciesList)
			if nearest != assignment[i] {
				assignment[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}

		for _, species := range speciesList {
			species.Members = make(map[int]*model.Genome)
		}
		for i, genome := range genomes {
			speciesList[assignment[i]].Add(genome)
		}
		for _, species := range speciesList {
			if species.Size() == 0 {
				// Keep the stale centroid; the balancer resolves empties.
				continue
			}
			centroid, err := k.Metric.Centroid(memberRepresentations(species))
			if err != nil {
				return nil, fmt.Errorf("centroid of species %d: %w", species.ID, err)
			}
			species.Centroid = centroid
		}
	}

	return speciesList, nil
}

func (k *KMeansSpeciation) nearestSpecies(genome *model.Genome, speciesList []*model.Species) int {
	best := 0
	bestDistance := math.MaxFloat64
	for i, species := range speciesList {
		d := k.Metric.Distance(species.Centroid, genome.Representation)
		if d < bestDistance {
			bestDistance = d
			best = i
		}
	}
	return best
}
