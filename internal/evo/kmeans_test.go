package evo

import (
	"math/rand"
	"testing"

	"github.com/filipGG/sharpneat-refactor/internal/distance"
	"github.com/filipGG/sharpneat-refactor/internal/model"
)

func TestSpeciateSeparatesDistinctClusters(t *testing.T) {
	genomes := []*model.Genome{
		newGenome(1, 0.0, 0.1),
		newGenome(2, 0.1, 0.0),
		newGenome(3, 0.1, 0.1),
		newGenome(4, 10.0, 10.1),
		newGenome(5, 10.1, 10.0),
		newGenome(6, 10.1, 10.1),
	}

	speciation := &KMeansSpeciation{Metric: distance.Euclidean{}}
	speciesList, err := speciation.Speciate(rand.New(rand.NewSource(1)), genomes, 2)
	if err != nil {
		t.Fatalf("speciate: %v", err)
	}
	if len(speciesList) != 2 {
		t.Fatalf("expected 2 species, got %d", len(speciesList))
	}

	total := 0
	for _, species := range speciesList {
		total += species.Size()
		// Each cluster's genomes share a species: IDs 1-3 or 4-6 only.
		low, high := false, false
		for id := range species.Members {
			if id <= 3 {
				low = true
			} else {
				high = true
			}
		}
		if low && high {
			t.Fatalf("species %d mixes both clusters: %v", species.ID, species.Members)
		}
	}
	if total != len(genomes) {
		t.Fatalf("expected all %d genomes assigned, got %d", len(genomes), total)
	}
}

func TestSpeciatePartitionIsValid(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	genomes := make([]*model.Genome, 30)
	for i := range genomes {
		genomes[i] = newGenome(i+1, rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64())
	}

	metric := distance.Euclidean{}
	speciation := &KMeansSpeciation{Metric: metric}
	speciesList, err := speciation.Speciate(rng, genomes, 5)
	if err != nil {
		t.Fatalf("speciate: %v", err)
	}

	empty := make([]*model.Species, 0)
	for _, species := range speciesList {
		if species.Size() == 0 {
			empty = append(empty, species)
		}
	}
	balancer := &Balancer{Metric: metric}
	if err := balancer.PopulateEmptySpecies(empty, speciesList); err != nil {
		t.Fatalf("populate: %v", err)
	}

	pop := &model.Population{SpeciesList: speciesList}
	if err := pop.Validate(); err != nil {
		t.Fatalf("partition invariant violated: %v", err)
	}
	if pop.GenomeCount() != len(genomes) {
		t.Fatalf("expected %d genomes, got %d", len(genomes), pop.GenomeCount())
	}
}

func TestSpeciateValidatesArguments(t *testing.T) {
	speciation := &KMeansSpeciation{Metric: distance.Euclidean{}}
	rng := rand.New(rand.NewSource(1))
	genomes := []*model.Genome{newGenome(1, 0)}

	if _, err := speciation.Speciate(nil, genomes, 1); err == nil {
		t.Fatalf("expected error for nil rng")
	}
	if _, err := speciation.Speciate(rng, genomes, 0); err == nil {
		t.Fatalf("expected error for zero species count")
	}
	if _, err := speciation.Speciate(rng, genomes, 2); err == nil {
		t.Fatalf("expected error for more species than genomes")
	}
	if _, err := (&KMeansSpeciation{}).Speciate(rng, genomes, 1); err == nil {
		t.Fatalf("expected error for missing metric")
	}
}
