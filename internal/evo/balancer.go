package evo

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/filipGG/sharpneat-refactor/internal/distance"
	"github.com/filipGG/sharpneat-refactor/internal/model"
)

// Balancer repairs a species partition that produced zero-member species. It
// moves the outlier genome of the currently largest species into each empty
// one, keeping the total genome count and the one-owner-per-genome invariant
// intact.
type Balancer struct {
	Metric  distance.Metric
	Workers int
}

// PopulateEmptySpecies fills every species in emptySpecies with one genome
// drawn from the largest species in allSpecies. Repairs run strictly in
// sequence: two fills could otherwise pick the same donor and race on its
// membership. Parallelism is confined to the within-donor outlier search.
//
// An empty emptySpecies slice is a no-op. If no species can donate a member
// without itself becoming empty, the partition is unrepairable and an error
// is returned; that indicates a broken upstream clustering pass.
func (b *Balancer) PopulateEmptySpecies(emptySpecies, allSpecies []*model.Species) error {
	if len(emptySpecies) == 0 {
		return nil
	}
	if b.Metric == nil {
		return fmt.Errorf("balancer requires a distance metric")
	}

	for _, empty := range emptySpecies {
		if empty.Size() > 0 {
			continue
		}

		donor := largestSpecies(allSpecies)
		if donor == nil || donor.Size() < 2 {
			return fmt.Errorf("cannot repair empty species %d: no species can donate a member", empty.ID)
		}

		outlier := b.furthestFromCentroid(donor)
		donor.Remove(outlier.ID)

		centroid, err := b.Metric.Centroid(memberRepresentations(donor))
		if err != nil {
			return fmt.Errorf("recompute centroid of species %d: %w", donor.ID, err)
		}
		donor.Centroid = centroid

		empty.Add(outlier)
		// A one-member species' centroid is trivially that member.
		empty.Centroid = outlier.CloneRepresentation()
	}
	return nil
}

// largestSpecies returns the species holding the most members; ties go to
// the first encountered, which is acceptable since any maximum works.
func largestSpecies(all []*model.Species) *model.Species {
	var largest *model.Species
	for _, species := range all {
		if largest == nil || species.Size() > largest.Size() {
			largest = species
		}
	}
	return largest
}

func memberRepresentations(species *model.Species) [][]float64 {
	reps := make([][]float64, 0, species.Size())
	for _, genome := range species.Members {
		reps = append(reps, genome.Representation)
	}
	return reps
}

type outlierCandidate struct {
	genome   *model.Genome
	distance float64
}

// better prefers the larger distance, breaking ties on the lower genome ID
// so the search result does not depend on goroutine scheduling.
func (c outlierCandidate) better(other outlierCandidate) bool {
	if other.genome == nil {
		return true
	}
	if c.distance != other.distance {
		return c.distance > other.distance
	}
	return c.genome.ID < other.genome.ID
}

// furthestFromCentroid finds the donor member with the maximal distance to
// the donor's centroid. The search is a pure fold over an immutable snapshot
// of the membership, so it can fan out across workers without locks; all
// mutation happens after it returns.
func (b *Balancer) furthestFromCentroid(donor *model.Species) *model.Genome {
	members := make([]*model.Genome, 0, donor.Size())
	for _, genome := range donor.Members {
		members = append(members, genome)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	workerCount := b.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount > len(members) {
		workerCount = len(members)
	}
	if workerCount <= 1 {
		best := outlierCandidate{}
		for _, genome := range members {
			candidate := outlierCandidate{genome: genome, distance: b.Metric.Distance(donor.Centroid, genome.Representation)}
			if candidate.better(best) {
				best = candidate
			}
		}
		return best.genome
	}

	locals := make(chan outlierCandidate, workerCount)
	chunk := (len(members) + workerCount - 1) / workerCount

	var wg sync.WaitGroup
	for start := 0; start < len(members); start += chunk {
		end := start + chunk
		if end > len(members) {
			end = len(members)
		}
		wg.Add(1)
		go func(part []*model.Genome) {
			defer wg.Done()
			best := outlierCandidate{}
			for _, genome := range part {
				candidate := outlierCandidate{genome: genome, distance: b.Metric.Distance(donor.Centroid, genome.Representation)}
				if candidate.better(best) {
					best = candidate
				}
			}
			locals <- best
		}(members[start:end])
	}
	wg.Wait()
	close(locals)

	best := outlierCandidate{}
	for candidate := range locals {
		if candidate.genome != nil && candidate.better(best) {
			best = candidate
		}
	}
	return best.genome
}
