package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Genome is an identity-bearing candidate solution. The representation is an
// opaque weight vector consumed only by the distance metric and the decoder.
type Genome struct {
	ID             int         `json:"id"`
	Representation []float64   `json:"representation"`
	Fitness        FitnessInfo `json:"fitness"`
}

// CloneRepresentation returns an independent copy of the genome's weight
// vector so callers can snapshot it without aliasing the genome.
func (g *Genome) CloneRepresentation() []float64 {
	out := make([]float64, len(g.Representation))
	copy(out, g.Representation)
	return out
}

// Species is a cluster of genomes sharing a centroid under a distance metric.
// While the population is speciated every species holds at least one member.
type Species struct {
	ID       int             `json:"id"`
	Centroid []float64       `json:"centroid"`
	Members  map[int]*Genome `json:"members"`
}

func NewSpecies(id int) *Species {
	return &Species{
		ID:      id,
		Members: make(map[int]*Genome),
	}
}

func (s *Species) Size() int {
	return len(s.Members)
}

// Add inserts a genome into the species keyed by its identifier.
func (s *Species) Add(genome *Genome) {
	s.Members[genome.ID] = genome
}

// Remove deletes the genome with the given identifier and returns it, or nil
// if the species does not hold it.
func (s *Species) Remove(id int) *Genome {
	genome, ok := s.Members[id]
	if !ok {
		return nil
	}
	delete(s.Members, id)
	return genome
}

// Population is an ordered collection of species together with the search's
// target genome count and target species count.
type Population struct {
	SpeciesList        []*Species `json:"species"`
	TargetSize         int        `json:"target_size"`
	TargetSpeciesCount int        `json:"target_species_count"`
}

// GenomeCount returns the total member count across all species.
func (p *Population) GenomeCount() int {
	total := 0
	for _, species := range p.SpeciesList {
		total += species.Size()
	}
	return total
}

// Genomes flattens the partition into a single slice. Order follows species
// order; within a species it is map iteration order and therefore undefined.
func (p *Population) Genomes() []*Genome {
	out := make([]*Genome, 0, p.GenomeCount())
	for _, species := range p.SpeciesList {
		for _, genome := range species.Members {
			out = append(out, genome)
		}
	}
	return out
}

// BestGenome returns the member with the highest fitness, or nil for an
// empty population.
func (p *Population) BestGenome() *Genome {
	var best *Genome
	for _, species := range p.SpeciesList {
		for _, genome := range species.Members {
			if best == nil || CompareFitness(genome.Fitness, best.Fitness) > 0 {
				best = genome
			}
		}
	}
	return best
}
