package model

import "fmt"

// Validate checks the speciated-state invariants: every species holds at
// least one member, no genome identifier appears in two species, and every
// membership key matches its genome's identifier.
func (p *Population) Validate() error {
	seen := make(map[int]int, p.GenomeCount())
	for _, species := range p.SpeciesList {
		if species.Size() == 0 {
			return fmt.Errorf("species %d has no members", species.ID)
		}
		for id, genome := range species.Members {
			if genome == nil {
				return fmt.Errorf("species %d holds nil genome under key %d", species.ID, id)
			}
			if id != genome.ID {
				return fmt.Errorf("species %d keys genome %d under %d", species.ID, genome.ID, id)
			}
			if owner, dup := seen[id]; dup {
				return fmt.Errorf("genome %d appears in species %d and %d", id, owner, species.ID)
			}
			seen[id] = species.ID
		}
	}
	return nil
}
