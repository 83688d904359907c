package model

import "time"

// RunRecord identifies one evolutionary run for persistence.
type RunRecord struct {
	VersionedRecord
	ID             string    `json:"id"`
	Scape          string    `json:"scape"`
	PopulationSize int       `json:"population_size"`
	StartedAt      time.Time `json:"started_at"`
}

// GenerationDiagnostics summarizes one generation's fitness and species
// structure for reporting and persistence.
type GenerationDiagnostics struct {
	Generation         int     `json:"generation"`
	BestFitness        float64 `json:"best_fitness"`
	MeanFitness        float64 `json:"mean_fitness"`
	StdDevFitness      float64 `json:"stddev_fitness"`
	MinFitness         float64 `json:"min_fitness"`
	SpeciesCount       int     `json:"species_count"`
	MeanSpeciesSize    float64 `json:"mean_species_size"`
	LargestSpeciesSize int     `json:"largest_species_size"`
	RepairedSpecies    int     `json:"repaired_species"`
}
