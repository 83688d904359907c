// Package config loads experiment settings from INI files.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Config stores the settings for one evolutionary run.
type Config struct {
	Neat    NeatConfig
	Task    TaskConfig
	Storage StorageConfig
}

// NeatConfig holds the population-level search parameters.
type NeatConfig struct {
	PopulationSize int     `ini:"population_size"`
	TargetSpecies  int     `ini:"target_species"`
	Generations    int     `ini:"generations"`
	Workers        int     `ini:"workers"`
	Seed           int64   `ini:"seed"`
	EliteFraction  float64 `ini:"elite_fraction"`
	MutationStdDev float64 `ini:"mutation_stddev"`
	DistanceMetric string  `ini:"distance_metric"`
}

// TaskConfig names the scape and the fixed phenotype topology used to
// decode genomes.
type TaskConfig struct {
	Scape       string `ini:"scape"`
	HiddenSizes []int  `ini:"hidden_sizes" delim:","`
	Activation  string `ini:"activation"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `ini:"backend"`
	Path    string `ini:"path"`
}

// Default returns the configuration used when a file omits a setting.
func Default() Config {
	return Config{
		Neat: NeatConfig{
			PopulationSize: 150,
			TargetSpecies:  10,
			Generations:    100,
			Workers:        0, // 0 means use all available CPUs
			Seed:           1,
			EliteFraction:  0.2,
			MutationStdDev: 0.1,
			DistanceMetric: "euclidean",
		},
		Task: TaskConfig{
			Scape:       "binary-3-multiplexer",
			HiddenSizes: []int{4},
			Activation:  "sigmoid",
		},
		Storage: StorageConfig{
			Backend: "memory",
			Path:    "neat.db",
		},
	}
}

// Load reads an INI file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := ini.Load(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if err := file.Section("neat").MapTo(&cfg.Neat); err != nil {
		return Config{}, fmt.Errorf("parse [neat]: %w", err)
	}
	if err := file.Section("task").MapTo(&cfg.Task); err != nil {
		return Config{}, fmt.Errorf("parse [task]: %w", err)
	}
	if err := file.Section("storage").MapTo(&cfg.Storage); err != nil {
		return Config{}, fmt.Errorf("parse [storage]: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Neat.PopulationSize <= 0 {
		return fmt.Errorf("population_size must be > 0, got %d", c.Neat.PopulationSize)
	}
	if c.Neat.TargetSpecies <= 0 || c.Neat.TargetSpecies > c.Neat.PopulationSize {
		return fmt.Errorf("target_species must be in [1, population_size], got %d", c.Neat.TargetSpecies)
	}
	if c.Neat.Generations <= 0 {
		return fmt.Errorf("generations must be > 0, got %d", c.Neat.Generations)
	}
	if c.Neat.EliteFraction <= 0 || c.Neat.EliteFraction > 1 {
		return fmt.Errorf("elite_fraction must be in (0, 1], got %v", c.Neat.EliteFraction)
	}
	if c.Neat.MutationStdDev <= 0 {
		return fmt.Errorf("mutation_stddev must be > 0, got %v", c.Neat.MutationStdDev)
	}
	switch c.Neat.DistanceMetric {
	case "euclidean", "manhattan":
	default:
		return fmt.Errorf("unknown distance_metric: %s", c.Neat.DistanceMetric)
	}
	if c.Task.Scape == "" {
		return fmt.Errorf("task scape is required")
	}
	for i, size := range c.Task.HiddenSizes {
		if size <= 0 {
			return fmt.Errorf("hidden layer %d has non-positive size %d", i, size)
		}
	}
	return nil
}
