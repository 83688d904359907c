// Package storage persists run artifacts: run records, per-generation
// diagnostics, fitness history and best genomes. The evolutionary core never
// depends on it; the CLI wires a store around the loop.
package storage

import (
	"context"

	"github.com/filipGG/sharpneat-refactor/internal/model"
)

// Store defines the persistence operations a run needs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
	SaveBestGenome(ctx context.Context, runID string, genome model.Genome) error
	GetBestGenome(ctx context.Context, runID string) (model.Genome, bool, error)
}
