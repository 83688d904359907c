package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/filipGG/sharpneat-refactor/internal/config"
	"github.com/filipGG/sharpneat-refactor/internal/distance"
	"github.com/filipGG/sharpneat-refactor/internal/evo"
	"github.com/filipGG/sharpneat-refactor/internal/model"
	"github.com/filipGG/sharpneat-refactor/internal/nn"
	"github.com/filipGG/sharpneat-refactor/internal/scape"
	"github.com/filipGG/sharpneat-refactor/internal/storage"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(message string) error {
	return fmt.Errorf("%s\nusage: neatctl <run|runs|fitness|diagnostics> [flags]", message)
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "experiment config file (ini)")
	runID := fs.String("run-id", "", "run identifier, random when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	id := *runID
	if id == "" {
		id = uuid.NewString()
	}

	store, err := storage.NewStore(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	task, err := scape.ForName(cfg.Task.Scape)
	if err != nil {
		return err
	}

	layerSizes := make([]int, 0, len(cfg.Task.HiddenSizes)+2)
	layerSizes = append(layerSizes, task.InputCount())
	layerSizes = append(layerSizes, cfg.Task.HiddenSizes...)
	layerSizes = append(layerSizes, task.OutputCount())
	decoder := nn.VectorDecoder{LayerSizes: layerSizes, Activation: cfg.Task.Activation}

	var metric distance.Metric = distance.Euclidean{}
	if cfg.Neat.DistanceMetric == "manhattan" {
		metric = distance.Manhattan{}
	}

	rng := rand.New(rand.NewSource(cfg.Neat.Seed))
	initial := seedPopulation(rng, cfg.Neat.PopulationSize, nn.WeightCount(layerSizes))

	algorithm, err := evo.New(evo.Config{
		Scape:              task,
		Decoder:            decoder,
		Metric:             metric,
		Reproducer:         evo.WeightPerturbReproducer{EliteFraction: cfg.Neat.EliteFraction, StdDev: cfg.Neat.MutationStdDev},
		PopulationSize:     cfg.Neat.PopulationSize,
		TargetSpeciesCount: cfg.Neat.TargetSpecies,
		Workers:            cfg.Neat.Workers,
		Seed:               cfg.Neat.Seed,
	}, initial)
	if err != nil {
		return err
	}

	if err := store.SaveRun(ctx, model.RunRecord{
		ID:             id,
		Scape:          task.Name(),
		PopulationSize: cfg.Neat.PopulationSize,
		StartedAt:      time.Now().UTC(),
	}); err != nil {
		return err
	}

	history := make([]float64, 0, cfg.Neat.Generations)
	diagnostics := make([]model.GenerationDiagnostics, 0, cfg.Neat.Generations)
	for gen := 0; gen < cfg.Neat.Generations; gen++ {
		diag, err := algorithm.PerformOneGeneration(ctx)
		if err != nil {
			return err
		}
		history = append(history, diag.BestFitness)
		diagnostics = append(diagnostics, diag)
		fmt.Printf("gen=%d best=%.4f mean=%.4f species=%d repaired=%d\n",
			diag.Generation, diag.BestFitness, diag.MeanFitness, diag.SpeciesCount, diag.RepairedSpecies)

		if algorithm.TestForStopCondition() {
			fmt.Printf("stop condition satisfied at generation %d\n", diag.Generation)
			break
		}
	}

	if err := store.SaveFitnessHistory(ctx, id, history); err != nil {
		return err
	}
	if err := store.SaveGenerationDiagnostics(ctx, id, diagnostics); err != nil {
		return err
	}
	if best := algorithm.BestGenome(); best != nil {
		if err := store.SaveBestGenome(ctx, id, *best); err != nil {
			return err
		}
		fmt.Printf("run=%s best_genome=%d best_fitness=%.4f\n", id, best.ID, best.Fitness.Primary)
	}
	return nil
}

func seedPopulation(rng *rand.Rand, size, weightCount int) []*model.Genome {
	genomes := make([]*model.Genome, size)
	for i := range genomes {
		representation := make([]float64, weightCount)
		for j := range representation {
			representation[j] = rng.NormFloat64()
		}
		genomes[i] = &model.Genome{ID: i + 1, Representation: representation}
	}
	return genomes
}

func openStore(ctx context.Context, fs *flag.FlagSet) (storage.Store, error) {
	backend := fs.Lookup("store").Value.String()
	path := fs.Lookup("db-path").Value.String()
	store, err := storage.NewStore(backend, path)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func addStoreFlags(fs *flag.FlagSet) {
	fs.String("store", "sqlite", "store backend: memory|sqlite")
	fs.String("db-path", "neat.db", "sqlite database path")
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(ctx, fs)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	for _, record := range runs {
		fmt.Printf("%s scape=%s population=%d started=%s\n",
			record.ID, record.Scape, record.PopulationSize, record.StartedAt.Format(time.RFC3339))
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return fmt.Errorf("run-id is required")
	}

	store, err := openStore(ctx, fs)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	history, ok, err := store.GetFitnessHistory(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no fitness history for run %s", *runID)
	}
	for gen, best := range history {
		fmt.Printf("gen=%d best=%.4f\n", gen+1, best)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	addStoreFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return fmt.Errorf("run-id is required")
	}

	store, err := openStore(ctx, fs)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	diagnostics, ok, err := store.GetGenerationDiagnostics(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no diagnostics for run %s", *runID)
	}
	for _, diag := range diagnostics {
		fmt.Printf("gen=%d best=%.4f mean=%.4f stddev=%.4f min=%.4f species=%d largest=%d repaired=%d\n",
			diag.Generation, diag.BestFitness, diag.MeanFitness, diag.StdDevFitness, diag.MinFitness,
			diag.SpeciesCount, diag.LargestSpeciesSize, diag.RepairedSpecies)
	}
	return nil
}
