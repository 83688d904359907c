package storage

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/filipGG/sharpneat-refactor/internal/model"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func createTables(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (id TEXT PRIMARY KEY, data BLOB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS fitness_history (run_id TEXT PRIMARY KEY, data BLOB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS generation_diagnostics (run_id TEXT PRIMARY KEY, data BLOB NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS best_genomes (run_id TEXT PRIMARY KEY, data BLOB NOT NULL)`,
	}
	for _, statement := range statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("sqlite store is not initialized")
	}
	return s.db, nil
}

func (s *SQLiteStore) saveBlob(ctx context.Context, table, key string, data []byte) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	keyColumn := "run_id"
	if table == "runs" {
		keyColumn = "id"
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO `+table+` (`+keyColumn+`, data) VALUES (?, ?)
		 ON CONFLICT(`+keyColumn+`) DO UPDATE SET data = excluded.data`,
		key, data)
	return err
}

func (s *SQLiteStore) getBlob(ctx context.Context, table, key string) ([]byte, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, false, err
	}
	keyColumn := "run_id"
	if table == "runs" {
		keyColumn = "id"
	}
	var data []byte
	err = db.QueryRowContext(ctx, `SELECT data FROM `+table+` WHERE `+keyColumn+` = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run model.RunRecord) error {
	data, err := EncodeRun(run)
	if err != nil {
		return err
	}
	return s.saveBlob(ctx, "runs", run.ID, data)
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (model.RunRecord, bool, error) {
	data, ok, err := s.getBlob(ctx, "runs", id)
	if err != nil || !ok {
		return model.RunRecord{}, false, err
	}
	run, err := DecodeRun(data)
	if err != nil {
		return model.RunRecord{}, false, err
	}
	return run, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]model.RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT data FROM runs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		run, err := DecodeRun(data)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) SaveFitnessHistory(ctx context.Context, runID string, history []float64) error {
	data, err := EncodeHistory(history)
	if err != nil {
		return err
	}
	return s.saveBlob(ctx, "fitness_history", runID, data)
}

func (s *SQLiteStore) GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error) {
	data, ok, err := s.getBlob(ctx, "fitness_history", runID)
	if err != nil || !ok {
		return nil, false, err
	}
	history, err := DecodeHistory(data)
	if err != nil {
		return nil, false, err
	}
	return history, true, nil
}

func (s *SQLiteStore) SaveGenerationDiagnostics(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error {
	data, err := EncodeDiagnostics(diagnostics)
	if err != nil {
		return err
	}
	return s.saveBlob(ctx, "generation_diagnostics", runID, data)
}

func (s *SQLiteStore) GetGenerationDiagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error) {
	data, ok, err := s.getBlob(ctx, "generation_diagnostics", runID)
	if err != nil || !ok {
		return nil, false, err
	}
	diagnostics, err := DecodeDiagnostics(data)
	if err != nil {
		return nil, false, err
	}
	return diagnostics, true, nil
}

func (s *SQLiteStore) SaveBestGenome(ctx context.Context, runID string, genome model.Genome) error {
	data, err := EncodeGenome(genome)
	if err != nil {
		return err
	}
	return s.saveBlob(ctx, "best_genomes", runID, data)
}

func (s *SQLiteStore) GetBestGenome(ctx context.Context, runID string) (model.Genome, bool, error) {
	data, ok, err := s.getBlob(ctx, "best_genomes", runID)
	if err != nil || !ok {
		return model.Genome{}, false, err
	}
	genome, err := DecodeGenome(data)
	if err != nil {
		return model.Genome{}, false, err
	}
	return genome, true, nil
}
