package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"goimpute/domain/core"
	"goimpute/domain/impute"
	"goimpute/ports"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// EnsureSchema creates the imputation tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS imputation_runs (
			run_id       TEXT PRIMARY KEY,
			seed         BIGINT NOT NULL,
			manifest     JSONB NOT NULL,
			imputed_cells INTEGER NOT NULL,
			runtime_ms   BIGINT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS imputation_tables (
			run_id  TEXT PRIMARY KEY REFERENCES imputation_runs(run_id) ON DELETE CASCADE,
			payload JSONB NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// SaveRun stores the manifest and annotated table of a finished run.
func (r *runRepository) SaveRun(ctx context.Context, result *impute.Result) error {
	manifestJSON, err := json.Marshal(result.Manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	tableJSON, err := json.Marshal(result.Table)
	if err != nil {
		return fmt.Errorf("failed to marshal table: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO imputation_runs (run_id, seed, manifest, imputed_cells, runtime_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		result.Manifest.RunID, result.Manifest.Seed, manifestJSON,
		result.Manifest.ImputedCells, result.Manifest.RuntimeMs, result.Manifest.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO imputation_tables (run_id, payload) VALUES ($1, $2)`,
		result.Manifest.RunID, tableJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert table: %w", err)
	}

	return tx.Commit()
}

// GetManifest loads the manifest of a stored run.
func (r *runRepository) GetManifest(ctx context.Context, runID core.RunID) (*impute.RunManifest, error) {
	var manifestJSON []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT manifest FROM imputation_runs WHERE run_id = $1`, runID,
	).Scan(&manifestJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var manifest impute.RunManifest
	if err := json.Unmarshal(manifestJSON, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}
	return &manifest, nil
}

// ListManifests returns stored manifests, newest first.
func (r *runRepository) ListManifests(ctx context.Context, limit int) ([]*impute.RunManifest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT manifest FROM imputation_runs ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var manifests []*impute.RunManifest
	for rows.Next() {
		var manifestJSON []byte
		if err := rows.Scan(&manifestJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		var m impute.RunManifest
		if err := json.Unmarshal(manifestJSON, &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
		}
		manifests = append(manifests, &m)
	}
	return manifests, rows.Err()
}
