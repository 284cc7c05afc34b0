package ports

import (
	"context"

	"goimpute/domain/core"
	"goimpute/domain/impute"
)

// RunRepository persists imputation runs and their annotated output.
type RunRepository interface {
	// SaveRun stores the manifest and the annotated table of a finished run.
	SaveRun(ctx context.Context, result *impute.Result) error

	// GetManifest loads the manifest of a stored run.
	GetManifest(ctx context.Context, runID core.RunID) (*impute.RunManifest, error)

	// ListManifests returns stored manifests, newest first.
	ListManifests(ctx context.Context, limit int) ([]*impute.RunManifest, error)
}
