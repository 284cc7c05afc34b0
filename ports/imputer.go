package ports

import (
	"context"

	"goimpute/domain/matrix"
)

// BlockImputer fills missing cells in one sub-block of a group matrix.
// Implementations must return a copy: the input block is never mutated and
// observed cells keep their exact values. Non-fatal per-row degeneracies
// are reported as warnings, not errors.
type BlockImputer interface {
	Impute(ctx context.Context, block *matrix.Matrix) (*matrix.Matrix, []string, error)
}
