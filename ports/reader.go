package ports

import (
	"context"

	"goimpute/domain/matrix"
)

// MatrixReader loads an intensity matrix from an external source.
type MatrixReader interface {
	ReadMatrix(ctx context.Context) (*matrix.Matrix, error)
}
