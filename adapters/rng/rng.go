package rng

import (
	"context"
	"hash/fnv"
	"math/rand"

	"goimpute/ports"
)

// Adapter derives independent deterministic rand streams from a base seed
// and a stream name. The same (name, seed) pair always yields the same
// sequence, which keeps parallel per-group sampling reproducible.
type Adapter struct{}

// NewAdapter creates the RNG adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream returns a rand.Rand for a named operation.
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	return rand.New(rand.NewSource(deriveSeed(name, seed))), nil
}

// GroupStream returns a rand.Rand scoped to one group.
func (a *Adapter) GroupStream(ctx context.Context, group string, baseSeed int64) (*rand.Rand, error) {
	return a.SeededStream(ctx, "group/"+group, baseSeed)
}

func deriveSeed(name string, seed int64) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return int64(h.Sum64()) ^ seed
}

var _ ports.RNGPort = (*Adapter)(nil)
