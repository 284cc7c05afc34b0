package impute

import (
	"goimpute/domain/core"
)

// GroupSummary records what happened inside one experimental group.
type GroupSummary struct {
	Name         string          `json:"name"`
	Samples      int             `json:"samples"`
	ClassCounts  map[MVClass]int `json:"class_counts"`
	ImputedCells int             `json:"imputed_cells"`
}

// RunManifest is the audit record for one imputation run: the complete
// parameterization plus enough counters to judge what the run did. Together
// with the seed it makes a run replayable.
type RunManifest struct {
	RunID        core.RunID     `json:"run_id"`
	Seed         int64          `json:"seed"`
	Options      Options        `json:"options"`
	Limits       Limits         `json:"limits"`
	Groups       []GroupSummary `json:"groups"`
	ImputedCells int            `json:"imputed_cells"`
	Warnings     []string       `json:"warnings,omitempty"`
	RuntimeMs    int64          `json:"runtime_ms"`
	Fingerprint  core.Hash      `json:"fingerprint"`
	CreatedAt    core.Timestamp `json:"created_at"`
}

// NewRunManifest creates a manifest for a starting run.
func NewRunManifest(opts Options, limits Limits) *RunManifest {
	return &RunManifest{
		RunID:     core.NewRunID(),
		Seed:      opts.Seed,
		Options:   opts,
		Limits:    limits,
		CreatedAt: core.Now(),
	}
}

// Finalize seals per-group summaries into aggregate counters and computes
// the determinism fingerprint.
func (m *RunManifest) Finalize(runtimeMs int64) {
	m.RuntimeMs = runtimeMs
	m.ImputedCells = 0
	for _, g := range m.Groups {
		m.ImputedCells += g.ImputedCells
	}
	m.Fingerprint = core.ComputeFingerprint(
		m.Seed,
		m.Options.LocUpMNAR, m.Options.MinCS, m.Options.StdFactor, m.Options.NNeighbors,
		m.Limits.DMin, m.Limits.DMax, m.Limits.UpMNAR,
	)
}

// Warn appends a non-fatal warning to the manifest.
func (m *RunManifest) Warn(msg string) {
	m.Warnings = append(m.Warnings, msg)
}
