package app

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"goimpute/adapters/samplers"
	"goimpute/domain/impute"
	"goimpute/domain/matrix"
	"goimpute/internal"
	"goimpute/ports"
)

// ImputeService orchestrates one conditional imputation run: boundary
// estimation, then per-group classification, scoring, threshold masking and
// class-conditional imputation, then the column-wise merge with aggregate
// confidence annotations.
type ImputeService struct {
	rng    ports.RNGPort
	logger *internal.Logger
}

// NewImputeService creates the orchestrator.
func NewImputeService(rng ports.RNGPort, logger *internal.Logger) *ImputeService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ImputeService{rng: rng, logger: logger}
}

// groupOutcome carries one group's finished sub-matrix and annotations.
type groupOutcome struct {
	sub      *matrix.Matrix
	classes  []impute.MVClass
	scores   []float64
	summary  impute.GroupSummary
	warnings []string
}

// Run executes the full pipeline. The input matrix is never mutated.
// Configuration and shape errors abort before any computation; per-row
// degeneracies surface as manifest warnings.
func (s *ImputeService) Run(ctx context.Context, m *matrix.Matrix, groups matrix.GroupAssignment, opts impute.Options) (*impute.Result, error) {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := groups.Validate(m); err != nil {
		return nil, err
	}

	limits, err := impute.EstimateLimits(m, groups, opts.LocUpMNAR)
	if err != nil {
		return nil, err
	}

	manifest := impute.NewRunManifest(opts, limits)
	if limits.Degenerate() {
		manifest.Warn("up_mnar equals d_min; left-censored fills collapse to constant d_min")
	}
	s.logger.Info("run %s: %d features, %d groups, d_min=%g up_mnar=%g",
		manifest.RunID, m.Rows(), len(groups), limits.DMin, limits.UpMNAR)

	// Groups share only frozen limits and options, so they can run in
	// parallel without locking.
	outcomes := make([]*groupOutcome, len(groups))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, group := range groups {
		eg.Go(func() error {
			out, err := s.processGroup(egCtx, m, group, limits, opts)
			if err != nil {
				return fmt.Errorf("group %q: %w", group.Name, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	table, err := mergeOutcomes(m, groups, outcomes)
	if err != nil {
		return nil, err
	}

	for _, out := range outcomes {
		manifest.Groups = append(manifest.Groups, out.summary)
		for _, w := range out.warnings {
			manifest.Warn(w)
		}
	}
	manifest.Finalize(time.Since(start).Milliseconds())

	s.logger.Info("run %s: imputed %d cells in %dms (%d warnings)",
		manifest.RunID, manifest.ImputedCells, manifest.RuntimeMs, len(manifest.Warnings))

	return &impute.Result{Table: table, Manifest: manifest}, nil
}

// processGroup classifies and scores every feature row of one group, then
// dispatches each class's qualifying rows to its imputer.
func (s *ImputeService) processGroup(ctx context.Context, m *matrix.Matrix, group matrix.Group, limits impute.Limits, opts impute.Options) (*groupOutcome, error) {
	sub, err := m.Select(group.Columns)
	if err != nil {
		return nil, err
	}

	classes := impute.ClassifyGroup(sub, limits.UpMNAR)
	scores := impute.ScoreGroup(sub, classes)

	stream, err := s.rng.GroupStream(ctx, group.Name, opts.Seed)
	if err != nil {
		return nil, err
	}

	imputers := map[impute.MVClass]ports.BlockImputer{
		impute.ClassMNAR: samplers.NewMNARSampler(limits, opts.StdFactor, stream),
		impute.ClassMCAR: samplers.NewKNNImputer(opts.NNeighbors),
	}

	out := &groupOutcome{
		sub:     sub,
		classes: classes,
		scores:  scores,
		summary: impute.GroupSummary{
			Name:        group.Name,
			Samples:     len(group.Columns),
			ClassCounts: make(map[impute.MVClass]int),
		},
	}
	for _, c := range classes {
		out.summary.ClassCounts[c]++
	}

	for _, class := range impute.AllClasses {
		if !class.Imputes() {
			continue
		}
		// Mask: rows of this class whose confidence clears the threshold.
		var rows []int
		for i, c := range classes {
			if c == class && scores[i] >= opts.MinCS {
				rows = append(rows, i)
			}
		}
		if len(rows) == 0 {
			continue
		}

		block := sub.SelectRows(rows)
		missingBefore := block.MissingCount()
		filled, warns, err := imputers[class].Impute(ctx, block)
		if err != nil {
			return nil, fmt.Errorf("%s imputation: %w", class, err)
		}
		out.warnings = append(out.warnings, prefixWarnings(group.Name, warns)...)

		for bi, r := range rows {
			copy(sub.Values[r], filled.Values[bi])
		}
		out.summary.ImputedCells += missingBefore - filled.MissingCount()
	}

	return out, nil
}

// mergeOutcomes concatenates per-group matrices column-wise in group order
// and appends CS_MEAN/CS_STD plus per-group score and label annotations.
func mergeOutcomes(m *matrix.Matrix, groups matrix.GroupAssignment, outcomes []*groupOutcome) (*impute.AnnotatedTable, error) {
	rows := m.Rows()
	table := &impute.AnnotatedTable{
		FeatureIDs:    append([]string(nil), m.FeatureIDs...),
		SampleColumns: groups.AllColumns(),
		Values:        make([][]float64, rows),
		CSMean:        make([]float64, rows),
		CSStd:         make([]float64, rows),
	}

	for r := 0; r < rows; r++ {
		row := make([]float64, 0, len(table.SampleColumns))
		for _, out := range outcomes {
			row = append(row, out.sub.Values[r]...)
		}
		table.Values[r] = row

		perGroup := make([]float64, len(outcomes))
		for g, out := range outcomes {
			perGroup[g] = out.scores[r]
		}
		mean, err := stats.Mean(perGroup)
		if err != nil {
			return nil, err
		}
		std, err := stats.StandardDeviation(perGroup)
		if err != nil {
			return nil, err
		}
		table.CSMean[r] = impute.Round2(mean)
		table.CSStd[r] = impute.Round2(std)
	}

	for g, out := range outcomes {
		table.GroupNames = append(table.GroupNames, groups[g].Name)
		table.GroupScores = append(table.GroupScores, out.scores)
		table.GroupLabels = append(table.GroupLabels, out.classes)
	}
	return table, nil
}

func prefixWarnings(group string, warns []string) []string {
	out := make([]string, len(warns))
	for i, w := range warns {
		out[i] = fmt.Sprintf("group %q: %s", group, w)
	}
	return out
}
