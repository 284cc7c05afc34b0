package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"goimpute/adapters/excel"
	"goimpute/adapters/postgres"
	"goimpute/adapters/rng"
	"goimpute/app"
	"goimpute/domain/impute"
	"goimpute/internal"
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "goimpute",
		Short: "Conditional imputation of missing values in omics intensity tables",
	}

	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		input        string
		output       string
		idColumn     string
		intensityTag string
		groupList    string
		seed         int64
		locUpMNAR    float64
		minCS        float64
		stdFactor    float64
		nNeighbors   int
		persist      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify missing values and impute where confidence clears the threshold",
		Long: `Run the four-stage conditional imputation pipeline on a CSV or Excel
intensity table and write the annotated result as CSV.

Example: goimpute run --input lfq.xlsx --groups A,B,C --output imputed.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups := splitGroups(groupList)
			if len(groups) == 0 {
				return fmt.Errorf("at least one group is required (--groups)")
			}

			opts := impute.Options{
				LocUpMNAR:  locUpMNAR,
				MinCS:      minCS,
				StdFactor:  stdFactor,
				NNeighbors: nNeighbors,
				Seed:       seed,
			}
			return runImputation(cmd.Context(), input, output, idColumn, intensityTag, groups, opts, persist)
		},
	}

	defaults := impute.DefaultOptions()
	cmd.Flags().StringVar(&input, "input", "", "Input table (.csv or .xlsx)")
	cmd.Flags().StringVar(&output, "output", "imputed.csv", "Output CSV path")
	cmd.Flags().StringVar(&idColumn, "id-column", "Protein IDs", "Feature ID column name")
	cmd.Flags().StringVar(&intensityTag, "intensity-tag", "log2 LFQ", "Substring marking intensity columns")
	cmd.Flags().StringVar(&groupList, "groups", "", "Comma-separated experimental group names")
	cmd.Flags().Int64Var(&seed, "seed", defaults.Seed, "Random seed for deterministic fills")
	cmd.Flags().Float64Var(&locUpMNAR, "loc-up-mnar", defaults.LocUpMNAR, "MNAR boundary location within detection range [0,1]")
	cmd.Flags().Float64Var(&minCS, "min-cs", defaults.MinCS, "Confidence score threshold [0,1]")
	cmd.Flags().Float64Var(&stdFactor, "std-factor", defaults.StdFactor, "Spread factor for the left-censored fill")
	cmd.Flags().IntVar(&nNeighbors, "neighbors", defaults.NNeighbors, "Donor count for neighbor fills")
	cmd.Flags().BoolVar(&persist, "persist", false, "Store the run in Postgres (DATABASE_URL)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("groups")

	return cmd
}

func runImputation(ctx context.Context, input, output, idColumn, intensityTag string, groupNames []string, opts impute.Options, persist bool) error {
	logger := internal.NewDefaultLogger()

	reader := excel.NewDataReader(input, idColumn, intensityTag)
	m, err := reader.ReadMatrix(ctx)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	groups, err := excel.MatchGroups(m.Columns, intensityTag, groupNames)
	if err != nil {
		return err
	}

	service := app.NewImputeService(rng.NewAdapter(), logger)
	result, err := service.Run(ctx, m, groups, opts)
	if err != nil {
		return err
	}

	for _, w := range result.Manifest.Warnings {
		logger.Warn("%s", w)
	}

	if err := writeCSV(output, result.Table.Records(idColumn)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("wrote %s (run %s, %d cells imputed)", output, result.Manifest.RunID, result.Manifest.ImputedCells)

	if persist {
		return persistRun(ctx, result, logger)
	}
	return nil
}

func persistRun(ctx context.Context, result *impute.Result, logger *internal.Logger) error {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return fmt.Errorf("--persist requires DATABASE_URL")
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}
	if err := postgres.NewRunRepository(db).SaveRun(ctx, result); err != nil {
		return err
	}
	logger.Info("persisted run %s", result.Manifest.RunID)
	return nil
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func splitGroups(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
