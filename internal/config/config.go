package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"goimpute/domain/impute"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Data     DataConfig
	Impute   impute.Options
}

// DatabaseConfig holds database connection settings. URL may be empty, in
// which case persistence is disabled.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds input table settings
type DataConfig struct {
	InputFile    string
	IDColumn     string
	IntensityTag string
	Groups       []string
}

// Load reads configuration from environment variables and validates the
// imputation parameters.
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: envOr("PORT", "8080"),
		},
		Data: DataConfig{
			InputFile:    os.Getenv("INPUT_FILE"),
			IDColumn:     envOr("ID_COLUMN", "Protein IDs"),
			IntensityTag: envOr("INTENSITY_TAG", "log2 LFQ"),
			Groups:       splitList(os.Getenv("GROUPS")),
		},
	}

	opts := impute.DefaultOptions()
	var err error
	if opts.LocUpMNAR, err = envFloat("LOC_UP_MNAR", opts.LocUpMNAR); err != nil {
		return nil, err
	}
	if opts.MinCS, err = envFloat("MIN_CS", opts.MinCS); err != nil {
		return nil, err
	}
	if opts.StdFactor, err = envFloat("STD_FACTOR", opts.StdFactor); err != nil {
		return nil, err
	}
	if opts.NNeighbors, err = envInt("N_NEIGHBORS", opts.NNeighbors); err != nil {
		return nil, err
	}
	seed, err := envInt("SEED", int(opts.Seed))
	if err != nil {
		return nil, err
	}
	opts.Seed = int64(seed)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cfg.Impute = opts

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
