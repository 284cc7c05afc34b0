package impute

import (
	"errors"
	"testing"

	"goimpute/domain/core"
	"goimpute/domain/matrix"
)

func testMatrix(t *testing.T, values [][]float64, cols []string) *matrix.Matrix {
	t.Helper()
	ids := make([]string, len(values))
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	m, err := matrix.New(ids, cols, values)
	if err != nil {
		t.Fatalf("matrix.New: %v", err)
	}
	return m
}

func TestEstimateLimits(t *testing.T) {
	m := testMatrix(t, [][]float64{
		{2, 10, nan()},
		{5, 22, 7},
	}, []string{"s1", "s2", "s3"})
	groups := matrix.GroupAssignment{{Name: "g", Columns: []string{"s1", "s2", "s3"}}}

	limits, err := EstimateLimits(m, groups, 0.1)
	if err != nil {
		t.Fatalf("EstimateLimits: %v", err)
	}
	if limits.DMin != 2 || limits.DMax != 22 {
		t.Errorf("limits = %+v, want d_min=2 d_max=22", limits)
	}
	// d_min + 0.1 * (22 - 2) = 4.0
	if limits.UpMNAR != 4.0 {
		t.Errorf("up_mnar = %g, want 4.0", limits.UpMNAR)
	}
	if limits.Degenerate() {
		t.Error("limits should not be degenerate")
	}
}

func TestEstimateLimits_IgnoresUnassignedColumns(t *testing.T) {
	m := testMatrix(t, [][]float64{
		{2, 22, 1000},
	}, []string{"s1", "s2", "extra"})
	groups := matrix.GroupAssignment{{Name: "g", Columns: []string{"s1", "s2"}}}

	limits, err := EstimateLimits(m, groups, 0.5)
	if err != nil {
		t.Fatalf("EstimateLimits: %v", err)
	}
	if limits.DMax != 22 {
		t.Errorf("d_max = %g, want 22 (unassigned column must be excluded)", limits.DMax)
	}
}

func TestEstimateLimits_AllMissing(t *testing.T) {
	m := testMatrix(t, [][]float64{
		{nan(), nan()},
	}, []string{"s1", "s2"})
	groups := matrix.GroupAssignment{{Name: "g", Columns: []string{"s1", "s2"}}}

	_, err := EstimateLimits(m, groups, 0.1)
	if !errors.Is(err, core.ErrAllMissing) {
		t.Errorf("err = %v, want ErrAllMissing", err)
	}
}

func TestOptions_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults valid", func(o *Options) {}, false},
		{"loc_up_mnar negative", func(o *Options) { o.LocUpMNAR = -0.1 }, true},
		{"loc_up_mnar above one", func(o *Options) { o.LocUpMNAR = 1.5 }, true},
		{"min_cs above one", func(o *Options) { o.MinCS = 1.1 }, true},
		{"std_factor zero", func(o *Options) { o.StdFactor = 0 }, true},
		{"neighbors zero", func(o *Options) { o.NNeighbors = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			tc.mutate(&opts)
			err := opts.Validate()
			if tc.wantErr && !core.IsConfigurationError(err) {
				t.Errorf("err = %v, want configuration error", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
