package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"goimpute/domain/core"
	"goimpute/domain/impute"
	"goimpute/domain/matrix"
)

// imputeRequest is the JSON body of POST /v1/impute. Missing cells are
// encoded as null.
type imputeRequest struct {
	FeatureIDs []string     `json:"feature_ids"`
	Columns    []string     `json:"columns"`
	Values     [][]*float64 `json:"values"`
	Groups     []groupDTO   `json:"groups"`
	Options    *optionsDTO  `json:"options,omitempty"`
	Persist    bool         `json:"persist,omitempty"`
}

type groupDTO struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// optionsDTO overrides individual defaults; omitted fields keep them.
type optionsDTO struct {
	LocUpMNAR  *float64 `json:"loc_up_mnar,omitempty"`
	MinCS      *float64 `json:"min_cs,omitempty"`
	StdFactor  *float64 `json:"std_factor,omitempty"`
	NNeighbors *int     `json:"n_neighbors,omitempty"`
	Seed       *int64   `json:"seed,omitempty"`
}

type imputeResponse struct {
	Manifest *impute.RunManifest `json:"manifest"`
	Header   []string            `json:"header"`
	Records  [][]string          `json:"records"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleImpute(w http.ResponseWriter, r *http.Request) {
	var req imputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	m, groups, opts, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.service.Run(r.Context(), m, groups, opts)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	if req.Persist && a.runs != nil {
		if err := a.runs.SaveRun(r.Context(), result); err != nil {
			a.logger.Error("failed to persist run %s: %v", result.Manifest.RunID, err)
			writeError(w, http.StatusInternalServerError, "run completed but persistence failed")
			return
		}
	}

	records := result.Table.Records("feature_id")
	writeJSON(w, http.StatusOK, imputeResponse{
		Manifest: result.Manifest,
		Header:   records[0],
		Records:  records[1:],
	})
}

func (a *App) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	manifests, err := a.runs.ListManifests(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, manifests)
}

func (a *App) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID, err := core.ParseRunID(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	manifest, err := a.runs.GetManifest(r.Context(), runID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, manifest)
}

// toDomain converts the request into domain types, decoding nulls into
// missing markers.
func (req *imputeRequest) toDomain() (*matrix.Matrix, matrix.GroupAssignment, impute.Options, error) {
	values := make([][]float64, len(req.Values))
	for i, row := range req.Values {
		vals := make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				vals[j] = matrix.Missing()
			} else {
				vals[j] = *v
			}
		}
		values[i] = vals
	}

	m, err := matrix.New(req.FeatureIDs, req.Columns, values)
	if err != nil {
		return nil, nil, impute.Options{}, err
	}

	groups := make(matrix.GroupAssignment, len(req.Groups))
	for i, g := range req.Groups {
		groups[i] = matrix.Group{Name: g.Name, Columns: g.Columns}
	}

	opts := impute.DefaultOptions()
	if o := req.Options; o != nil {
		if o.LocUpMNAR != nil {
			opts.LocUpMNAR = *o.LocUpMNAR
		}
		if o.MinCS != nil {
			opts.MinCS = *o.MinCS
		}
		if o.StdFactor != nil {
			opts.StdFactor = *o.StdFactor
		}
		if o.NNeighbors != nil {
			opts.NNeighbors = *o.NNeighbors
		}
		if o.Seed != nil {
			opts.Seed = *o.Seed
		}
	}
	return m, groups, opts, nil
}

func statusFor(err error) int {
	switch {
	case core.IsConfigurationError(err), core.IsShapeMismatchError(err), core.IsBoundaryError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrRunNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
