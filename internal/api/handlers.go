package api

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daypatu/ers-pymatching/pkg/blossom"
	"github.com/daypatu/ers-pymatching/pkg/decode"
	"github.com/daypatu/ers-pymatching/pkg/errors"
	graphio "github.com/daypatu/ers-pymatching/pkg/io"
	"github.com/daypatu/ers-pymatching/pkg/matchgraph"
	"github.com/daypatu/ers-pymatching/pkg/store"
)

// decodeRequest is the POST /v1/decode body. Graph uses the detector
// graph JSON format of the io package.
type decodeRequest struct {
	Graph     json.RawMessage `json:"graph"`
	Shots     []graphio.Shot  `json:"shots"`
	MaxGrowth int64           `json:"max_growth,omitempty"`
	Refresh   bool            `json:"refresh,omitempty"`

	// Save archives the run when a store is configured.
	Save bool `json:"save,omitempty"`
}

type decodeResponse struct {
	GraphName string            `json:"graph_name,omitempty"`
	GraphHash string            `json:"graph_hash"`
	Matchings []blossom.Matching `json:"matchings"`
	Stats     decode.BatchStats `json:"stats"`
	RunID     string            `json:"run_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Graph) == 0 {
		writeError(w, http.StatusBadRequest, "missing graph")
		return
	}

	g, name, err := graphio.ReadGraph(bytes.NewReader(req.Graph))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid graph: "+err.Error())
		return
	}
	shots, err := graphio.DecodeShots(req.Shots, g.NumNodes())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid shots: "+err.Error())
		return
	}
	hash, err := decode.GraphHash(g, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := decode.Options{MaxGrowth: req.MaxGrowth, Refresh: req.Refresh}
	batch, err := s.runner.DecodeBatch(r.Context(), g, hash, shots, opts)
	if err != nil {
		writeError(w, statusFor(err), errors.UserMessage(err))
		return
	}

	resp := decodeResponse{
		GraphName: name,
		GraphHash: hash,
		Matchings: batch.Matchings,
		Stats:     batch.Stats,
	}
	if req.Save && s.store != nil {
		run := &store.Run{
			GraphName:   name,
			GraphHash:   hash,
			Shots:       batch.Stats.Shots,
			CacheHits:   batch.Stats.CacheHits,
			TotalWeight: batch.Stats.TotalWeight,
			MaxGrowth:   req.MaxGrowth,
			Duration:    batch.Stats.Duration,
		}
		id, err := s.store.SaveRun(r.Context(), run)
		if err != nil {
			s.logger.Error("archive run", "err", err)
		} else {
			resp.RunID = id
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context(), 100)
	if err != nil {
		writeError(w, statusFor(err), errors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), errors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, statusFor(err), errors.UserMessage(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps service error codes to HTTP status codes.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, blossom.ErrGrowthBudgetExceeded),
		stderrors.Is(err, blossom.ErrIncompleteMatching):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, matchgraph.ErrNodeOutOfRange),
		stderrors.Is(err, matchgraph.ErrDuplicateDetection):
		return http.StatusBadRequest
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidSyndrome, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeRunNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeBudgetExceeded, errors.ErrCodeUnmatchable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
