package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/daypatu/ers-pymatching/pkg/decode"
	"github.com/daypatu/ers-pymatching/pkg/store"
)

const chainGraphJSON = `{
	"name": "chain",
	"num_nodes": 3,
	"edges": [
		{"u": 0, "v": 1, "weight": 2, "observables": [0]},
		{"u": 1, "v": 2, "weight": 3, "observables": [1]}
	],
	"boundary_edges": [
		{"node": 2, "weight": 4, "observables": [2]}
	]
}`

func quietLogger() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}

func testServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	return NewServer(Config{
		Runner: decode.NewRunner(nil, nil, quietLogger()),
		Store:  st,
		Logger: quietLogger(),
	})
}

func postDecode(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/decode", strings.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := testServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("body = %s, want ok status", w.Body.String())
	}
}

func TestDecodeEndpoint(t *testing.T) {
	s := testServer(t, nil)
	body := `{"graph": ` + chainGraphJSON + `, "shots": [{"detectors": [0, 2]}, {"bits": "110"}]}`
	w := postDecode(t, s, body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp decodeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.GraphName != "chain" {
		t.Errorf("GraphName = %q, want %q", resp.GraphName, "chain")
	}
	if resp.GraphHash == "" {
		t.Error("GraphHash is empty")
	}
	if len(resp.Matchings) != 2 {
		t.Fatalf("len(Matchings) = %d, want 2", len(resp.Matchings))
	}
	// {0,2} pairs through the chain at weight 5
	if resp.Matchings[0].Weight != 5 {
		t.Errorf("Matchings[0].Weight = %d, want 5", resp.Matchings[0].Weight)
	}
	// "110" lights {0,1}, pairing at weight 2
	if resp.Matchings[1].Weight != 2 {
		t.Errorf("Matchings[1].Weight = %d, want 2", resp.Matchings[1].Weight)
	}
	if resp.Stats.Shots != 2 {
		t.Errorf("Stats.Shots = %d, want 2", resp.Stats.Shots)
	}
	if resp.RunID != "" {
		t.Errorf("RunID = %q, want empty without save", resp.RunID)
	}
}

func TestDecodeEndpointErrors(t *testing.T) {
	s := testServer(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantErr    string
	}{
		{
			name:       "malformed body",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid request body",
		},
		{
			name:       "missing graph",
			body:       `{"shots": []}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "missing graph",
		},
		{
			name:       "bad graph",
			body:       `{"graph": {"num_nodes": 2, "edges": [{"u": 0, "v": 9, "weight": 1}]}, "shots": []}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid graph",
		},
		{
			name:       "bad shot",
			body:       `{"graph": ` + chainGraphJSON + `, "shots": [{"detectors": [99]}]}`,
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid shots",
		},
		{
			name:       "odd syndrome without boundary",
			body:       `{"graph": {"num_nodes": 2, "edges": [{"u": 0, "v": 1, "weight": 1}]}, "shots": [{"detectors": [0]}]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantErr:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postDecode(t, s, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantErr != "" && !strings.Contains(w.Body.String(), tt.wantErr) {
				t.Errorf("body = %s, want substring %q", w.Body.String(), tt.wantErr)
			}
		})
	}
}

func TestDecodeSaveAndRuns(t *testing.T) {
	st := store.NewMemoryStore()
	s := testServer(t, st)

	body := `{"graph": ` + chainGraphJSON + `, "shots": [{"detectors": [0, 1]}], "save": true}`
	w := postDecode(t, s, body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp decodeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RunID == "" {
		t.Fatal("RunID is empty after save")
	}

	// The saved run is retrievable
	req := httptest.NewRequest(http.MethodGet, "/v1/runs/"+resp.RunID, nil)
	rw := httptest.NewRecorder()
	s.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("GET run status = %d: %s", rw.Code, rw.Body.String())
	}
	var run store.Run
	if err := json.Unmarshal(rw.Body.Bytes(), &run); err != nil {
		t.Fatal(err)
	}
	if run.GraphName != "chain" || run.Shots != 1 || run.TotalWeight != 2 {
		t.Errorf("run = %+v, want chain run with 1 shot weight 2", run)
	}

	// Listing includes it
	req = httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	rw = httptest.NewRecorder()
	s.ServeHTTP(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("list status = %d", rw.Code)
	}
	if !strings.Contains(rw.Body.String(), resp.RunID) {
		t.Errorf("list body missing run ID: %s", rw.Body.String())
	}

	// Delete, then 404
	req = httptest.NewRequest(http.MethodDelete, "/v1/runs/"+resp.RunID, nil)
	rw = httptest.NewRecorder()
	s.ServeHTTP(rw, req)
	if rw.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rw.Code)
	}
	req = httptest.NewRequest(http.MethodGet, "/v1/runs/"+resp.RunID, nil)
	rw = httptest.NewRecorder()
	s.ServeHTTP(rw, req)
	if rw.Code != http.StatusNotFound {
		t.Errorf("GET deleted run status = %d, want %d", rw.Code, http.StatusNotFound)
	}
}

func TestRunsEndpointsAbsentWithoutStore(t *testing.T) {
	s := testServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGracefulShutdown(t *testing.T) {
	s := testServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx, "127.0.0.1:0")
	}()
	cancel()
	if err := <-done; err != nil && err != http.ErrServerClosed {
		t.Errorf("ListenAndServe() error = %v", err)
	}
}
