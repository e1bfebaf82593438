package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/daypatu/ers-pymatching/pkg/blossom"
	"github.com/daypatu/ers-pymatching/pkg/decode"
	"github.com/daypatu/ers-pymatching/pkg/httputil"
	graphio "github.com/daypatu/ers-pymatching/pkg/io"
)

// remoteDecodeRequest is the POST /v1/decode body of the decode service.
type remoteDecodeRequest struct {
	Graph     json.RawMessage `json:"graph"`
	Shots     []graphio.Shot  `json:"shots"`
	MaxGrowth int64           `json:"max_growth,omitempty"`
	Refresh   bool            `json:"refresh,omitempty"`
	Save      bool            `json:"save,omitempty"`
}

type remoteDecodeResponse struct {
	GraphName string             `json:"graph_name,omitempty"`
	GraphHash string             `json:"graph_hash"`
	Matchings []blossom.Matching `json:"matchings"`
	Stats     decode.BatchStats  `json:"stats"`
	RunID     string             `json:"run_id,omitempty"`
}

// remoteDecode posts a graph and a batch of shots to a decode service in
// one request.
func remoteDecode(ctx context.Context, client *httputil.Client, graphData []byte, shots [][]int, opts decode.Options, save bool) (*remoteDecodeResponse, error) {
	req := remoteDecodeRequest{
		Graph:     json.RawMessage(graphData),
		MaxGrowth: opts.MaxGrowth,
		Refresh:   opts.Refresh,
		Save:      save,
	}
	for _, events := range shots {
		req.Shots = append(req.Shots, graphio.Shot{Detectors: events})
	}

	var resp remoteDecodeResponse
	if err := client.PostJSON(ctx, "/v1/decode", req, &resp); err != nil {
		return nil, fmt.Errorf("remote decode: %w", err)
	}
	return &resp, nil
}

// remoteDecodeRun handles "decode --remote": the graph file is parsed
// locally so shots can be validated before anything goes on the wire,
// then graph and shots are shipped to the service together.
func (c *CLI) remoteDecodeRun(ctx context.Context, base, graphPath, shotsPath, syndrome, outPath string, opts decode.Options, save bool) error {
	data, err := os.ReadFile(graphPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", graphPath, err)
	}
	g, name, err := graphio.ReadGraph(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("read %s: %w", graphPath, err)
	}
	shots, err := buildShots(shotsPath, syndrome, g.NumNodes())
	if err != nil {
		return err
	}

	c.Logger.Info("decoding remotely", "service", base, "shots", len(shots))
	resp, err := remoteDecode(ctx, httputil.NewClient(base, nil), data, shots, opts, save)
	if err != nil {
		return err
	}

	batch := &decode.BatchResult{Matchings: resp.Matchings, Stats: resp.Stats}
	if err := c.writeDecodeOutput(batch, nameOr(resp.GraphName, name), outPath); err != nil {
		return err
	}
	if save {
		if resp.RunID != "" {
			printDetail("Run archived as %s", resp.RunID)
		} else {
			printWarning("service has no run archive")
		}
	}
	return nil
}
