package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/daypatu/ers-pymatching/pkg/blossom"
)

type resultFile struct {
	Graph   string      `json:"graph,omitempty"`
	Results []resultRec `json:"results"`
}

type resultRec struct {
	Pairs       []pairRec `json:"pairs"`
	Observables []int     `json:"observables,omitempty"`
	Weight      int64     `json:"weight"`
}

type pairRec struct {
	Source1     int   `json:"source1"`
	Source2     int   `json:"source2"`
	Observables []int `json:"observables,omitempty"`
}

// WriteResults encodes one matching per shot as JSON. graphName may be
// empty. A source2 of -1 in the output marks a pair matched against the
// boundary.
func WriteResults(results []blossom.Matching, graphName string, w io.Writer) error {
	out := resultFile{
		Graph:   graphName,
		Results: make([]resultRec, len(results)),
	}
	for i, m := range results {
		rec := resultRec{
			Observables: observablesList(m.Observables),
			Weight:      m.Weight,
		}
		for _, p := range m.Pairs {
			rec.Pairs = append(rec.Pairs, pairRec{
				Source1:     p.Source1,
				Source2:     p.Source2,
				Observables: observablesList(p.Observables),
			})
		}
		out.Results[i] = rec
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportResults writes a JSON result file at path.
func ExportResults(results []blossom.Matching, graphName, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteResults(results, graphName, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// ReadResults decodes a JSON result file written by [WriteResults].
// Stats are not serialized and come back zero.
func ReadResults(r io.Reader) ([]blossom.Matching, string, error) {
	var data resultFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}

	results := make([]blossom.Matching, len(data.Results))
	for i, rec := range data.Results {
		mask, err := observablesMask(rec.Observables)
		if err != nil {
			return nil, "", fmt.Errorf("result %d: %w", i, err)
		}
		m := blossom.Matching{Observables: mask, Weight: rec.Weight}
		for j, p := range rec.Pairs {
			pm, err := observablesMask(p.Observables)
			if err != nil {
				return nil, "", fmt.Errorf("result %d pair %d: %w", i, j, err)
			}
			m.Pairs = append(m.Pairs, blossom.Pair{
				Source1:     p.Source1,
				Source2:     p.Source2,
				Observables: pm,
			})
		}
		results[i] = m
	}
	return results, data.Graph, nil
}
