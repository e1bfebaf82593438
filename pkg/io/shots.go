package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type shotFile struct {
	Shots []Shot `json:"shots"`
}

// Shot is one syndrome in wire form: either a list of lit detector
// indices or a bit string with one character per detector. Setting both
// is an error.
type Shot struct {
	Detectors []int  `json:"detectors,omitempty"`
	Bits      string `json:"bits,omitempty"`
}

// ReadShots decodes a JSON shot batch from r and returns one detection
// event list per shot. Each shot carries either a "detectors" list of
// lit detector indices or a "bits" string with one character per
// detector, where '1' marks a detection event.
//
// numNodes is the detector count of the graph the shots belong to; bit
// strings must have exactly that length and detector indices must fall
// inside [0, numNodes).
func ReadShots(r io.Reader, numNodes int) ([][]int, error) {
	var data shotFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return DecodeShots(data.Shots, numNodes)
}

// DecodeShots converts wire-form shots to detection event lists,
// validating every index against the graph size.
func DecodeShots(shots []Shot, numNodes int) ([][]int, error) {
	out := make([][]int, 0, len(shots))
	for i, s := range shots {
		events, err := decodeShot(s, numNodes)
		if err != nil {
			return nil, fmt.Errorf("shot %d: %w", i, err)
		}
		out = append(out, events)
	}
	return out, nil
}

func decodeShot(s Shot, numNodes int) ([]int, error) {
	if s.Detectors != nil && s.Bits != "" {
		return nil, fmt.Errorf("has both detectors and bits")
	}
	if s.Bits != "" {
		return parseBits(s.Bits, numNodes)
	}
	for _, d := range s.Detectors {
		if d < 0 || d >= numNodes {
			return nil, fmt.Errorf("detector %d out of range (graph has %d nodes)", d, numNodes)
		}
	}
	// Copy so callers can retain the slice after the decode buffer is
	// reused.
	return append([]int(nil), s.Detectors...), nil
}

func parseBits(bits string, numNodes int) ([]int, error) {
	if len(bits) != numNodes {
		return nil, fmt.Errorf("bit string has %d characters, graph has %d nodes", len(bits), numNodes)
	}
	var events []int
	for i, c := range bits {
		switch c {
		case '1':
			events = append(events, i)
		case '0':
		default:
			return nil, fmt.Errorf("bit string character %q at position %d", c, i)
		}
	}
	return events, nil
}

// ImportShots reads a JSON shot file at path.
func ImportShots(path string, numNodes int) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	shots, err := ReadShots(f, numNodes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return shots, nil
}

// WriteShots encodes shot syndromes as JSON, using the detectors form.
func WriteShots(shots [][]int, w io.Writer) error {
	out := shotFile{Shots: make([]Shot, len(shots))}
	for i, events := range shots {
		out.Shots[i] = Shot{Detectors: events}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
