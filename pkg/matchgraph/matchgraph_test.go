package matchgraph

import (
	"errors"
	"testing"
)

func TestAddEdge(t *testing.T) {
	tests := []struct {
		name    string
		build   func(g *Graph) error
		wantErr error
	}{
		{
			name:    "Valid",
			build:   func(g *Graph) error { return g.AddEdge(0, 1, 10, 0b1) },
			wantErr: nil,
		},
		{
			name:    "NodeOutOfRange",
			build:   func(g *Graph) error { return g.AddEdge(0, 5, 10, 0) },
			wantErr: ErrNodeOutOfRange,
		},
		{
			name:    "NegativeNode",
			build:   func(g *Graph) error { return g.AddEdge(-1, 1, 10, 0) },
			wantErr: ErrNodeOutOfRange,
		},
		{
			name:    "SelfLoop",
			build:   func(g *Graph) error { return g.AddEdge(2, 2, 10, 0) },
			wantErr: ErrSelfLoop,
		},
		{
			name:    "NegativeWeight",
			build:   func(g *Graph) error { return g.AddEdge(0, 1, -3, 0) },
			wantErr: ErrNegativeWeight,
		},
		{
			name: "DuplicateEdge",
			build: func(g *Graph) error {
				if err := g.AddEdge(0, 1, 10, 0); err != nil {
					return err
				}
				return g.AddEdge(1, 0, 4, 0)
			},
			wantErr: ErrDuplicateEdge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(3)
			err := tt.build(g)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddBoundaryEdge(t *testing.T) {
	g := New(2)
	if err := g.AddBoundaryEdge(0, 5, 0b10); err != nil {
		t.Fatalf("AddBoundaryEdge: %v", err)
	}
	if !g.HasBoundaryEdge(0) {
		t.Error("HasBoundaryEdge(0) = false, want true")
	}
	if g.HasBoundaryEdge(1) {
		t.Error("HasBoundaryEdge(1) = true, want false")
	}
	if err := g.AddBoundaryEdge(0, 7, 0); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("second boundary edge: err = %v, want ErrDuplicateEdge", err)
	}
	if err := g.AddBoundaryEdge(9, 5, 0); !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("out of range: err = %v, want ErrNodeOutOfRange", err)
	}
}

func TestNumObservables(t *testing.T) {
	g := New(3)
	if got := g.NumObservables(); got != 0 {
		t.Errorf("empty graph: NumObservables = %d, want 0", got)
	}
	_ = g.AddEdge(0, 1, 1, 0b1)
	_ = g.AddEdge(1, 2, 1, 0b100)
	_ = g.AddBoundaryEdge(2, 1, 0b10)
	if got := g.NumObservables(); got != 3 {
		t.Errorf("NumObservables = %d, want 3", got)
	}
}

func TestValidateSyndrome(t *testing.T) {
	g := New(4)
	tests := []struct {
		name    string
		events  []int
		wantErr error
	}{
		{"Empty", nil, nil},
		{"Valid", []int{0, 2, 3}, nil},
		{"OutOfRange", []int{0, 4}, ErrNodeOutOfRange},
		{"Negative", []int{-1}, ErrNodeOutOfRange},
		{"Duplicate", []int{1, 2, 1}, ErrDuplicateDetection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.ValidateSyndrome(tt.events); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
