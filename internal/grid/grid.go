// Package grid implements a regular-grid height engine: degree/index mapping,
// bilinear interpolation and point cloud extraction over any Source.
package grid

import "fmt"

// Source is the capability shared by every grid family. Row indexes latitude
// and column indexes longitude, both growing from the origin corner.
type Source interface {
	Metadata() Metadata
	Sample(row, col int) float64
	IsNoData(v float64) bool
}

// Grid is a dense row-major Source. It is immutable after New and safe for
// concurrent readers.
type Grid struct {
	meta    Metadata
	samples []float64
}

// New builds a Grid that takes ownership of samples, which must hold
// meta.Rows*meta.Cols values in row-major order.
func New(meta Metadata, samples []float64) (*Grid, error) {
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid metadata: %w", err)
	}
	if want := meta.Rows * meta.Cols; len(samples) != want {
		return nil, fmt.Errorf("got %d samples, %dx%d grid needs %d", len(samples), meta.Rows, meta.Cols, want)
	}

	return &Grid{meta: meta, samples: samples}, nil
}

// Metadata returns the grid geometry.
func (g *Grid) Metadata() Metadata {
	return g.meta
}

// Sample returns the value stored at (row, col). Indices must lie inside the grid.
func (g *Grid) Sample(row, col int) float64 {
	return g.samples[row*g.meta.Cols+col]
}

// IsNoData applies the grid's own NO-DATA predicate.
func (g *Grid) IsNoData(v float64) bool {
	return g.meta.NoData.IsNoData(v)
}
