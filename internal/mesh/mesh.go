// Package mesh loads digital elevation meshes published as GSI fundamental
// geospatial data (FGD) GML documents and exposes them as grid sources.
package mesh

import (
	"math"

	"github.com/UnknownOlympus/geoheight/internal/grid"
	"github.com/UnknownOlympus/geoheight/internal/models"
)

// NoDataValue marks cells without a measurement. Heights are present only
// when strictly greater than it.
const NoDataValue = -9999.0

// Mesh is a parsed elevation mesh. Heights and Tags are in scan order as
// listed by the document. It satisfies grid.Source and is read-only after
// parsing.
type Mesh struct {
	Name         string
	Description  string
	MeshID       string
	Type         string
	SequenceRule string
	UOM          string

	// Lower, Upper, Low and High are (x, y) pairs after axis order resolution.
	Lower     [2]float64
	Upper     [2]float64
	Low       [2]int
	High      [2]int
	AxisOrder AxisOrder
	Order     Order

	Tags    []string
	Heights []float64

	coords []XY
	meta   grid.Metadata
}

// Metadata returns the mesh geometry with x as longitude and y as latitude.
func (m *Mesh) Metadata() grid.Metadata {
	return m.meta
}

// Sample returns the height at (row, col) counted from the minimum corner,
// whatever the scan direction of the document.
func (m *Mesh) Sample(row, col int) float64 {
	return m.Heights[m.scanIndex(row, col)]
}

// IsNoData applies the mesh's NO-DATA predicate.
func (m *Mesh) IsNoData(v float64) bool {
	return m.meta.NoData.IsNoData(v)
}

// Coordinates returns the generated coordinate of every cell in scan order.
func (m *Mesh) Coordinates() []XY {
	return m.coords
}

// Points returns every cell that carries a measurement, in scan order, tagged
// with its category.
func (m *Mesh) Points() []models.Point {
	points := make([]models.Point, 0, len(m.Heights))
	for i, z := range m.Heights {
		if m.IsNoData(z) {
			continue
		}
		points = append(points, m.point(i))
	}

	return points
}

// Records returns every cell in scan order, NO-DATA cells included.
func (m *Mesh) Records() []models.Point {
	records := make([]models.Point, len(m.Heights))
	for i := range m.Heights {
		records[i] = m.point(i)
	}

	return records
}

func (m *Mesh) point(i int) models.Point {
	return models.Point{Lon: m.coords[i].X, Lat: m.coords[i].Y, Height: m.Heights[i], Tag: m.Tags[i]}
}

func (m *Mesh) scanIndex(row, col int) int {
	if m.Order.X < 0 {
		col = m.meta.Cols - 1 - col
	}
	if m.Order.Y < 0 {
		row = m.meta.Rows - 1 - row
	}

	return row*m.meta.Cols + col
}

func (m *Mesh) buildMetadata(noData grid.NoData) {
	cols := abs(m.High[0]-m.Low[0]) + 1
	rows := abs(m.High[1]-m.Low[1]) + 1
	minX, maxX := math.Min(m.Lower[0], m.Upper[0]), math.Max(m.Lower[0], m.Upper[0])
	minY, maxY := math.Min(m.Lower[1], m.Upper[1]), math.Max(m.Lower[1], m.Upper[1])

	m.meta = grid.Metadata{
		OriginLat:   minY,
		OriginLon:   minX,
		DeltaLat:    (maxY - minY) / float64(max(rows-1, 1)),
		DeltaLon:    (maxX - minX) / float64(max(cols-1, 1)),
		Rows:        rows,
		Cols:        cols,
		MaxLat:      maxY,
		MaxLon:      maxX,
		NoData:      noData,
		Orientation: grid.Orientation{Lat: m.Order.Y, Lon: m.Order.X},
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
