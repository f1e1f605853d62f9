package grid

import (
	"errors"
	"fmt"
	"math"
)

// Axis selects the latitude or longitude dimension of a grid.
type Axis int

const (
	Latitude Axis = iota
	Longitude
)

func (a Axis) String() string {
	switch a {
	case Latitude:
		return "latitude"
	case Longitude:
		return "longitude"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Orientation tells whether index growth along each axis follows increasing (+1)
// or decreasing (-1) degrees in the source file.
type Orientation struct {
	Lat int
	Lon int
}

// Ascending is the orientation of grids stored from the origin corner outwards.
var Ascending = Orientation{Lat: 1, Lon: 1}

// NoData is the data-absence predicate of one source family. The comparison
// direction differs between families and must not be normalised.
type NoData struct {
	Sentinel float64
	Above    bool // Above means a value is present only if strictly greater than Sentinel.
}

// PresentBelow returns a predicate where a value is present only if it is
// strictly less than sentinel.
func PresentBelow(sentinel float64) NoData {
	return NoData{Sentinel: sentinel}
}

// PresentAbove returns a predicate where a value is present only if it is
// strictly greater than sentinel.
func PresentAbove(sentinel float64) NoData {
	return NoData{Sentinel: sentinel, Above: true}
}

// IsNoData reports whether v carries no real measurement. NaN is never present.
func (n NoData) IsNoData(v float64) bool {
	if n.Above {
		return !(v > n.Sentinel)
	}

	return !(v < n.Sentinel)
}

// Metadata describes the geometry of a regular grid.
//
// MaxLat and MaxLon are the domain ceiling used by the index mapping. They are
// not necessarily the coordinate of the last sample.
type Metadata struct {
	OriginLat   float64
	OriginLon   float64
	DeltaLat    float64
	DeltaLon    float64
	Rows        int
	Cols        int
	MaxLat      float64
	MaxLon      float64
	NoData      NoData
	Orientation Orientation
}

// Validate checks the invariants the index mapping depends on.
func (m Metadata) Validate() error {
	if m.Rows < 1 || m.Cols < 1 {
		return fmt.Errorf("grid dimensions %dx%d must be at least 1x1", m.Rows, m.Cols)
	}
	for _, v := range []float64{m.OriginLat, m.OriginLon, m.MaxLat, m.MaxLon, m.DeltaLat, m.DeltaLon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("grid metadata contains a non-finite value")
		}
	}
	if !(m.MaxLat > m.OriginLat) {
		return fmt.Errorf("latitude ceiling %v must be greater than origin %v", m.MaxLat, m.OriginLat)
	}
	if !(m.MaxLon > m.OriginLon) {
		return fmt.Errorf("longitude ceiling %v must be greater than origin %v", m.MaxLon, m.OriginLon)
	}

	return nil
}

func (m Metadata) origin(axis Axis) float64 {
	if axis == Latitude {
		return m.OriginLat
	}
	return m.OriginLon
}

func (m Metadata) ceiling(axis Axis) float64 {
	if axis == Latitude {
		return m.MaxLat
	}
	return m.MaxLon
}

func (m Metadata) dimension(axis Axis) int {
	if axis == Latitude {
		return m.Rows
	}
	return m.Cols
}
