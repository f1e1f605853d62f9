package grid

import "math"

// Bracket is the pair of adjacent indices enclosing a coordinate on one axis.
// Lower equals Upper when the coordinate sits exactly on the origin line.
type Bracket struct {
	Lower int
	Upper int
}

// Exact reports whether the bracket is degenerate and needs no interpolation.
func (b Bracket) Exact() bool {
	return b.Lower == b.Upper
}

// Indexer maps between degrees and grid indices.
//
// The mapping stretches the index range linearly across [origin, ceiling]
// rather than stepping by the cell delta; results must match that formula bit
// for bit.
type Indexer struct {
	meta Metadata
}

// NewIndexer returns an Indexer for the given grid geometry.
func NewIndexer(meta Metadata) Indexer {
	return Indexer{meta: meta}
}

// IndexToDegree returns the coordinate of index on axis.
func (ix Indexer) IndexToDegree(axis Axis, index int) (float64, error) {
	dim := ix.meta.dimension(axis)
	if index < 0 || index >= dim {
		return 0, &OutOfRangeError{Axis: axis, Value: float64(index), Index: true, Max: float64(dim)}
	}

	origin := ix.meta.origin(axis)
	if dim == 1 {
		return origin, nil
	}

	return origin + float64(index)*(ix.meta.ceiling(axis)-origin)/float64(dim-1), nil
}

// DegreeToBracket resolves the indices enclosing value on axis.
func (ix Indexer) DegreeToBracket(axis Axis, value float64) (Bracket, error) {
	origin, ceiling, dim := ix.meta.origin(axis), ix.meta.ceiling(axis), ix.meta.dimension(axis)
	if math.IsNaN(value) || value < origin || value > ceiling {
		return Bracket{}, &OutOfRangeError{Axis: axis, Value: value, Min: origin, Max: ceiling}
	}

	lower := int(((value - origin) / (ceiling - origin)) * float64(dim-1))
	if value-origin > 0 {
		upper := lower + 1
		if upper >= dim {
			return Bracket{}, &OutOfRangeError{Axis: axis, Value: float64(upper), Index: true, Max: float64(dim)}
		}
		return Bracket{Lower: lower, Upper: upper}, nil
	}

	return Bracket{Lower: lower, Upper: lower}, nil
}
