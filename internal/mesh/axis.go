package mesh

import (
	"fmt"
	"math"
	"slices"
)

// AxisOrder says which grid axis the first label of gml:axisLabels names.
type AxisOrder int

const (
	// ColumnFirst means pairs are already (x, y): column axis first.
	ColumnFirst AxisOrder = iota
	// RowFirst means pairs arrive as (y, x) and are swapped once while parsing.
	RowFirst
)

func (a AxisOrder) String() string {
	if a == RowFirst {
		return "RowFirst"
	}
	return "ColumnFirst"
}

// rowAxisLabel is the axis label of the row (y) axis.
const rowAxisLabel = "y"

func resolveAxisOrder(labels []string) AxisOrder {
	if labels[0] == rowAxisLabel {
		return RowFirst
	}
	return ColumnFirst
}

// Order is the growth direction of the scan along x and y, +1 or -1.
type Order struct {
	X int
	Y int
}

func (o Order) String() string {
	sign := func(v int) string {
		if v < 0 {
			return "-"
		}
		return "+"
	}
	return sign(o.X) + "x" + sign(o.Y) + "y"
}

// ParseOrder reads a gml:sequenceRule order attribute such as "+x-y". Both axes
// must be given exactly once.
func ParseOrder(s string) (Order, error) {
	var o Order
	if len(s)%2 != 0 {
		return Order{}, fmt.Errorf("invalid sequence order %q", s)
	}
	for i := 0; i < len(s); i += 2 {
		var sign int
		switch s[i] {
		case '+':
			sign = 1
		case '-':
			sign = -1
		default:
			return Order{}, fmt.Errorf("invalid sequence order %q", s)
		}

		switch s[i+1] {
		case 'x':
			if o.X != 0 {
				return Order{}, fmt.Errorf("sequence order %q repeats x", s)
			}
			o.X = sign
		case 'y':
			if o.Y != 0 {
				return Order{}, fmt.Errorf("sequence order %q repeats y", s)
			}
			o.Y = sign
		default:
			return Order{}, fmt.Errorf("invalid sequence order %q", s)
		}
	}
	if o.X == 0 || o.Y == 0 {
		return Order{}, fmt.Errorf("sequence order %q must name both x and y", s)
	}

	return o, nil
}

// XY is a mesh coordinate in degrees.
type XY struct {
	X float64
	Y float64
}

// Coordinates lists the coordinate of every mesh cell in scan order. x is the
// inner loop and y the outer loop, each reversed when its order is negative,
// matching the order of the tuple list.
func Coordinates(lower, upper [2]float64, low, high [2]int, order Order) []XY {
	xs := axisCoordinates(lower[0], upper[0], low[0], high[0], order.X)
	ys := axisCoordinates(lower[1], upper[1], low[1], high[1], order.Y)

	coords := make([]XY, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			coords = append(coords, XY{X: x, Y: y})
		}
	}

	return coords
}

// axisCoordinates spaces points+1 values evenly across the corners. The last
// value is the max corner itself so accumulated rounding never moves it. A
// single point axis sits on the min corner.
func axisCoordinates(a, b float64, low, high, order int) []float64 {
	lo, hi := math.Min(a, b), math.Max(a, b)
	points := high - low
	if points < 0 {
		points = -points
	}
	if points == 0 {
		return []float64{lo}
	}
	step := (hi - lo) / float64(points)

	values := make([]float64, 0, points+1)
	for i := range points {
		values = append(values, lo+float64(i)*step)
	}
	values = append(values, hi)

	if order < 0 {
		slices.Reverse(values)
	}

	return values
}
