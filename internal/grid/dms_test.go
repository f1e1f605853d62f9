package grid_test

import (
	"testing"

	"github.com/UnknownOlympus/geoheight/internal/grid"
	"github.com/stretchr/testify/assert"
)

func TestToDMS(t *testing.T) {
	t.Parallel()

	d, m, s := grid.ToDMS(127.852778)
	assert.Equal(t, 127, d)
	assert.Equal(t, 51, m)
	assert.InDelta(t, 10.0, s, 1e-2)

	// Truncation, not rounding, keeps the minute at 34.
	d, m, s = grid.ToDMS(26.583333)
	assert.Equal(t, 26, d)
	assert.Equal(t, 34, m)
	assert.InDelta(t, 59.999, s, 1e-2)
}

func TestToDegrees(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 35.65788355, grid.ToDegrees(35, 39, 28.3808), 1e-8)
	assert.InDelta(t, 139.74216577, grid.ToDegrees(139, 44, 31.7968), 1e-8)
}

func TestDMSRoundTrip(t *testing.T) {
	t.Parallel()

	for _, x := range []float64{0, 20, 26.583333, 33.1781, 35.65788355, 127.852778, 139.74216577, 149.999} {
		d, m, s := grid.ToDMS(x)
		assert.InDelta(t, x, grid.ToDegrees(d, m, s), 1e-4, "x=%v", x)
	}
}
