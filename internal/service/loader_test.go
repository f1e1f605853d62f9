package service_test

import (
	"log/slog"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/geoheight/internal/metrics"
	"github.com/UnknownOlympus/geoheight/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallGeoid = `20.00000 120.00000   0.016667   0.025000     2     3   1   ver2.1
 36.6034 36.6100 999.0000
 36.6200 36.6300 36.6400
`

func TestLoadSource(t *testing.T) {
	defer filet.CleanUp(t)
	logger := slog.Default()

	t.Run("success - geoid", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		file := filet.TmpFile(t, "", smallGeoid)

		src, err := service.LoadSource(logger, m, service.KindGeoid, file.Name())

		require.NoError(t, err)
		meta := src.Metadata()
		assert.Equal(t, 2, meta.Rows)
		assert.Equal(t, 3, meta.Cols)
		assert.InDelta(t, 50.0, meta.MaxLat, 0)
		assert.InDelta(t, 5.0, testutil.ToFloat64(m.GridSamples.WithLabelValues("valid")), 0)
		assert.InDelta(t, 1.0, testutil.ToFloat64(m.GridSamples.WithLabelValues("nodata")), 0)
		assert.Equal(t, 1, testutil.CollectAndCount(m.GridLoad))
	})

	t.Run("error - unsupported kind", func(t *testing.T) {
		_, err := service.LoadSource(logger, metrics.NewMetrics(prometheus.NewRegistry()), "raster", "x")

		require.ErrorContains(t, err, "unsupported grid kind: raster")
	})

	t.Run("error - missing file", func(t *testing.T) {
		_, err := service.LoadSource(logger, metrics.NewMetrics(prometheus.NewRegistry()),
			service.KindMesh, "/nonexistent/dem.xml")

		require.ErrorContains(t, err, "failed to load mesh grid")
	})
}
