package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/geoheight/internal/geoid"
	"github.com/UnknownOlympus/geoheight/internal/grid"
	"github.com/UnknownOlympus/geoheight/internal/mesh"
	"github.com/UnknownOlympus/geoheight/internal/metrics"
)

// Grid kinds understood by LoadSource.
const (
	KindGeoid = "geoid"
	KindMesh  = "mesh"
)

// LoadSource parses the grid at path. Geoid files are read as the GSIGEO2011
// product. The load time and sample counts are recorded in m.
func LoadSource(log *slog.Logger, m *metrics.Metrics, kind, path string) (grid.Source, error) {
	start := time.Now()

	var (
		src grid.Source
		err error
	)
	switch kind {
	case KindGeoid:
		src, err = geoid.Load(path, geoid.GSIGEO2011)
	case KindMesh:
		src, err = mesh.Load(path)
	default:
		return nil, fmt.Errorf("unsupported grid kind: %s", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s grid: %w", kind, err)
	}
	m.GridLoad.Observe(time.Since(start).Seconds())

	meta := src.Metadata()
	stats := grid.Summarize(src)
	m.GridSamples.WithLabelValues("valid").Set(float64(stats.Valid))
	m.GridSamples.WithLabelValues("nodata").Set(float64(stats.NoData))

	log.Info("Grid loaded",
		"kind", kind,
		"path", path,
		"rows", meta.Rows,
		"cols", meta.Cols,
		"origin", fmt.Sprintf("%v,%v", meta.OriginLat, meta.OriginLon),
		"ceiling", fmt.Sprintf("%v,%v", meta.MaxLat, meta.MaxLon),
		"valid", stats.Valid,
		"nodata", stats.NoData,
		"min", stats.Min,
		"max", stats.Max,
		"duration", time.Since(start),
	)

	return src, nil
}
