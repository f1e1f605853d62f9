package grid

import (
	"math"

	"github.com/UnknownOlympus/geoheight/internal/models"
)

// PointCloud walks src in row-major order and returns every sample that is not
// NO-DATA as a (lon, lat, height) point.
//
// Coordinates use the direct stride origin+index*delta, not the Indexer's
// stretch across the domain ceiling.
func PointCloud(src Source) []models.Point {
	meta := src.Metadata()
	points := make([]models.Point, 0, meta.Rows*meta.Cols)
	for row := range meta.Rows {
		lat := meta.OriginLat + float64(row)*meta.DeltaLat
		for col := range meta.Cols {
			v := src.Sample(row, col)
			if src.IsNoData(v) {
				continue
			}
			points = append(points, models.Point{
				Lon:    meta.OriginLon + float64(col)*meta.DeltaLon,
				Lat:    lat,
				Height: v,
			})
		}
	}

	return points
}

// Stats summarises the samples of a Source.
type Stats struct {
	Valid  int
	NoData int
	Min    float64 // Min is the lowest valid sample, NaN when there is none.
	Max    float64 // Max is the highest valid sample, NaN when there is none.
}

// Summarize counts valid and NO-DATA samples and the range of valid ones.
func Summarize(src Source) Stats {
	meta := src.Metadata()
	st := Stats{Min: math.NaN(), Max: math.NaN()}
	for row := range meta.Rows {
		for col := range meta.Cols {
			v := src.Sample(row, col)
			if src.IsNoData(v) {
				st.NoData++
				continue
			}
			if st.Valid == 0 || v < st.Min {
				st.Min = v
			}
			if st.Valid == 0 || v > st.Max {
				st.Max = v
			}
			st.Valid++
		}
	}

	return st
}
