// Package export writes point clouds to CSV, GeoJSON and ESRI Shapefile.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/UnknownOlympus/geoheight/internal/models"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Formats accepted by Write.
const (
	FormatCSV       = "csv"
	FormatGeoJSON   = "geojson"
	FormatShapefile = "shp"
)

// WriteCSV writes one headerless lon,lat,height row per point, with the
// category tag as a fourth column when withTag is set.
func WriteCSV(w io.Writer, points []models.Point, withTag bool) error {
	cw := csv.NewWriter(w)
	record := make([]string, 3, 4)
	for _, p := range points {
		record = record[:3]
		record[0] = formatFloat(p.Lon)
		record[1] = formatFloat(p.Lat)
		record[2] = formatFloat(p.Height)
		if withTag {
			record = append(record, p.Tag)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return nil
}

// WriteGeoJSON writes a FeatureCollection with one Point feature per point.
// Each feature carries a height property and, for tagged points, a type.
func WriteGeoJSON(w io.Writer, points []models.Point) error {
	fc := geojson.NewFeatureCollection()
	for _, p := range points {
		f := geojson.NewFeature(orb.Point{p.Lon, p.Lat})
		f.Properties["height"] = p.Height
		if p.Tag != "" {
			f.Properties["type"] = p.Tag
		}
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal geojson: %w", err)
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("failed to write geojson: %w", err)
	}

	return nil
}

// shpRecord is the attribute layout of exported shapefiles.
type shpRecord struct {
	Point  geom.Point
	Height float64
	Type   string
}

// WriteShapefile writes a point shapefile at path (with its .shx and .dbf
// siblings).
func WriteShapefile(path string, points []models.Point) error {
	enc, err := shp.NewEncoder(path, shpRecord{})
	if err != nil {
		return fmt.Errorf("failed to create shapefile: %w", err)
	}

	for _, p := range points {
		rec := shpRecord{Point: geom.Point{X: p.Lon, Y: p.Lat}, Height: p.Height, Type: p.Tag}
		if err = enc.Encode(rec); err != nil {
			enc.Close()
			return fmt.Errorf("failed to encode shapefile record: %w", err)
		}
	}
	enc.Close()

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
