// Package geoid loads national geoid models distributed as dense ASCII grids.
//
// The first line is a header of eight whitespace separated fields:
//
//	origin_lat origin_lon delta_lat delta_lon rows cols format_id version
//
// followed by rows*cols height values in row-major order, south to north and
// west to east, wrapped over any number of lines.
package geoid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/geoheight/internal/grid"
)

const headerFields = 8

const (
	maxLineBytes = 16 << 20 // maxLineBytes bounds a single line of the file.
	maxPrealloc  = 4 << 20  // maxPrealloc caps sample capacity taken on trust from the header.
)

// Header holds the metadata line of a dense ASCII geoid file as written.
type Header struct {
	OriginLat float64
	OriginLon float64
	DeltaLat  float64
	DeltaLon  float64
	Rows      int
	Cols      int
	FormatID  int
	Version   string
}

// Product carries the per-dataset constants that the file itself does not
// state precisely enough.
type Product struct {
	Name string
	// DeltaLat and DeltaLon replace the header spacing when non-zero.
	DeltaLat float64
	DeltaLon float64
	// MaxLat and MaxLon are the domain ceiling of the index mapping. When zero
	// the ceiling is derived from the header as origin+(n-1)*delta.
	MaxLat float64
	MaxLon float64
	NoData grid.NoData
}

// GSIGEO2011 is the GSI "Japan geoid 2011" model (gsigeo2011_ver2_1.asc). Its
// header spacing is rounded, so the documented 1' by 1.5' cell is used instead.
var GSIGEO2011 = Product{
	Name:     "gsigeo2011",
	DeltaLat: 1.0 / 60.0,
	DeltaLon: 1.5 / 60.0,
	MaxLat:   50.0,
	MaxLon:   150.0,
	NoData:   grid.PresentBelow(999.0),
}

// Model is a loaded geoid grid. It satisfies grid.Source.
type Model struct {
	*grid.Grid
	Header  Header
	Product Product
}

// Load reads a geoid file from disk.
func Load(path string, product Product) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoid file: %w", err)
	}
	defer f.Close()

	return Parse(f, path, product)
}

// Parse reads a geoid grid from r. name identifies r in errors. Any malformed
// content aborts the load.
func Parse(r io.Reader, name string, product Product) (*Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, &grid.ParseError{Source: name, Err: err}
		}
		return nil, &grid.ParseError{Source: name, Err: errors.New("missing header line")}
	}
	hdr, err := parseHeader(sc.Text())
	if err != nil {
		return nil, &grid.ParseError{Source: name, Line: 1, Err: err}
	}

	want := hdr.Rows * hdr.Cols
	samples := make([]float64, 0, min(want, maxPrealloc))
	line := 1
	for sc.Scan() {
		line++
		for _, tok := range strings.Fields(sc.Text()) {
			if len(samples) == want {
				return nil, &grid.ParseError{
					Source: name, Line: line,
					Err: fmt.Errorf("more than the %d values declared by the header", want),
				}
			}
			v, errParse := strconv.ParseFloat(tok, 64)
			if errParse != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &grid.ParseError{Source: name, Line: line, Err: fmt.Errorf("invalid height %q", tok)}
			}
			samples = append(samples, v)
		}
	}
	if err = sc.Err(); err != nil {
		return nil, &grid.ParseError{Source: name, Line: line, Err: err}
	}
	if len(samples)%hdr.Cols != 0 {
		return nil, &grid.ParseError{
			Source: name,
			Err:    fmt.Errorf("%d values do not fill rows of %d columns", len(samples), hdr.Cols),
		}
	}
	if len(samples) != want {
		return nil, &grid.ParseError{
			Source: name,
			Err:    fmt.Errorf("got %d rows, header declares %d", len(samples)/hdr.Cols, hdr.Rows),
		}
	}

	g, err := grid.New(product.metadata(hdr), samples)
	if err != nil {
		return nil, &grid.ParseError{Source: name, Err: err}
	}

	return &Model{Grid: g, Header: hdr, Product: product}, nil
}

func (p Product) metadata(hdr Header) grid.Metadata {
	meta := grid.Metadata{
		OriginLat:   hdr.OriginLat,
		OriginLon:   hdr.OriginLon,
		DeltaLat:    hdr.DeltaLat,
		DeltaLon:    hdr.DeltaLon,
		Rows:        hdr.Rows,
		Cols:        hdr.Cols,
		MaxLat:      p.MaxLat,
		MaxLon:      p.MaxLon,
		NoData:      p.NoData,
		Orientation: grid.Ascending,
	}
	if p.DeltaLat != 0 {
		meta.DeltaLat = p.DeltaLat
	}
	if p.DeltaLon != 0 {
		meta.DeltaLon = p.DeltaLon
	}
	if meta.MaxLat == 0 {
		meta.MaxLat = meta.OriginLat + float64(meta.Rows-1)*meta.DeltaLat
	}
	if meta.MaxLon == 0 {
		meta.MaxLon = meta.OriginLon + float64(meta.Cols-1)*meta.DeltaLon
	}

	return meta
}

func parseHeader(line string) (Header, error) {
	fields := strings.Fields(line)
	if len(fields) < headerFields {
		return Header{}, fmt.Errorf("header has %d fields, want %d", len(fields), headerFields)
	}

	var nums [7]float64
	for i := range nums {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Header{}, fmt.Errorf("invalid header field %d %q", i+1, fields[i])
		}
		nums[i] = v
	}

	if nums[4] >= math.MaxInt || nums[5] >= math.MaxInt {
		return Header{}, fmt.Errorf("grid dimensions %sx%s do not fit an int", fields[4], fields[5])
	}

	hdr := Header{
		OriginLat: nums[0],
		OriginLon: nums[1],
		DeltaLat:  nums[2],
		DeltaLon:  nums[3],
		Rows:      int(nums[4]),
		Cols:      int(nums[5]),
		FormatID:  int(nums[6]),
		Version:   fields[7],
	}
	if hdr.Rows < 1 || hdr.Cols < 1 {
		return Header{}, fmt.Errorf("grid dimensions %dx%d must be at least 1x1", hdr.Rows, hdr.Cols)
	}
	if hdr.Rows > math.MaxInt/hdr.Cols {
		return Header{}, fmt.Errorf("grid dimensions %dx%d are too large", hdr.Rows, hdr.Cols)
	}

	return hdr, nil
}
