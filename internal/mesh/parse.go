package mesh

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/geoheight/internal/grid"
)

// XML namespaces of FGD DEM documents.
const (
	GMLNamespace = "http://www.opengis.net/gml/3.2"
	FGDNamespace = "http://fgd.gsi.go.jp/spec/2008/FGD_GMLSchema"
)

// Element keys, named with the prefixes used by the published schema.
const (
	elName         = "gml:name"
	elDescription  = "gml:description"
	elMesh         = "mesh"
	elType         = "type"
	elLowerCorner  = "gml:lowerCorner"
	elUpperCorner  = "gml:upperCorner"
	elLow          = "gml:low"
	elHigh         = "gml:high"
	elAxisLabels   = "gml:axisLabels"
	elSequenceRule = "gml:sequenceRule"
	elQuantityList = "gml:QuantityList"
	elTupleList    = "gml:tupleList"
)

// required lists every element a document must carry, in reporting order.
var required = []string{
	elName, elDescription, elMesh, elType,
	elLowerCorner, elUpperCorner, elLow, elHigh, elAxisLabels,
	elSequenceRule, elQuantityList, elTupleList,
}

var errMissingOrder = errors.New("gml:sequenceRule has no order attribute")

type options struct {
	noData grid.NoData
}

// Option configures Parse.
type Option func(*options)

// WithNoData replaces the default NO-DATA predicate (present above -9999).
func WithNoData(n grid.NoData) Option {
	return func(o *options) {
		o.noData = n
	}
}

// Load reads a mesh document from disk.
func Load(path string, opts ...Option) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mesh file: %w", err)
	}
	defer f.Close()

	return Parse(f, path, opts...)
}

// Parse reads a mesh document from r. name identifies r in errors. Every
// element in the document is mandatory; nothing is guessed.
func Parse(r io.Reader, name string, opts ...Option) (*Mesh, error) {
	o := options{noData: grid.PresentAbove(NoDataValue)}
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := readDocument(r)
	if err != nil {
		return nil, &grid.ParseError{Source: name, Err: err}
	}

	m, err := doc.mesh(o)
	if err != nil {
		return nil, &grid.ParseError{Source: name, Err: err}
	}

	return m, nil
}

// document is the text and attributes of the first occurrence of each
// required element.
type document struct {
	text  map[string]string
	attrs map[string][]xml.Attr
}

func readDocument(r io.Reader) (*document, error) {
	doc := &document{text: map[string]string{}, attrs: map[string][]xml.Attr{}}
	dec := xml.NewDecoder(r)

	var (
		current string
		depth   int
		buf     strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid XML: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if current != "" {
				depth++
				continue
			}
			key, ok := elementKey(el.Name)
			if !ok {
				continue
			}
			if _, seen := doc.text[key]; seen {
				continue
			}
			current = key
			buf.Reset()
			doc.attrs[key] = el.Attr
		case xml.CharData:
			if current != "" {
				buf.Write(el)
			}
		case xml.EndElement:
			if current == "" {
				continue
			}
			if depth > 0 {
				depth--
				continue
			}
			doc.text[current] = buf.String()
			current = ""
		}
	}

	for _, key := range required {
		if _, ok := doc.text[key]; !ok {
			return nil, fmt.Errorf("missing element %s", key)
		}
	}

	return doc, nil
}

func elementKey(n xml.Name) (string, bool) {
	switch n.Space {
	case GMLNamespace:
		switch n.Local {
		case "name", "description", "lowerCorner", "upperCorner", "low", "high",
			"axisLabels", "sequenceRule", "QuantityList", "tupleList":
			return "gml:" + n.Local, true
		}
	case FGDNamespace:
		switch n.Local {
		case elMesh, elType:
			return n.Local, true
		}
	}

	return "", false
}

func (d *document) attr(key, local string) (string, bool) {
	for _, a := range d.attrs[key] {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (d *document) mesh(o options) (*Mesh, error) {
	m := &Mesh{
		Name:         strings.TrimSpace(d.text[elName]),
		Description:  strings.TrimSpace(d.text[elDescription]),
		MeshID:       strings.TrimSpace(d.text[elMesh]),
		Type:         strings.TrimSpace(d.text[elType]),
		SequenceRule: strings.TrimSpace(d.text[elSequenceRule]),
	}
	m.UOM, _ = d.attr(elQuantityList, "uom")

	var err error
	if m.Lower, err = floatPair(elLowerCorner, d.text[elLowerCorner]); err != nil {
		return nil, err
	}
	if m.Upper, err = floatPair(elUpperCorner, d.text[elUpperCorner]); err != nil {
		return nil, err
	}
	if m.Low, err = intPair(elLow, d.text[elLow]); err != nil {
		return nil, err
	}
	if m.High, err = intPair(elHigh, d.text[elHigh]); err != nil {
		return nil, err
	}

	labels := strings.Fields(d.text[elAxisLabels])
	if len(labels) != 2 {
		return nil, fmt.Errorf("%s needs 2 labels, got %d", elAxisLabels, len(labels))
	}
	m.AxisOrder = resolveAxisOrder(labels)
	if m.AxisOrder == RowFirst {
		m.Lower[0], m.Lower[1] = m.Lower[1], m.Lower[0]
		m.Upper[0], m.Upper[1] = m.Upper[1], m.Upper[0]
		m.Low[0], m.Low[1] = m.Low[1], m.Low[0]
		m.High[0], m.High[1] = m.High[1], m.High[0]
	}

	order, ok := d.attr(elSequenceRule, "order")
	if !ok {
		return nil, errMissingOrder
	}
	if m.Order, err = ParseOrder(order); err != nil {
		return nil, err
	}

	if err = m.readTuples(d.text[elTupleList]); err != nil {
		return nil, err
	}

	m.buildMetadata(o.noData)
	if want := m.meta.Rows * m.meta.Cols; len(m.Heights) != want {
		return nil, fmt.Errorf("%s has %d tuples, grid extent needs %d", elTupleList, len(m.Heights), want)
	}
	if err = m.meta.Validate(); err != nil {
		return nil, err
	}
	m.coords = Coordinates(m.Lower, m.Upper, m.Low, m.High, m.Order)

	return m, nil
}

func (m *Mesh) readTuples(text string) error {
	tuples := strings.Fields(text)
	m.Tags = make([]string, 0, len(tuples))
	m.Heights = make([]float64, 0, len(tuples))
	for i, tuple := range tuples {
		tag, value, ok := strings.Cut(tuple, ",")
		if !ok {
			return fmt.Errorf("tuple %d %q is not <category>,<value>", i+1, tuple)
		}
		z, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(z) || math.IsInf(z, 0) {
			return fmt.Errorf("tuple %d has invalid value %q", i+1, value)
		}
		m.Tags = append(m.Tags, tag)
		m.Heights = append(m.Heights, z)
	}

	return nil
}

func floatPair(key, text string) ([2]float64, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return [2]float64{}, fmt.Errorf("%s needs 2 values, got %q", key, text)
	}
	var pair [2]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return [2]float64{}, fmt.Errorf("%s has invalid value %q", key, f)
		}
		pair[i] = v
	}

	return pair, nil
}

func intPair(key, text string) ([2]int, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return [2]int{}, fmt.Errorf("%s needs 2 values, got %q", key, text)
	}
	var pair [2]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return [2]int{}, fmt.Errorf("%s has invalid value %q", key, f)
		}
		pair[i] = v
	}

	return pair, nil
}
