package domain

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"
)

// InstancePrefix marks a valid instance name.
const InstancePrefix = "@"

// NullLabel is the placeholder label of an unlabelled instance.
const NullLabel = "null"

// DataSet holds named, labelled 2-D points. Labels may change during a run,
// points and the set of names may not.
type DataSet struct {
	names  []string
	labels map[string]string
	points map[string]Point
}

// NewDataSet returns an empty data set.
func NewDataSet() *DataSet {
	return &DataSet{
		labels: make(map[string]string),
		points: make(map[string]Point),
	}
}

// AddInstance adds one named instance.
func (d *DataSet) AddInstance(name, label string, p Point) error {
	if !strings.HasPrefix(name, InstancePrefix) || len(name) == len(InstancePrefix) {
		return fmt.Errorf("%w: %q", ErrInvalidInstanceName, name)
	}
	if _, ok := d.points[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateInstance, name)
	}
	d.names = append(d.names, name)
	d.labels[name] = label
	d.points[name] = p
	return nil
}

// AddInstanceLine parses one tab separated line of the form "@name\tlabel\tx,y".
func (d *DataSet) AddInstanceLine(line string) error {
	fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
	if len(fields) != 3 {
		return fmt.Errorf("%w: expected 3 tab separated fields, got %d", ErrInvalidFileFormat, len(fields))
	}
	p, err := parseLocation(fields[2])
	if err != nil {
		return err
	}
	return d.AddInstance(fields[0], fields[1], p)
}

func parseLocation(s string) (Point, error) {
	coords := strings.Split(strings.TrimSpace(s), ",")
	if len(coords) != 2 {
		return Point{}, fmt.Errorf("%w: location %q is not x,y", ErrInvalidFileFormat, s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidFileFormat, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidFileFormat, err)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return Point{}, fmt.Errorf("%w: location %q is not finite", ErrInvalidFileFormat, s)
	}
	return Point{X: x, Y: y}, nil
}

// ParseTSD reads a data set in the tab separated format. Blank lines are
// skipped; every bad line is reported together with its line number.
func ParseTSD(r io.Reader) (*DataSet, error) {
	ds := NewDataSet()
	var errs error

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := ds.AddInstanceLine(line); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if errs != nil {
		return nil, errs
	}
	return ds, nil
}

// UpdateLabel relabels an existing instance. It never inserts.
func (d *DataSet) UpdateLabel(name, label string) error {
	if _, ok := d.labels[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownInstance, name)
	}
	d.labels[name] = label
	return nil
}

func (d *DataSet) Label(name string) (string, bool) {
	l, ok := d.labels[name]
	return l, ok
}

func (d *DataSet) Point(name string) (Point, bool) {
	p, ok := d.points[name]
	return p, ok
}

// Names returns the instance names in insertion order.
func (d *DataSet) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Labels returns a copy of the name to label mapping.
func (d *DataSet) Labels() map[string]string {
	out := make(map[string]string, len(d.labels))
	for k, v := range d.labels {
		out[k] = v
	}
	return out
}

// Points returns a copy of the name to location mapping.
func (d *DataSet) Points() map[string]Point {
	out := make(map[string]Point, len(d.points))
	for k, v := range d.points {
		out[k] = v
	}
	return out
}

func (d *DataSet) Len() int {
	return len(d.names)
}

// NumLabels counts distinct labels, ignoring the null placeholder.
func (d *DataSet) NumLabels() int {
	seen := make(map[string]struct{})
	for _, l := range d.labels {
		if l != NullLabel {
			seen[l] = struct{}{}
		}
	}
	return len(seen)
}

// Bounds returns the smallest rectangle holding every point.
func (d *DataSet) Bounds() (lo, hi Point, err error) {
	if len(d.names) == 0 {
		return Point{}, Point{}, ErrEmptyDataSet
	}
	xs := make([]float64, 0, len(d.names))
	ys := make([]float64, 0, len(d.names))
	for _, name := range d.names {
		p := d.points[name]
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	return Point{X: floats.Min(xs), Y: floats.Min(ys)}, Point{X: floats.Max(xs), Y: floats.Max(ys)}, nil
}

// Clone returns a deep copy.
func (d *DataSet) Clone() *DataSet {
	return &DataSet{
		names:  d.Names(),
		labels: d.Labels(),
		points: d.Points(),
	}
}

// WriteTSD writes the data set in insertion order.
func (d *DataSet) WriteTSD(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, name := range d.names {
		p := d.points[name]
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s,%s\n", name, d.labels[name],
			strconv.FormatFloat(p.X, 'g', -1, 64), strconv.FormatFloat(p.Y, 'g', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
