package bench

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

var ErrUnknownField = errors.New("unknown field")

// Field selects a column by its two header cells, e.g. "Execution time" and
// "Arithmetic Mean". An empty Analyzer matches the first column named Name.
type Field struct {
	Name     string
	Analyzer string
}

func (f Field) String() string {
	if f.Analyzer == "" {
		return f.Name
	}
	return f.Name + "/" + f.Analyzer
}

// Table is a CSV table with a two-row header.
type Table struct {
	Names     []string // first header row, empty cells filled from the left
	Analyzers []string // second header row
	Rows      [][]string
}

// ReadTable reads a table with the given field delimiter.
func ReadTable(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < headerLines {
		return nil, errors.Errorf("table has %d lines, need a %d line header", len(records), headerLines)
	}
	t := &Table{Names: records[0], Analyzers: records[1], Rows: records[headerLines:]}
	for i := 1; i < len(t.Names); i++ {
		if strings.TrimSpace(t.Names[i]) == "" {
			t.Names[i] = t.Names[i-1]
		}
	}
	return t, nil
}

// Column returns the index of the column selected by f.
func (t *Table) Column(f Field) (int, error) {
	for i, name := range t.Names {
		if strings.TrimSpace(name) != f.Name {
			continue
		}
		if f.Analyzer == "" || (i < len(t.Analyzers) && strings.TrimSpace(t.Analyzers[i]) == f.Analyzer) {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrUnknownField, "%q", f)
}

// RowFilter reports whether a row takes part in a series.
type RowFilter func(row []string) bool

// ExcludeValue returns a filter that drops rows whose column f equals value.
func (t *Table) ExcludeValue(f Field, value string) (RowFilter, error) {
	col, err := t.Column(f)
	if err != nil {
		return nil, err
	}
	return func(row []string) bool {
		return col >= len(row) || row[col] != value
	}, nil
}

// Point is one cell of a clustered histogram.
type Point struct {
	X     string // category, e.g. the test id
	Group string // bar within the category, e.g. the commit
	Value float64
}

// Series is an ordered set of points. Duplicate (X, Group) pairs are averaged.
type Series struct {
	Points []Point
}

// NewSeries builds a series from the rows of t that pass filter.
func NewSeries(t *Table, filter RowFilter, x, group, value Field) (*Series, error) {
	var cols [3]int
	for i, f := range []Field{x, group, value} {
		c, err := t.Column(f)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	type key struct{ x, g string }
	var (
		order   []key
		samples = make(map[key][]float64)
	)
	for n, row := range t.Rows {
		if filter != nil && !filter(row) {
			continue
		}
		cell := func(i int) string {
			if cols[i] < len(row) {
				return strings.TrimSpace(row[cols[i]])
			}
			return ""
		}
		v, err := strconv.ParseFloat(cell(2), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: column %s", n+headerLines+1, value)
		}
		k := key{cell(0), cell(1)}
		if _, ok := samples[k]; !ok {
			order = append(order, k)
		}
		samples[k] = append(samples[k], v)
	}

	s := &Series{Points: make([]Point, 0, len(order))}
	for _, k := range order {
		s.Points = append(s.Points, Point{X: k.x, Group: k.g, Value: stat.Mean(samples[k], nil)})
	}
	return s, nil
}

// Categories returns the distinct X values in order of first appearance.
func (s *Series) Categories() []string {
	return s.distinct(func(p Point) string { return p.X })
}

// Groups returns the distinct Group values in order of first appearance.
func (s *Series) Groups() []string {
	return s.distinct(func(p Point) string { return p.Group })
}

func (s *Series) distinct(get func(Point) string) []string {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	for _, p := range s.Points {
		if v := get(p); !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Value returns the value of the point at (x, group).
func (s *Series) Value(x, group string) (float64, bool) {
	for _, p := range s.Points {
		if p.X == x && p.Group == group {
			return p.Value, true
		}
	}
	return 0, false
}

// GroupValues returns all values of one group in category order.
func (s *Series) GroupValues(group string) []float64 {
	var vs []float64
	for _, p := range s.Points {
		if p.Group == group {
			vs = append(vs, p.Value)
		}
	}
	return vs
}

// SeriesConfig selects the columns of a series.
type SeriesConfig struct {
	Comma        rune
	X            Field
	Group        Field
	Value        Field
	Exclude      Field
	ExcludeValue string // rows with this value in Exclude are dropped
}

// ReadSeries reads the series of a merged output file.
func ReadSeries(file string, cfg SeriesConfig) (*Series, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	comma := cfg.Comma
	if comma == 0 {
		comma = ';'
	}
	t, err := ReadTable(fd, comma)
	if err != nil {
		return nil, errors.Wrapf(err, "reading table %s", file)
	}
	var filter RowFilter
	if cfg.Exclude.Name != "" {
		if filter, err = t.ExcludeValue(cfg.Exclude, cfg.ExcludeValue); err != nil {
			return nil, errors.Wrapf(err, "filtering %s", file)
		}
	}
	s, err := NewSeries(t, filter, cfg.X, cfg.Group, cfg.Value)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	return s, nil
}

// Report is the series read from the merged output of one title.
type Report struct {
	Title  string
	Series *Series
}

// ReadReports reads the series of all merged outputs.
func ReadReports(outs Outputs, cfg SeriesConfig) ([]Report, error) {
	reports := make([]Report, 0, len(outs))
	for _, out := range outs {
		s, err := ReadSeries(out.Path, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "reading series for %q", out.Title)
		}
		reports = append(reports, Report{Title: out.Title, Series: s})
	}
	return reports, nil
}
