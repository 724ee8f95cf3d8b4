package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/util"
)

// LoadOptions controls how flat files are turned into a dataset.
type LoadOptions struct {
	// GroupBy groups TSV/CSV rows by the value of this column, in order of
	// first appearance.
	GroupBy string
}

// FormatOf picks the format of a file by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".tsv", ".tab", ".txt":
		return FormatTSV, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", util.UnsupportedFormatError(path)
}

// LoadFile reads a dataset file.
func LoadFile(path string, opts LoadOptions) (*Dataset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if util.IsBinary(data) {
		return nil, util.NewError(fmt.Sprintf("Cannot open '%s'", path)).
			WithMessage("The file contains NUL bytes").
			Wrap(util.ErrBinaryFile)
	}

	d, err := Parse(util.ToValidUTF8Bytes(data), format, opts)
	if err != nil {
		var structured *util.Error
		if errors.As(err, &structured) {
			return nil, err
		}
		return nil, util.DatasetParseError(path, err)
	}

	d.Path = path
	if d.Title == "" {
		d.Title = filepath.Base(path)
	}
	return d, nil
}

// Parse decodes dataset bytes of the given format.
func Parse(data []byte, format Format, opts LoadOptions) (*Dataset, error) {
	switch format {
	case FormatTOML:
		return ParseTOML(data)
	case FormatTSV:
		return ParseDelimited(data, '\t', opts)
	case FormatCSV:
		return ParseDelimited(data, ',', opts)
	}
	return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedFormat, format)
}

// ParseDelimited reads a header line followed by records. Every record must
// have as many values as the header has columns.
func ParseDelimited(data []byte, comma rune, opts LoadOptions) (*Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	if comma == '\t' {
		// Spreadsheet TSV exports do not quote
		r.LazyQuotes = true
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, util.ErrNoColumns
	}

	d, err := FromRecords("", records[0], records[1:], opts.GroupBy)
	if err != nil {
		return nil, err
	}
	d.Format = FormatTSV
	if comma == ',' {
		d.Format = FormatCSV
	}
	return d, nil
}

// FromRecords builds a dataset of single-field cells. With groupBy set,
// rows are grouped under the distinct values of that column.
func FromRecords(title string, columns []string, records [][]string, groupBy string) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, util.ErrNoColumns
	}

	groupCol := -1
	if groupBy != "" {
		for i, c := range columns {
			if c == groupBy {
				groupCol = i
				break
			}
		}
		if groupCol < 0 {
			return nil, util.UnknownColumnError(groupBy, columns)
		}
	}

	rows := make([]*Row, len(records))
	for i, record := range records {
		rows[i] = NewRow(columns, record)
	}

	if groupCol < 0 {
		return New(title, columns, grid.RowGroup[*Row](nil, rows)), nil
	}

	var groups []*grid.Group[*Row]
	byValue := make(map[string]*grid.Group[*Row])
	for i, row := range rows {
		var value string
		if groupCol < len(records[i]) {
			value = records[i][groupCol]
		}
		g, ok := byValue[value]
		if !ok {
			g = grid.NewGroup[*Row](value)
			byValue[value] = g
			groups = append(groups, g)
		}
		g.Content = append(g.Content, grid.Leaf(row))
	}

	return New(title, columns, grid.NewGroup[*Row](nil, grid.Branches(groups)...)), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TOML datasets
// ═══════════════════════════════════════════════════════════════════════════

type fileSpec struct {
	Title       string      `toml:"title,omitempty"`
	LabelHeader string      `toml:"label_header,omitempty"`
	Columns     []string    `toml:"columns"`
	Rows        []rowSpec   `toml:"rows,omitempty"`
	Groups      []groupSpec `toml:"groups,omitempty"`
}

// groupSpec.Header is a pointer: an absent header means no header row,
// while header = "" renders an empty one.
type groupSpec struct {
	Header *string     `toml:"header"`
	Rows   []rowSpec   `toml:"rows,omitempty"`
	Groups []groupSpec `toml:"groups,omitempty"`
}

type rowSpec struct {
	ID     string            `toml:"id,omitempty"`
	Label  string            `toml:"label,omitempty"`
	Values map[string]string `toml:"values,omitempty"`
	Fields []fieldSpec       `toml:"fields,omitempty"`
}

type fieldSpec struct {
	Column      string   `toml:"column"`
	Target      string   `toml:"target,omitempty"`
	Value       string   `toml:"value"`
	Options     []string `toml:"options,omitempty"`
	Placeholder string   `toml:"placeholder,omitempty"`
}

// ParseTOML decodes a TOML dataset. Top-level rows come before top-level
// groups. In a row, the values table gives each named cell its first field
// and the fields array appends further fields in order.
func ParseTOML(data []byte) (*Dataset, error) {
	var spec fileSpec
	if _, err := toml.Decode(string(data), &spec); err != nil {
		return nil, err
	}
	if len(spec.Columns) == 0 {
		return nil, util.ErrNoColumns
	}

	known := make(map[string]bool, len(spec.Columns))
	for _, c := range spec.Columns {
		known[c] = true
	}

	root, err := buildGroup(nil, spec.Rows, spec.Groups, known)
	if err != nil {
		return nil, err
	}

	d := New(spec.Title, spec.Columns, root)
	d.LabelHeader = spec.LabelHeader
	d.Format = FormatTOML
	return d, nil
}

func buildGroup(header any, rows []rowSpec, groups []groupSpec, known map[string]bool) (*grid.Group[*Row], error) {
	g := grid.NewGroup[*Row](header)

	for _, rs := range rows {
		row, err := buildRow(rs, known)
		if err != nil {
			return nil, err
		}
		g.Content = append(g.Content, grid.Leaf(row))
	}

	for _, gs := range groups {
		var childHeader any
		if gs.Header != nil {
			childHeader = *gs.Header
		}
		child, err := buildGroup(childHeader, gs.Rows, gs.Groups, known)
		if err != nil {
			return nil, err
		}
		g.Content = append(g.Content, grid.Branch(child))
	}

	return g, nil
}

func buildRow(rs rowSpec, known map[string]bool) (*Row, error) {
	row := &Row{ID: rs.ID, Label: rs.Label, Cells: make(map[string]*Cell)}

	for column, value := range rs.Values {
		if !known[column] {
			return nil, fmt.Errorf("row %q: %w: %s", rs.Label, util.ErrUnknownColumn, column)
		}
		row.Add(column, NewField(value))
	}

	for _, fs := range rs.Fields {
		if !known[fs.Column] {
			return nil, fmt.Errorf("row %q: %w: %s", rs.Label, util.ErrUnknownColumn, fs.Column)
		}
		f := NewField(fs.Value).WithTarget(fs.Target)
		if len(fs.Options) > 0 {
			f.WithOptions(fs.Options...)
		}
		f.Placeholder = fs.Placeholder
		row.Add(fs.Column, f)
	}

	return row, nil
}

// EncodeTOML writes the dataset in the TOML dataset format.
func (d *Dataset) EncodeTOML(w io.Writer) error {
	spec := fileSpec{
		Title:       d.Title,
		LabelHeader: d.LabelHeader,
		Columns:     d.Columns,
	}
	spec.Rows, spec.Groups = d.specContent(d.Root)
	return toml.NewEncoder(w).Encode(spec)
}

func (d *Dataset) specContent(g *grid.Group[*Row]) ([]rowSpec, []groupSpec) {
	var rows []rowSpec
	var groups []groupSpec

	for _, item := range g.Content {
		if row, ok := item.Row(); ok {
			rows = append(rows, d.specRow(row))
			continue
		}
		child, ok := item.Group()
		if !ok {
			continue
		}
		gs := groupSpec{}
		if child.HasHeader() {
			header := fmt.Sprint(child.Header)
			gs.Header = &header
		}
		gs.Rows, gs.Groups = d.specContent(child)
		groups = append(groups, gs)
	}

	return rows, groups
}

// specRow puts a cell's first field in the values table when it is a plain
// positional text field, and everything else in the fields array, so that
// decoding restores the field order.
func (d *Dataset) specRow(row *Row) rowSpec {
	rs := rowSpec{Label: row.Label}
	if !row.autoID {
		rs.ID = row.ID
	}

	for _, column := range d.Columns {
		cell := row.Cell(column)
		if cell == nil {
			continue
		}
		for i, f := range cell.Fields {
			plain := f.Target == "" && len(f.Options) == 0 && f.Placeholder == ""
			if i == 0 && plain {
				if rs.Values == nil {
					rs.Values = make(map[string]string)
				}
				rs.Values[column] = f.Value
				continue
			}
			rs.Fields = append(rs.Fields, fieldSpec{
				Column:      column,
				Target:      f.Target,
				Value:       f.Value,
				Options:     f.Options,
				Placeholder: f.Placeholder,
			})
		}
	}

	return rs
}
