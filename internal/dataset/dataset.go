// Package dataset is the data behind the grid editor: named columns, rows
// nested in groups, and the editable fields of every cell. It loads
// datasets from TOML, TSV and CSV files, renders them through the grid
// package, and exports them again after editing.
package dataset

import (
	"strconv"
	"strings"

	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/util"
)

// Format identifies where a dataset came from and how it is written back.
type Format string

const (
	FormatTOML Format = "toml"
	FormatTSV  Format = "tsv"
	FormatCSV  Format = "csv"
	FormatSQL  Format = "sql"
)

// Dataset is a titled table of rows grouped in a tree.
type Dataset struct {
	Title       string
	LabelHeader string // shown above the row labels
	Columns     []string
	Root        *grid.Group[*Row]
	Format      Format
	Path        string

	// OnChange is called after a field commits a new value.
	OnChange func(f *Field)

	labels bool
}

// Row is one record. Cells are keyed by column name.
type Row struct {
	ID    string
	Label string
	Cells map[string]*Cell

	ds     *Dataset
	autoID bool // ID was generated, not loaded
}

// Cell holds the fields of one column of a row.
type Cell struct {
	Fields []*Field
}

// Field is one editable value. Fields with Options edit as a selection,
// others as free text.
type Field struct {
	Target      string // alignment target; empty means positional
	Value       string
	Options     []string
	Placeholder string

	original string
	control  grid.Control
	row      *Row
	column   string
}

// New assembles a dataset and links every row and field back to it.
// Rows without an ID get a fresh ULID for the session; it is not written
// back to files.
func New(title string, columns []string, root *grid.Group[*Row]) *Dataset {
	if root == nil {
		root = &grid.Group[*Row]{}
	}
	d := &Dataset{Title: title, Columns: columns, Root: root}
	d.attach()
	return d
}

func (d *Dataset) attach() {
	d.labels = false
	for _, row := range d.Root.Rows() {
		row.ds = d
		if row.ID == "" {
			row.ID = util.NewULID()
			row.autoID = true
		}
		if row.Label != "" {
			d.labels = true
		}
		for column, cell := range row.Cells {
			for _, f := range cell.Fields {
				f.row = row
				f.column = column
			}
		}
	}
}

// Rows returns all rows in display order.
func (d *Dataset) Rows() []*Row {
	return d.Root.Rows()
}

// HasLabels reports whether any row carries a label. Either every row
// renders a label header or none does.
func (d *Dataset) HasLabels() bool {
	return d.labels
}

// Table builds a grid table over the dataset.
func (d *Dataset) Table() *grid.Table[string, *Row] {
	t := grid.New[string, *Row](d.Renderer(), d.Columns, nil)
	t.LoadGroup(d.Root)
	return t
}

// NewRow creates a row holding one positional field per value. Values
// beyond the columns are ignored.
func NewRow(columns []string, values []string) *Row {
	row := &Row{Cells: make(map[string]*Cell, len(columns))}
	for i, column := range columns {
		if i >= len(values) {
			break
		}
		row.Cells[column] = &Cell{Fields: []*Field{NewField(values[i])}}
	}
	return row
}

// Cell returns the cell of column, or nil.
func (r *Row) Cell(column string) *Cell {
	return r.Cells[column]
}

// Add appends a field to the cell of column.
func (r *Row) Add(column string, f *Field) {
	if r.Cells == nil {
		r.Cells = make(map[string]*Cell)
	}
	cell, ok := r.Cells[column]
	if !ok {
		cell = &Cell{}
		r.Cells[column] = cell
	}
	cell.Fields = append(cell.Fields, f)
	f.row = r
	f.column = column
}

// Values returns the field values of the row in column order, fields of
// one cell side by side. A column the row has no cell for gives one empty
// value.
func (r *Row) Values(columns []string) []string {
	var values []string
	for _, column := range columns {
		cell := r.Cells[column]
		if cell == nil || len(cell.Fields) == 0 {
			values = append(values, "")
			continue
		}
		for _, f := range cell.Fields {
			values = append(values, f.Value)
		}
	}
	return values
}

// Field returns the field with the given resolved target.
func (c *Cell) Field(target string) (*Field, bool) {
	if c == nil {
		return nil, false
	}
	for i, f := range c.Fields {
		if f.key(i) == target {
			return f, true
		}
	}
	return nil, false
}

// Text joins the cell's values with spaces.
func (c *Cell) Text() string {
	if c == nil {
		return ""
	}
	values := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		values[i] = f.Value
	}
	return strings.Join(values, " ")
}

// NewField creates a text field.
func NewField(value string) *Field {
	return &Field{Value: value, original: value}
}

// WithTarget sets an explicit alignment target.
func (f *Field) WithTarget(target string) *Field {
	f.Target = target
	return f
}

// WithOptions turns the field into a selection.
func (f *Field) WithOptions(options ...string) *Field {
	f.Options = options
	return f
}

// Row returns the row owning the field.
func (f *Field) Row() *Row { return f.row }

// Column returns the column of the field's cell.
func (f *Field) Column() string { return f.column }

// Original returns the value as loaded or last saved.
func (f *Field) Original() string { return f.original }

// Changed reports whether the value differs from the original.
func (f *Field) Changed() bool { return f.Value != f.original }

// key resolves the alignment target the grid will assign to the field at
// index i of its cell.
func (f *Field) key(i int) string {
	if f.Target != "" {
		return f.Target
	}
	return strconv.Itoa(i)
}

// Control returns the field's editing surface. It is created on first use
// and reused afterwards, so it keeps its identity across renders.
func (f *Field) Control() grid.Control {
	if f.control != nil {
		return f.control
	}

	if len(f.Options) > 0 {
		s := grid.NewSelect(f.Options, f.Value)
		if f.Target != "" {
			s.WithTarget(f.Target)
		}
		s.OnCommit = f.commit
		f.control = s
	} else {
		in := grid.NewInput(f.Value).WithPlaceholder(f.Placeholder)
		if f.Target != "" {
			in.WithTarget(f.Target)
		}
		in.OnCommit = f.commit
		f.control = in
	}
	return f.control
}

func (f *Field) commit(value string) {
	f.Value = value
	if f.row != nil && f.row.ds != nil && f.row.ds.OnChange != nil {
		f.row.ds.OnChange(f)
	}
}
