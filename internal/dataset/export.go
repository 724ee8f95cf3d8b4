package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/util"
)

// slot is one exported column: a dataset column and one field target in it.
type slot struct {
	column string
	target string
}

// name is the column name for the first positional field and
// column.target for any other field.
func (s slot) name() string {
	if s.target == "0" {
		return s.column
	}
	return s.column + "." + s.target
}

// slots lists, per column, the union of field targets across all rows in
// first-seen order.
func (d *Dataset) slots() []slot {
	var out []slot
	rows := d.Rows()
	for _, column := range d.Columns {
		var targets []string
		seen := make(map[string]bool)
		for _, row := range rows {
			cell := row.Cell(column)
			if cell == nil {
				continue
			}
			for i, f := range cell.Fields {
				if k := f.key(i); !seen[k] {
					seen[k] = true
					targets = append(targets, k)
				}
			}
		}
		for _, t := range targets {
			out = append(out, slot{column: column, target: t})
		}
	}
	return out
}

// Records flattens the dataset into a header and one record per row. Cells
// with several fields spread over several columns.
func (d *Dataset) Records() (header []string, records [][]string) {
	slots := d.slots()
	header = make([]string, len(slots))
	for i, s := range slots {
		header[i] = s.name()
	}

	for _, row := range d.Rows() {
		records = append(records, record(row, slots))
	}
	return header, records
}

// record lays the values of row out over slots. Slots the row has no field
// for stay empty.
func record(row *Row, slots []slot) []string {
	values := make([]string, len(slots))
	for i, s := range slots {
		if f, ok := row.Cell(s.column).Field(s.target); ok {
			values[i] = f.Value
		}
	}
	return values
}

// TSV renders the dataset as tab separated lines without quoting.
func (d *Dataset) TSV() string {
	header, records := d.Records()
	var sb strings.Builder
	sb.WriteString(strings.Join(header, "\t"))
	sb.WriteString("\n")
	for _, rec := range records {
		sb.WriteString(strings.Join(rec, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RowTSV renders the values of one row tab separated, one value per field
// slot of the dataset, so a missing cell keeps the values after it in
// place when the line is pasted into a complete row.
func (d *Dataset) RowTSV(row *Row) string {
	return strings.Join(record(row, d.slots()), "\t")
}

type jsonRow struct {
	ID     string            `json:"id"`
	Label  string            `json:"label,omitempty"`
	Groups []string          `json:"groups,omitempty"`
	Values map[string]string `json:"values"`
}

// WriteJSON outputs the rows as a JSON array of objects.
func (d *Dataset) WriteJSON(w io.Writer) error {
	slots := d.slots()
	out := []jsonRow{}

	d.Root.Walk(func(row *Row, path []*grid.Group[*Row]) {
		jr := jsonRow{ID: row.ID, Label: row.Label, Values: make(map[string]string)}
		for _, g := range path {
			if g.HasHeader() {
				jr.Groups = append(jr.Groups, fmt.Sprint(g.Header))
			}
		}
		for _, s := range slots {
			if f, ok := row.Cell(s.column).Field(s.target); ok {
				jr.Values[s.name()] = f.Value
			}
		}
		out = append(out, jr)
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Encode writes the dataset in its own format.
func (d *Dataset) Encode(w io.Writer) error {
	switch d.Format {
	case FormatTOML:
		return d.EncodeTOML(w)
	case FormatTSV, FormatCSV:
		cw := csv.NewWriter(w)
		if d.Format == FormatTSV {
			cw.Comma = '\t'
		}
		header, records := d.Records()
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(records); err != nil {
			return err
		}
		return cw.Error()
	}
	return fmt.Errorf("%w: %s", util.ErrReadOnlySource, d.Format)
}

// WriteFile writes the dataset back to path in its own format.
func (d *Dataset) WriteFile(path string) error {
	if d.Format != FormatTOML && d.Format != FormatTSV && d.Format != FormatCSV {
		return fmt.Errorf("%w: %s", util.ErrReadOnlySource, d.Format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := d.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// ═══════════════════════════════════════════════════════════════════════════
// Changes
// ═══════════════════════════════════════════════════════════════════════════

// Change is one field whose value differs from the original.
type Change struct {
	Row    *Row
	Column string
	Target string
	Old    string
	New    string
}

// Changes lists changed fields in row, column and field order.
func (d *Dataset) Changes() []Change {
	var changes []Change
	for _, row := range d.Rows() {
		for _, column := range d.Columns {
			cell := row.Cell(column)
			if cell == nil {
				continue
			}
			for i, f := range cell.Fields {
				if f.Changed() {
					changes = append(changes, Change{
						Row:    row,
						Column: column,
						Target: f.key(i),
						Old:    f.original,
						New:    f.Value,
					})
				}
			}
		}
	}
	return changes
}

// Dirty reports whether any field changed.
func (d *Dataset) Dirty() bool {
	for _, row := range d.Rows() {
		for _, cell := range row.Cells {
			for _, f := range cell.Fields {
				if f.Changed() {
					return true
				}
			}
		}
	}
	return false
}

// MarkSaved makes the current values the originals.
func (d *Dataset) MarkSaved() {
	for _, row := range d.Rows() {
		for _, cell := range row.Cells {
			for _, f := range cell.Fields {
				f.original = f.Value
			}
		}
	}
}
