package grid

// Rendered is the output of one render pass: the presentation tree plus the
// flattened row/cell/field index navigation and paste work on. It is rebuilt
// wholesale on every render and never mutated afterwards.
type Rendered struct {
	// Root is the complete presentation, a KindTable element.
	Root *Element
	// Pivots is the number of corner cells above the row headers.
	Pivots int
	// Rows holds the leaf rows in flattened (depth-first) order.
	Rows []*RenderedRow
	// Groups holds every rendered group in depth-first order.
	Groups []*RenderedGroup

	fields map[Control]*Field
}

// RenderedGroup is one group of the presentation tree.
type RenderedGroup struct {
	Source *Element
	Header *Element // nil when the group has no header
	Depth  int
	Rows   []*RenderedRow
}

// RenderedRow is one flattened leaf row.
type RenderedRow struct {
	Source  *Element
	Headers []*Element
	Cells   []*RenderedCell
	Group   *RenderedGroup
	Index   int

	table *Rendered
}

// Table returns the render pass the row belongs to.
func (r *RenderedRow) Table() *Rendered { return r.table }

// RenderedCell is the intersection of one row and one column.
type RenderedCell struct {
	Source *Element
	Fields []*Field
	Index  int

	row *RenderedRow
}

// Row returns the row owning the cell.
func (c *RenderedCell) Row() *RenderedRow { return c.row }

// Field returns the cell's field with the given target.
func (c *RenderedCell) Field(target string) (*Field, bool) {
	for _, f := range c.Fields {
		if f.Target == target {
			return f, true
		}
	}
	return nil, false
}

// Field is one control discovered in a cell, tagged with its target.
type Field struct {
	Control Control
	Target  string
	Index   int

	cell *RenderedCell
}

// Cell returns the cell owning the field.
func (f *Field) Cell() *RenderedCell { return f.cell }

// Locate finds the field for a control of this render pass. Controls that
// are not part of it, such as ones from an earlier render, are not found.
func (r *Rendered) Locate(c Control) (*Field, bool) {
	if r == nil || c == nil {
		return nil, false
	}
	f, ok := r.fields[c]
	return f, ok
}

// Empty reports whether the render holds no rows.
func (r *Rendered) Empty() bool {
	return len(r.Rows) == 0
}

// FirstField returns the first field of the first row that has one.
func (r *Rendered) FirstField() (*Field, bool) {
	for _, row := range r.Rows {
		for _, cell := range row.Cells {
			if len(cell.Fields) > 0 {
				return cell.Fields[0], true
			}
		}
	}
	return nil, false
}

// Cell returns the cell at the given flattened row and column index.
func (r *Rendered) Cell(row, column int) (*RenderedCell, bool) {
	if row < 0 || row >= len(r.Rows) {
		return nil, false
	}
	cells := r.Rows[row].Cells
	if column < 0 || column >= len(cells) {
		return nil, false
	}
	return cells[column], true
}

func (r *Rendered) addRow(source *Element, headers []*Element, group *RenderedGroup) *RenderedRow {
	row := &RenderedRow{
		Source:  source,
		Headers: headers,
		Group:   group,
		Index:   len(r.Rows),
		table:   r,
	}
	r.Rows = append(r.Rows, row)
	if group != nil {
		group.Rows = append(group.Rows, row)
	}
	return row
}

func (r *Rendered) addCell(row *RenderedRow, source *Element, controls []Control) *RenderedCell {
	cell := &RenderedCell{
		Source: source,
		Index:  len(row.Cells),
		row:    row,
	}
	for i, c := range controls {
		f := &Field{
			Control: c,
			Target:  FieldTarget(c, controls),
			Index:   i,
			cell:    cell,
		}
		cell.Fields = append(cell.Fields, f)
		if r.fields == nil {
			r.fields = make(map[Control]*Field)
		}
		r.fields[c] = f
	}
	row.Cells = append(row.Cells, cell)
	return cell
}
