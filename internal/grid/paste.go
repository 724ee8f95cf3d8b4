package grid

import (
	"slices"
	"strings"
)

// PasteOptions controls how clipboard text is cut into a block of values.
type PasteOptions struct {
	SplitRows  func(text string) []string
	SplitCells func(row string) []string
}

// DefaultPasteOptions splits rows on line breaks and cells on tabs, the
// format spreadsheets put on the clipboard.
func DefaultPasteOptions() PasteOptions {
	return PasteOptions{SplitRows: SplitRows, SplitCells: SplitCells}
}

// SplitRows splits text into lines. Carriage returns before a line break are
// removed, and the line break ending the text does not start an extra row.
func SplitRows(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && strings.TrimSuffix(lines[len(lines)-1], "\r") == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// SplitCells splits a row on tabs.
func SplitCells(row string) []string {
	return strings.Split(row, "\t")
}

// ParseClipboard cuts text into rows of cell values.
func ParseClipboard(text string, opts PasteOptions) [][]string {
	splitRows, splitCells := opts.SplitRows, opts.SplitCells
	if splitRows == nil {
		splitRows = SplitRows
	}
	if splitCells == nil {
		splitCells = SplitCells
	}

	rows := splitRows(text)
	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = splitCells(row)
	}
	return data
}

// destination is one slot a pasted column can land in.
type destination struct {
	cell   int
	target string
}

// Paste spreads clipboard text over the fields reachable from the focused
// control c. It returns false, leaving the text to the control's own paste,
// when the text is a single value or c is not part of this render.
//
// Pasted columns are matched to field targets, not to cell positions: the
// targets found at or after the cursor's cell across the affected rows form
// an ordered list of destinations, and the block's columns are laid onto it
// starting at the cursor's own target. Rows and cells that are too short,
// and cells without a destination's target, are skipped.
func (r *Rendered) Paste(c Control, text string, opts PasteOptions) bool {
	data := ParseClipboard(text, opts)
	if len(data) == 0 || len(data) == 1 && len(data[0]) <= 1 {
		return false
	}

	field, ok := r.Locate(c)
	if !ok {
		return false
	}

	width := 0
	for _, row := range data {
		width = max(width, len(row))
	}

	cursor := field.Cell()
	startRow, startCell := cursor.Row().Index, cursor.Index

	dests := r.destinations(startRow, startCell, len(data))
	start := -1
	for i, d := range dests {
		if d.cell == startCell && d.target == field.Target {
			start = i
			break
		}
	}
	if start < 0 {
		return false
	}
	dests = dests[start:min(start+width, len(dests))]

	for i, values := range data {
		rowIndex := startRow + i
		if rowIndex >= len(r.Rows) {
			break
		}
		for j, d := range dests {
			if j >= len(values) {
				break
			}
			cell, ok := r.Cell(rowIndex, d.cell)
			if !ok {
				continue
			}
			f, ok := cell.Field(d.target)
			if !ok {
				continue
			}
			write(f.Control, values[j])
		}
	}

	c.Focus()
	return true
}

// destinations collects, per cell index from startCell on, the union of
// field targets across count rows starting at startRow, flattened in cell
// order and first-seen order within a cell.
func (r *Rendered) destinations(startRow, startCell, count int) []destination {
	var groups [][]string
	for i := 0; i < count && startRow+i < len(r.Rows); i++ {
		cells := r.Rows[startRow+i].Cells
		for ci := startCell; ci < len(cells); ci++ {
			for len(groups) <= ci-startCell {
				groups = append(groups, nil)
			}
			g := groups[ci-startCell]
			for _, f := range cells[ci].Fields {
				if !slices.Contains(g, f.Target) {
					g = append(g, f.Target)
				}
			}
			groups[ci-startCell] = g
		}
	}

	var dests []destination
	for i, g := range groups {
		for _, target := range g {
			dests = append(dests, destination{cell: startCell + i, target: target})
		}
	}
	return dests
}

// write sets a value and blurs the control so its commit hook runs.
func write(c Control, value string) {
	c.SetValue(value)
	c.Blur()
}
