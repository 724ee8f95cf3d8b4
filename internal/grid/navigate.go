package grid

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap classifies keys into cursor movements.
type KeyMap struct {
	NextCell      key.Binding
	PreviousCell  key.Binding
	NextRow       key.Binding
	PreviousRow   key.Binding
	NextField     key.Binding
	PreviousField key.Binding
}

// DefaultKeyMap moves between cells with the arrow keys and between the
// fields of a cell with tab.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextCell:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next cell")),
		PreviousCell:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous cell")),
		NextRow:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next row")),
		PreviousRow:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous row")),
		NextField:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PreviousField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("⇧tab", "previous field")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextCell, k.PreviousCell, k.NextRow, k.PreviousRow, k.NextField, k.PreviousField}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextCell, k.PreviousCell, k.NextRow, k.PreviousRow},
		{k.NextField, k.PreviousField},
	}
}

// Navigate moves focus away from the focused control c in response to msg.
// The cursor is derived from c itself: its field, cell and row are looked
// up in this render pass. When a destination exists it is focused with its
// content selected and returned with true. Otherwise nothing changes and
// false tells the caller to let the key reach the control.
func (r *Rendered) Navigate(c Control, msg tea.KeyMsg, keys KeyMap) (Control, bool) {
	field, ok := r.Locate(c)
	if !ok {
		return nil, false
	}

	var dest *Field
	switch {
	case key.Matches(msg, keys.NextCell):
		dest = r.fieldAt(field, 0, 1)
	case key.Matches(msg, keys.PreviousCell):
		dest = r.fieldAt(field, 0, -1)
	case key.Matches(msg, keys.NextRow):
		dest = r.fieldAt(field, 1, 0)
	case key.Matches(msg, keys.PreviousRow):
		dest = r.fieldAt(field, -1, 0)
	case key.Matches(msg, keys.NextField):
		dest = cycleField(field, 1)
	case key.Matches(msg, keys.PreviousField):
		dest = cycleField(field, -1)
	default:
		return nil, false
	}

	if dest == nil {
		return nil, false
	}

	MoveFocus(c, dest.Control)
	return dest.Control, true
}

// MoveFocus blurs from, which commits its value, and focuses to with its
// content selected.
func MoveFocus(from, to Control) {
	if from != nil && from != to {
		from.Blur()
	}
	to.Focus()
	to.SelectAll()
}

// fieldAt returns the field with the same target as f in the cell offset by
// the given number of rows and columns.
func (r *Rendered) fieldAt(f *Field, rows, columns int) *Field {
	cell := f.Cell()
	dest, ok := r.Cell(cell.Row().Index+rows, cell.Index+columns)
	if !ok {
		return nil
	}
	next, ok := dest.Field(f.Target)
	if !ok {
		return nil
	}
	return next
}

func cycleField(f *Field, step int) *Field {
	fields := f.Cell().Fields
	n := len(fields)
	if n == 0 {
		return nil
	}
	return fields[((f.Index+step)%n+n)%n]
}
