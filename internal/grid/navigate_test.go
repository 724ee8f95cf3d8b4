package grid

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	keyRight    = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft     = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyUp       = tea.KeyMsg{Type: tea.KeyUp}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyA        = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}
)

// navGrid has two groups. Row 0 and row 1 are in the first group, row 2 in
// the second. Every cell holds a value input and a "note" input, except
// row 1's middle cell which only holds a value input.
type navGrid struct {
	table *Table[string, *testRow]
	value [3][3]*Input
	note  [3][3]*Input
}

func newNavGrid() *navGrid {
	g := &navGrid{}
	columns := []string{"c0", "c1", "c2"}
	rows := make([]*testRow, 3)

	for r := 0; r < 3; r++ {
		cells := map[string]Node{}
		for c, col := range columns {
			g.value[r][c] = NewInput("v")
			if r == 1 && c == 1 {
				cells[col] = g.value[r][c]
				continue
			}
			g.note[r][c] = NewInput("n").WithTarget("note")
			cells[col] = El(KindGroup, g.value[r][c], g.note[r][c])
		}
		rows[r] = row(string(rune('a'+r)), cells)
	}

	g.table = NewGrouped[string, *testRow](newTestRenderer(), columns, []*Group[*testRow]{
		RowGroup("first", rows[:2]),
		NewGroup[*testRow]("second", Branch(RowGroup[*testRow](nil, rows[2:]))),
	})
	return g
}

func (g *navGrid) press(t *testing.T, from Control, msg tea.KeyMsg) (Control, bool) {
	t.Helper()
	from.Focus()
	return g.table.Render().Navigate(from, msg, DefaultKeyMap())
}

func TestNavigate_CellRoundTrip(t *testing.T) {
	g := newNavGrid()

	next, ok := g.press(t, g.note[0][1], keyRight)
	if !ok || next != g.note[0][2] {
		t.Fatal("next cell should keep the note target")
	}
	back, ok := g.table.Render().Navigate(next, keyLeft, DefaultKeyMap())
	if !ok || back != g.note[0][1] {
		t.Fatal("previous cell should return to the start")
	}
	if !back.Focused() || next.Focused() {
		t.Fatal("focus should follow the cursor")
	}
}

func TestNavigate_RowsCrossGroups(t *testing.T) {
	g := newNavGrid()

	next, ok := g.press(t, g.value[1][2], keyDown)
	if !ok || next != g.value[2][2] {
		t.Fatal("next row should cross into the next group")
	}
	prev, ok := g.table.Render().Navigate(next, keyUp, DefaultKeyMap())
	if !ok || prev != g.value[1][2] {
		t.Fatal("previous row should cross back")
	}
}

func TestNavigate_EdgesAreMisses(t *testing.T) {
	g := newNavGrid()

	cases := []struct {
		name string
		from Control
		msg  tea.KeyMsg
	}{
		{"left edge", g.value[0][0], keyLeft},
		{"right edge", g.value[0][2], keyRight},
		{"top edge", g.value[0][0], keyUp},
		{"bottom edge", g.value[2][1], keyDown},
		{"missing target below", g.note[0][1], keyDown},
		{"missing target right", g.note[1][0], keyRight},
		{"unbound key", g.value[0][0], keyA},
	}

	for _, tc := range cases {
		dest, ok := g.press(t, tc.from, tc.msg)
		if ok || dest != nil {
			t.Fatalf("%s: expected no move", tc.name)
		}
		if !tc.from.Focused() {
			t.Fatalf("%s: focus should stay", tc.name)
		}
	}
}

func TestNavigate_FieldCycling(t *testing.T) {
	a, b, c := NewInput("a"), NewInput("b"), NewInput("c")
	tbl := New[string, *testRow](newTestRenderer(), []string{"x"}, []*testRow{
		row("r", map[string]Node{"x": Fragment{a, b, c}}),
	})
	nav := func(from Control, msg tea.KeyMsg) Control {
		from.Focus()
		dest, ok := tbl.Render().Navigate(from, msg, DefaultKeyMap())
		if !ok {
			t.Fatal("field cycling should always move")
		}
		return dest
	}

	if nav(b, keyTab) != c {
		t.Fatal("B → next field should be C")
	}
	if nav(c, keyTab) != a {
		t.Fatal("C → next field should wrap to A")
	}
	if nav(a, keyShiftTab) != c {
		t.Fatal("A → previous field should wrap to C")
	}
	if nav(c, keyShiftTab) != b {
		t.Fatal("C → previous field should be B")
	}
}

func TestNavigate_SelectsDestination(t *testing.T) {
	g := newNavGrid()

	next, ok := g.press(t, g.value[0][0], keyRight)
	if !ok {
		t.Fatal("expected a move")
	}
	in := next.(*Input)
	if !in.Selected() {
		t.Fatal("destination content should be selected")
	}

	in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	if in.Value() != "z" {
		t.Fatalf("typing over a selection should replace it, got %q", in.Value())
	}
}

func TestNavigate_CommitsOnLeave(t *testing.T) {
	g := newNavGrid()
	var committed string
	g.value[0][0].OnCommit = func(v string) { committed = v }

	g.value[0][0].Focus()
	g.value[0][0].Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("9")})
	if _, ok := g.table.Render().Navigate(g.value[0][0], keyDown, DefaultKeyMap()); !ok {
		t.Fatal("expected a move")
	}
	if committed != "v9" {
		t.Fatalf("leaving a field should commit it, got %q", committed)
	}
}

func TestNavigate_StaleControl(t *testing.T) {
	g := newNavGrid()
	stale := g.value[0][0]
	g.table.LoadRows(nil)

	if _, ok := g.press(t, stale, keyRight); ok {
		t.Fatal("a control from a discarded render should not navigate")
	}
}

func TestNavigate_CustomKeyMap(t *testing.T) {
	g := newNavGrid()
	keys := DefaultKeyMap()
	keys.NextCell.SetKeys("l")

	g.value[0][0].Focus()
	r := g.table.Render()
	if _, ok := r.Navigate(g.value[0][0], keyRight, keys); ok {
		t.Fatal("rebound key should no longer move")
	}
	dest, ok := r.Navigate(g.value[0][0], tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")}, keys)
	if !ok || dest != g.value[0][1] {
		t.Fatal("new binding should move to the next cell")
	}
}
