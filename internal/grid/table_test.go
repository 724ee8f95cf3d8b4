package grid

import (
	"slices"
	"testing"
)

// testRow is a row whose cells are prebuilt, keyed by column.
type testRow struct {
	name  string
	cells map[string]Node
}

func row(name string, cells map[string]Node) *testRow {
	return &testRow{name: name, cells: cells}
}

// testRenderer renders one row header per row and counts hook calls.
type testRenderer struct {
	BaseRenderer[string, *testRow]
	headerCalls map[string]int
	headerCount int
	groupCalls  int
}

func newTestRenderer() *testRenderer {
	return &testRenderer{headerCalls: map[string]int{}, headerCount: 1}
}

func (r *testRenderer) RenderRowHeaders(row *testRow) []Node {
	r.headerCalls[row.name]++
	headers := make([]Node, r.headerCount)
	for i := range headers {
		headers[i] = Text(row.name)
	}
	return headers
}

func (r *testRenderer) RenderGroupHeader(group *Group[*testRow]) Node {
	r.groupCalls++
	return r.BaseRenderer.RenderGroupHeader(group)
}

func (r *testRenderer) RenderCell(column string, row *testRow) Node {
	return row.cells[column]
}

func names(rows []*testRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.name
	}
	return out
}

func TestTable_LoadFlatEqualsHeaderlessGroup(t *testing.T) {
	a, b := row("a", nil), row("b", nil)
	columns := []string{"x"}

	flat := New[string, *testRow](newTestRenderer(), columns, []*testRow{a, b})
	grouped := New[string, *testRow](newTestRenderer(), columns, nil)
	grouped.LoadGroup(RowGroup[*testRow](nil, []*testRow{a, b}))

	if flat.Empty() != grouped.Empty() {
		t.Fatal("Empty differs")
	}
	f1, _ := flat.FirstRow()
	f2, _ := grouped.FirstRow()
	if f1 != f2 {
		t.Fatal("FirstRow differs")
	}
	if !slices.Equal(names(flat.Rows()), names(grouped.Rows())) {
		t.Fatal("flattened rows differ")
	}

	r1, r2 := flat.Render(), grouped.Render()
	if len(r1.Rows) != len(r2.Rows) || r1.Pivots != r2.Pivots {
		t.Fatalf("renders differ: %d/%d rows, %d/%d pivots", len(r1.Rows), len(r2.Rows), r1.Pivots, r2.Pivots)
	}
	if r1.Groups[0].Header != nil || r2.Groups[0].Header != nil {
		t.Fatal("headerless root should render no header")
	}
}

func TestTable_EmptyRendersEmptyState(t *testing.T) {
	tbl := New[string, *testRow](newTestRenderer(), []string{"x", "y"}, nil)

	r := tbl.Render()
	if !r.Empty() || r.Pivots != 0 {
		t.Fatalf("expected empty render, got %d rows and %d pivots", len(r.Rows), r.Pivots)
	}

	content := r.Root.Content[1].(*Element)
	if !IsKind(content.Content[0], KindEmpty) {
		t.Fatal("empty table should render the empty-state wrapper")
	}
	empty := content.Content[0].(*Element)
	if len(empty.Content) != 1 || empty.Content[0] != Text("No data") {
		t.Fatalf("unexpected empty content: %#v", empty.Content)
	}

	headers := r.Root.Content[0].(*Element)
	if len(headers.Content) != 2 {
		t.Fatalf("expected 2 column headers, got %d", len(headers.Content))
	}
	if _, ok := r.FirstField(); ok {
		t.Fatal("empty table has no fields")
	}
}

func TestTable_PivotsFollowFirstRowHeaders(t *testing.T) {
	rr := newTestRenderer()
	rr.headerCount = 2
	tbl := New[string, *testRow](rr, []string{"x"}, []*testRow{row("a", nil), row("b", nil)})

	r := tbl.Render()
	if r.Pivots != 2 {
		t.Fatalf("expected 2 pivots, got %d", r.Pivots)
	}
	headers := r.Root.Content[0].(*Element)
	if !IsKind(headers.Content[0], KindPivot) || !IsKind(headers.Content[1], KindPivot) {
		t.Fatal("pivots should come before column headers")
	}
	if headers.Content[2] != Text("x") {
		t.Fatalf("column header: got %#v", headers.Content[2])
	}
	if len(r.Rows[1].Headers) != 2 {
		t.Fatalf("second row headers: got %d", len(r.Rows[1].Headers))
	}
}

func TestTable_FirstRowHeadersRenderedOnce(t *testing.T) {
	rr := newTestRenderer()
	first, second, third := row("first", nil), row("second", nil), row("third", nil)

	tbl := NewGrouped[string, *testRow](rr, []string{"x"}, []*Group[*testRow]{
		NewGroup[*testRow]("outer",
			Branch(NewGroup[*testRow](nil)),
			Branch(RowGroup("inner", []*testRow{first})),
			Leaf(second),
		),
		RowGroup("other", []*testRow{third}),
	})
	r := tbl.Render()

	for _, name := range []string{"first", "second", "third"} {
		if rr.headerCalls[name] != 1 {
			t.Fatalf("row %s: header hook called %d times, want 1", name, rr.headerCalls[name])
		}
	}

	got := make([]string, len(r.Rows))
	for i, row := range r.Rows {
		got[i] = string(row.Headers[0].Content[0].(Text))
	}
	want := []string{"first", "second", "third"}
	if !slices.Equal(got, want) {
		t.Fatalf("row headers:\n  got:  %v\n  want: %v", got, want)
	}
}

func TestTable_GroupHeaderHookOnlyForNonNilHeaders(t *testing.T) {
	rr := newTestRenderer()
	tbl := NewGrouped[string, *testRow](rr, []string{"x"}, []*Group[*testRow]{
		RowGroup[*testRow](nil, []*testRow{row("a", nil)}),
		RowGroup("", []*testRow{row("b", nil)}),
		RowGroup[*testRow]((*testRow)(nil), []*testRow{row("c", nil)}),
	})
	r := tbl.Render()

	// Root and the first group are headerless; "" and a typed nil render.
	if rr.groupCalls != 2 {
		t.Fatalf("group header hook called %d times, want 2", rr.groupCalls)
	}
	if len(r.Groups) != 4 {
		t.Fatalf("expected 4 rendered groups, got %d", len(r.Groups))
	}
	if r.Groups[1].Header != nil || r.Groups[2].Header == nil || r.Groups[3].Header == nil {
		t.Fatal("header presence does not follow nil-ness")
	}
	if r.Groups[2].Depth != 1 || r.Groups[2].Rows[0].Index != 1 {
		t.Fatal("group structure not recorded")
	}
}

func TestTable_LoadRowsKeepsRootHeader(t *testing.T) {
	tbl := New[string, *testRow](newTestRenderer(), []string{"x"}, nil)
	tbl.LoadGroup(RowGroup("root", []*testRow{row("a", nil)}))
	tbl.LoadRows([]*testRow{row("b", nil), row("c", nil)})

	if tbl.Root().Header != "root" {
		t.Fatal("LoadRows should keep the root header")
	}
	if !slices.Equal(names(tbl.Rows()), []string{"b", "c"}) {
		t.Fatalf("rows: %v", names(tbl.Rows()))
	}

	tbl.LoadGroups([]*Group[*testRow]{RowGroup("g", []*testRow{row("d", nil)})})
	if tbl.Root().Header != "root" {
		t.Fatal("LoadGroups should keep the root header")
	}
	if first, _ := tbl.FirstRow(); first.name != "d" {
		t.Fatalf("first row: %s", first.name)
	}
}

func TestTable_LoadTriggersUpdateAndRebuild(t *testing.T) {
	in := NewInput("1")
	tbl := New[string, *testRow](newTestRenderer(), []string{"x"}, []*testRow{row("a", map[string]Node{"x": in})})

	updates := 0
	tbl.OnUpdate = func() { updates++ }

	before := tbl.Render()
	if before != tbl.Render() {
		t.Fatal("render should be cached between loads")
	}
	if _, ok := before.Locate(in); !ok {
		t.Fatal("control should be found in its render")
	}

	tbl.LoadRows([]*testRow{row("b", map[string]Node{"x": NewInput("2")})})
	if updates != 1 {
		t.Fatalf("expected 1 update, got %d", updates)
	}
	after := tbl.Render()
	if after == before {
		t.Fatal("load should discard the cached render")
	}
	if _, ok := after.Locate(in); ok {
		t.Fatal("control of a discarded render should not be found")
	}
}

func TestTable_CellsWrappedOnce(t *testing.T) {
	pre := El(KindCell, Text("already"))
	tbl := New[string, *testRow](newTestRenderer(), []string{"x", "y"}, []*testRow{
		row("a", map[string]Node{"x": pre}),
	})
	r := tbl.Render()

	if r.Rows[0].Cells[0].Source != pre {
		t.Fatal("a cell element should not be wrapped again")
	}
	if !IsKind(r.Rows[0].Cells[1].Source, KindCell) || len(r.Rows[0].Cells[1].Source.Content) != 0 {
		t.Fatal("nil cell should render as an empty cell element")
	}
}
