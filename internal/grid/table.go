// Package grid is the model and interaction engine of an editable data
// table. A Table holds columns and a tree of groups whose leaves are rows;
// rendering it through a Renderer yields a Rendered index of rows, cells
// and fields that keyboard navigation and clipboard paste operate on.
//
// Rows may be nested in groups to any depth. Navigation ignores the
// nesting: the next row is always the next leaf in depth-first order.
package grid

import "fmt"

// Renderer supplies the presentation of a table. Every method is invoked
// synchronously during a render pass. Embed BaseRenderer to inherit the
// defaults and override what you need.
type Renderer[C, R any] interface {
	// RenderPivot renders the corner cell above row header column index.
	RenderPivot(index int) Node
	// RenderEmptyTableMessage renders the content of a table without rows.
	RenderEmptyTableMessage() Node
	// RenderColumnHeader renders the header of a column.
	RenderColumnHeader(column C) Node
	// RenderRowHeaders renders the headers of a row. All rows of one load
	// must return the same number of headers; the first row's count decides
	// how many pivot cells are rendered. Results are wrapped in KindHeader
	// elements unless they already are one.
	RenderRowHeaders(row R) []Node
	// RenderGroupHeader renders the header of a group. It is not called for
	// groups whose Header is nil.
	RenderGroupHeader(group *Group[R]) Node
	// RenderCell renders the intersection of a column and a row. Controls
	// in the result become the cell's fields.
	RenderCell(column C, row R) Node
	// FindFields returns the controls of a rendered cell.
	FindFields(rendered Node) []Control
}

// BaseRenderer implements every Renderer method with a plain default.
type BaseRenderer[C, R any] struct{}

func (BaseRenderer[C, R]) RenderPivot(int) Node { return El(KindPivot) }

func (BaseRenderer[C, R]) RenderEmptyTableMessage() Node { return Text("No data") }

func (BaseRenderer[C, R]) RenderColumnHeader(column C) Node { return Text(fmt.Sprint(column)) }

func (BaseRenderer[C, R]) RenderRowHeaders(R) []Node { return nil }

func (BaseRenderer[C, R]) RenderGroupHeader(group *Group[R]) Node { return NodeOf(group.Header) }

func (BaseRenderer[C, R]) RenderCell(C, R) Node { return nil }

func (BaseRenderer[C, R]) FindFields(rendered Node) []Control { return FindFields(rendered) }

// Table holds the columns and the root group of a data table.
type Table[C, R any] struct {
	renderer Renderer[C, R]
	columns  []C
	root     *Group[R]
	rendered *Rendered

	// OnUpdate is called after every load. Hosts use it to schedule a
	// redraw; the next Render call rebuilds the presentation.
	OnUpdate func()
}

// New creates a table of rows.
func New[C, R any](renderer Renderer[C, R], columns []C, rows []R) *Table[C, R] {
	t := &Table[C, R]{renderer: renderer}
	t.Load(columns, rows)
	return t
}

// NewGrouped creates a table whose root content is groups.
func NewGrouped[C, R any](renderer Renderer[C, R], columns []C, groups []*Group[R]) *Table[C, R] {
	t := &Table[C, R]{renderer: renderer}
	t.LoadGrouped(columns, groups)
	return t
}

// Load replaces the columns and wraps rows in a new headerless root group.
func (t *Table[C, R]) Load(columns []C, rows []R) {
	t.columns = columns
	t.root = &Group[R]{Content: Leaves(rows)}
	t.update()
}

// LoadGrouped replaces the columns and installs groups as the content of a
// new headerless root group.
func (t *Table[C, R]) LoadGrouped(columns []C, groups []*Group[R]) {
	t.columns = columns
	t.root = &Group[R]{Content: Branches(groups)}
	t.update()
}

// LoadRows replaces the root group's content with rows, keeping its header.
func (t *Table[C, R]) LoadRows(rows []R) {
	t.ensureRoot()
	t.root.Content = Leaves(rows)
	t.update()
}

// LoadGroups replaces the root group's content with groups, keeping its
// header.
func (t *Table[C, R]) LoadGroups(groups []*Group[R]) {
	t.ensureRoot()
	t.root.Content = Branches(groups)
	t.update()
}

// LoadGroup replaces the root group, header included.
func (t *Table[C, R]) LoadGroup(group *Group[R]) {
	if group == nil {
		group = &Group[R]{}
	}
	t.root = group
	t.update()
}

// Columns returns the loaded columns.
func (t *Table[C, R]) Columns() []C { return t.columns }

// Root returns the root group.
func (t *Table[C, R]) Root() *Group[R] {
	t.ensureRoot()
	return t.root
}

// Empty reports whether the table has no rows.
func (t *Table[C, R]) Empty() bool { return t.Root().Empty() }

// FirstRow returns the first row in flattened order.
func (t *Table[C, R]) FirstRow() (R, bool) { return t.Root().FirstRow() }

// Rows returns all rows in flattened order.
func (t *Table[C, R]) Rows() []R { return t.Root().Rows() }

func (t *Table[C, R]) ensureRoot() {
	if t.root == nil {
		t.root = &Group[R]{}
	}
}

func (t *Table[C, R]) update() {
	t.rendered = nil
	if t.OnUpdate != nil {
		t.OnUpdate()
	}
}

// Render returns the presentation of the current load, building it on
// first use after a load.
func (t *Table[C, R]) Render() *Rendered {
	if t.rendered == nil {
		t.rendered = t.render()
	}
	return t.rendered
}

// Invalidate discards the cached presentation so the next Render call
// invokes the hooks again.
func (t *Table[C, R]) Invalidate() {
	t.rendered = nil
}

// renderPass carries the first row's headers down the group tree. They are
// consumed by the first leaf reached, which is always the first row.
type renderPass struct {
	out          *Rendered
	firstHeaders []Node
	pending      bool
}

func (t *Table[C, R]) render() *Rendered {
	root := t.Root()
	out := &Rendered{}

	headers := make([]Node, len(t.columns))
	for i, column := range t.columns {
		headers[i] = t.renderer.RenderColumnHeader(column)
		if headers[i] == nil {
			headers[i] = Text("")
		}
	}

	columnHeaders := El(KindColumnHeaders)
	var content Node

	if root.Empty() {
		content = Wrap(t.renderer.RenderEmptyTableMessage(), KindEmpty)
	} else {
		first, _ := root.FirstRow()
		firstHeaders := t.renderer.RenderRowHeaders(first)
		out.Pivots = len(firstHeaders)

		for i := range firstHeaders {
			columnHeaders.Content = append(columnHeaders.Content, Wrap(t.renderer.RenderPivot(i), KindPivot))
		}

		pass := &renderPass{out: out, firstHeaders: firstHeaders, pending: true}
		content = t.renderGroup(pass, root, 0)
	}

	columnHeaders.Content = append(columnHeaders.Content, headers...)

	out.Root = El(KindTable, columnHeaders, El(KindContent, content))
	return out
}

func (t *Table[C, R]) renderGroup(pass *renderPass, group *Group[R], depth int) *Element {
	source := El(KindGroup)
	rg := &RenderedGroup{Source: source, Depth: depth}
	pass.out.Groups = append(pass.out.Groups, rg)

	if group.HasHeader() {
		rg.Header = Wrap(t.renderer.RenderGroupHeader(group), KindHeader)
		source.Content = append(source.Content, rg.Header)
	}

	for _, item := range group.Content {
		if child, ok := item.Group(); ok {
			source.Content = append(source.Content, t.renderGroup(pass, child, depth+1))
			continue
		}
		row, ok := item.Row()
		if !ok {
			continue
		}
		source.Content = append(source.Content, t.renderRow(pass, rg, row))
	}

	return source
}

func (t *Table[C, R]) renderRow(pass *renderPass, group *RenderedGroup, row R) *Element {
	var headers []Node
	if pass.pending {
		headers = pass.firstHeaders
		pass.pending = false
	} else {
		headers = t.renderer.RenderRowHeaders(row)
	}

	rowHeaders := El(KindRowHeaders)
	wrapped := make([]*Element, len(headers))
	for i, h := range headers {
		wrapped[i] = Wrap(h, KindHeader)
		rowHeaders.Content = append(rowHeaders.Content, wrapped[i])
	}

	source := El(KindRow, rowHeaders)
	rr := pass.out.addRow(source, wrapped, group)

	for _, column := range t.columns {
		cell := Wrap(t.renderer.RenderCell(column, row), KindCell)
		source.Content = append(source.Content, cell)
		pass.out.addCell(rr, cell, t.renderer.FindFields(cell))
	}

	return source
}
