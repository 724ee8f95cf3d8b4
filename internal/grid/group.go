package grid

// Item is one element of a group's content: either a leaf row or a nested
// group. Use Leaf and Branch to construct one.
type Item[R any] struct {
	row   R
	group *Group[R]
	leaf  bool
}

// Leaf wraps a row as group content.
func Leaf[R any](row R) Item[R] {
	return Item[R]{row: row, leaf: true}
}

// Branch wraps a nested group as group content.
func Branch[R any](group *Group[R]) Item[R] {
	return Item[R]{group: group}
}

// IsLeaf reports whether the item holds a row.
func (i Item[R]) IsLeaf() bool {
	return i.leaf
}

// Row returns the item's row, if it is a leaf.
func (i Item[R]) Row() (R, bool) {
	return i.row, i.leaf
}

// Group returns the item's nested group, if it is a branch.
func (i Item[R]) Group() (*Group[R], bool) {
	if i.leaf {
		return nil, false
	}
	return i.group, i.group != nil
}

// Group is a node in the presentation tree. Header is rendered through the
// group header hook unless it is nil; any other value renders, including an
// empty string or a typed nil pointer.
type Group[R any] struct {
	Header  any
	Content []Item[R]
}

// NewGroup creates a group with the given header and content.
func NewGroup[R any](header any, content ...Item[R]) *Group[R] {
	return &Group[R]{Header: header, Content: content}
}

// RowGroup creates a group whose content is the given rows.
func RowGroup[R any](header any, rows []R) *Group[R] {
	return &Group[R]{Header: header, Content: Leaves(rows)}
}

// Leaves wraps every row as a leaf item.
func Leaves[R any](rows []R) []Item[R] {
	items := make([]Item[R], len(rows))
	for i, row := range rows {
		items[i] = Leaf(row)
	}
	return items
}

// Branches wraps every group as a branch item.
func Branches[R any](groups []*Group[R]) []Item[R] {
	items := make([]Item[R], len(groups))
	for i, g := range groups {
		items[i] = Branch(g)
	}
	return items
}

// HasHeader reports whether the group header hook will be invoked.
func (g *Group[R]) HasHeader() bool {
	return g.Header != nil
}

// Empty reports whether no leaf row is reachable from the group.
func (g *Group[R]) Empty() bool {
	for _, item := range g.Content {
		if item.leaf {
			return false
		}
		if item.group != nil && !item.group.Empty() {
			return false
		}
	}
	return true
}

// FirstRow returns the first leaf row in depth-first content order.
func (g *Group[R]) FirstRow() (R, bool) {
	for _, item := range g.Content {
		if item.leaf {
			return item.row, true
		}
		if item.group != nil {
			if row, ok := item.group.FirstRow(); ok {
				return row, true
			}
		}
	}

	var zero R
	return zero, false
}

// Rows returns every leaf row in depth-first content order.
func (g *Group[R]) Rows() []R {
	var rows []R
	g.Walk(func(row R, _ []*Group[R]) {
		rows = append(rows, row)
	})
	return rows
}

// Walk visits every leaf row in depth-first content order. path holds the
// groups from g down to the row's immediate parent and is only valid for the
// duration of the call.
func (g *Group[R]) Walk(fn func(row R, path []*Group[R])) {
	g.walk(fn, nil)
}

func (g *Group[R]) walk(fn func(row R, path []*Group[R]), path []*Group[R]) {
	path = append(path, g)
	for _, item := range g.Content {
		switch {
		case item.leaf:
			fn(item.row, path)
		case item.group != nil:
			item.group.walk(fn, path)
		}
	}
}
