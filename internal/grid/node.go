package grid

import "fmt"

// Node is one piece of rendered presentation. Containers expose their
// children; leaves return nil.
type Node interface {
	Children() []Node
}

// Text is a plain text leaf.
type Text string

func (Text) Children() []Node { return nil }

// Fragment is an ordered list of nodes without a wrapper of its own.
type Fragment []Node

func (f Fragment) Children() []Node { return f }

// Kind names a structural wrapper in the rendered table.
type Kind string

const (
	KindTable         Kind = "data-table"
	KindColumnHeaders Kind = "column-headers"
	KindContent       Kind = "content"
	KindEmpty         Kind = "empty"
	KindPivot         Kind = "pivot"
	KindGroup         Kind = "group"
	KindHeader        Kind = "header"
	KindRow           Kind = "row"
	KindRowHeaders    Kind = "row-headers"
	KindCell          Kind = "cell"
)

// Element is a structural wrapper of a given kind.
type Element struct {
	Kind    Kind
	Content []Node
}

func (e *Element) Children() []Node {
	if e == nil {
		return nil
	}
	return e.Content
}

// El creates an element, dropping nil children. A nil *Element counts as
// nil.
func El(kind Kind, children ...Node) *Element {
	e := &Element{Kind: kind}
	for _, c := range children {
		if c == nil {
			continue
		}
		if el, ok := c.(*Element); ok && el == nil {
			continue
		}
		e.Content = append(e.Content, c)
	}
	return e
}

// IsKind reports whether n is an element of the given kind.
func IsKind(n Node, kind Kind) bool {
	e, ok := n.(*Element)
	return ok && e != nil && e.Kind == kind
}

// Wrap places content inside an element of the given kind, unless content
// already is one.
func Wrap(content Node, kind Kind) *Element {
	if IsKind(content, kind) {
		return content.(*Element)
	}
	return El(kind, content)
}

// NodeOf converts an arbitrary header or label value into a node.
func NodeOf(v any) Node {
	switch v := v.(type) {
	case nil:
		return nil
	case Node:
		return v
	case string:
		return Text(v)
	default:
		return Text(fmt.Sprint(v))
	}
}
