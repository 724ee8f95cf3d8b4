package grid

import "strconv"

// FindFields returns the controls inside a rendered cell in depth-first
// order. Containers are transparent to the scan.
func FindFields(rendered Node) []Control {
	var fields []Control
	collectFields(rendered, &fields)
	return fields
}

func collectFields(n Node, fields *[]Control) {
	if n == nil {
		return
	}
	if c, ok := n.(Control); ok {
		*fields = append(*fields, c)
		return
	}
	for _, child := range n.Children() {
		collectFields(child, fields)
	}
}

// FieldTarget resolves the alignment target of control among all, the fields
// of its cell in FindFields order. An explicit target wins; otherwise the
// control's position is used. A control missing from all has no target.
func FieldTarget(control Control, all []Control) string {
	if target, ok := control.Target(); ok {
		return target
	}
	for i, c := range all {
		if c == control {
			return strconv.Itoa(i)
		}
	}
	return ""
}
