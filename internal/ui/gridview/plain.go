package gridview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/imgajeed76/datagrid/internal/dataset"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/ui/styles"
)

// OutputMode selects a non-interactive rendering.
type OutputMode int

const (
	OutputPlain OutputMode = iota
	OutputJSON
	OutputRaw
)

// Print writes ds to w in the given mode.
func Print(w io.Writer, ds *dataset.Dataset, mode OutputMode) error {
	switch mode {
	case OutputJSON:
		return ds.WriteJSON(w)
	case OutputRaw:
		PrintRaw(w, ds)
		return nil
	}
	PrintPlain(w, ds)
	return nil
}

// PrintRaw outputs the rows as tab-separated values without a header, for
// piping.
func PrintRaw(w io.Writer, ds *dataset.Dataset) {
	_, records := ds.Records()
	for _, record := range records {
		fmt.Fprintln(w, strings.Join(record, "\t"))
	}
}

// PrintPlain prints a properly aligned table for non-TTY output. Shows full
// content without truncation; group headers get a line of their own.
func PrintPlain(w io.Writer, ds *dataset.Dataset) {
	header, records := ds.Records()
	if len(header) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	labels := ds.HasLabels()
	if labels {
		header = append([]string{ds.LabelHeader}, header...)
		rows := ds.Rows()
		for i := range records {
			records[i] = append([]string{rows[i].Label}, records[i]...)
		}
	}

	// Calculate column widths based on actual content (no truncation)
	colWidths := make([]int, len(header))
	for i, name := range header {
		colWidths[i] = ansi.StringWidth(name)
	}
	for _, record := range records {
		for i, val := range record {
			if vw := ansi.StringWidth(val); vw > colWidths[i] {
				colWidths[i] = vw
			}
		}
	}

	fmt.Fprintln(w, joinPadded(header, colWidths))

	seps := make([]string, len(colWidths))
	for i, cw := range colWidths {
		seps[i] = strings.Repeat("─", cw)
	}
	fmt.Fprintln(w, strings.Join(seps, "  "))

	// Rows, preceded by the headers of the groups they enter
	renderer := ds.Renderer()
	var prev []*grid.Group[*dataset.Row]
	i := 0
	ds.Root.Walk(func(row *dataset.Row, path []*grid.Group[*dataset.Row]) {
		common := 0
		for common < len(path) && common < len(prev) && path[common] == prev[common] {
			common++
		}
		for depth := common; depth < len(path); depth++ {
			if g := path[depth]; g.HasHeader() {
				indent := strings.Repeat("  ", max(0, depth-1))
				fmt.Fprintln(w, indent+styles.Render(styles.GroupHeaderStyle, nodeView(renderer.RenderGroupHeader(g))))
			}
		}
		prev = append(prev[:0], path...)

		fmt.Fprintln(w, joinPadded(records[i], colWidths))
		i++
	})

	fmt.Fprintln(w)
	fmt.Fprintf(w, "(%d rows)\n", len(records))
}

func joinPadded(values []string, widths []int) string {
	padded := make([]string, len(values))
	for i, v := range values {
		padded[i] = pad(v, widths[i])
	}
	return strings.TrimRight(strings.Join(padded, "  "), " ")
}

// pad adds spaces to reach the desired width (no truncation).
func pad(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// fit pads or truncates to exact width, keeping escape sequences intact.
func fit(s string, width int) string {
	if ansi.StringWidth(s) > width {
		s = ansi.Truncate(s, width, "…")
	}
	return pad(s, width)
}
