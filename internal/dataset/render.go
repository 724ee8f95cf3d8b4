package dataset

import (
	"fmt"

	"github.com/imgajeed76/datagrid/internal/grid"
)

// Renderer presents a dataset to the grid. Cells render their fields'
// controls, separated by a space when a cell holds several.
type Renderer struct {
	grid.BaseRenderer[string, *Row]
	ds *Dataset
}

// Renderer returns the grid renderer of the dataset.
func (d *Dataset) Renderer() *Renderer {
	return &Renderer{ds: d}
}

func (r *Renderer) RenderPivot(int) grid.Node {
	return grid.Text(r.ds.LabelHeader)
}

func (r *Renderer) RenderEmptyTableMessage() grid.Node {
	return grid.Text("No rows")
}

func (r *Renderer) RenderRowHeaders(row *Row) []grid.Node {
	if !r.ds.HasLabels() {
		return nil
	}
	return []grid.Node{grid.Text(row.Label)}
}

func (r *Renderer) RenderGroupHeader(group *grid.Group[*Row]) grid.Node {
	return grid.Text(fmt.Sprintf("%v (%d)", group.Header, len(group.Rows())))
}

func (r *Renderer) RenderCell(column string, row *Row) grid.Node {
	cell := row.Cell(column)
	if cell == nil || len(cell.Fields) == 0 {
		return nil
	}
	if len(cell.Fields) == 1 {
		return cell.Fields[0].Control()
	}

	content := make(grid.Fragment, 0, 2*len(cell.Fields)-1)
	for i, f := range cell.Fields {
		if i > 0 {
			content = append(content, grid.Text(" "))
		}
		content = append(content, f.Control())
	}
	return content
}
