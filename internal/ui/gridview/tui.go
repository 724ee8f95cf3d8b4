package gridview

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/imgajeed76/datagrid/internal/dataset"
	"github.com/imgajeed76/datagrid/internal/grid"
	"github.com/imgajeed76/datagrid/internal/ui/styles"
	"github.com/imgajeed76/datagrid/internal/util"
)

// ═══════════════════════════════════════════════════════════════════════════
// Constants
// ═══════════════════════════════════════════════════════════════════════════

const (
	defaultColWidth = 20
	minColWidth     = 3
	gutterWidth     = 2 // focus marker column
	colGap          = 2
)

// ═══════════════════════════════════════════════════════════════════════════
// Model
// ═══════════════════════════════════════════════════════════════════════════

type gridModel struct {
	ds     *dataset.Dataset
	table  *grid.Table[string, *dataset.Row]
	opts   Options
	help   help.Model
	logger *log.Logger
	focus  grid.Control // the focused field's control; nil for an empty table

	scrollX int // horizontal scroll offset in characters
	scrollY int // vertical scroll offset in body lines
	width   int // terminal width
	height  int // terminal height
	ready   bool
	result  Result

	// Status message (flash notification, e.g. after paste or yank)
	statusMsg   string
	statusErr   bool
	statusUntil time.Time
}

// ═══════════════════════════════════════════════════════════════════════════
// Key Bindings
// ═══════════════════════════════════════════════════════════════════════════

type viewKeyMap struct {
	Quit     key.Binding
	Save     key.Binding
	Paste    key.Binding
	YankRow  key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	First    key.Binding
	Last     key.Binding
}

var viewKeys = viewKeyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Paste:    key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
	YankRow:  key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy row")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
	First:    key.NewBinding(key.WithKeys("ctrl+home"), key.WithHelp("ctrl+home", "first row")),
	Last:     key.NewBinding(key.WithKeys("ctrl+end"), key.WithHelp("ctrl+end", "last row")),
}

// helpKeys joins the grid's navigation bindings and the editor's own.
type helpKeys struct {
	grid grid.KeyMap
}

func (h helpKeys) ShortHelp() []key.Binding {
	return []key.Binding{h.grid.NextRow, h.grid.NextCell, h.grid.NextField, viewKeys.Paste, viewKeys.YankRow, viewKeys.Save, viewKeys.Quit}
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return append(h.grid.FullHelp(), []key.Binding{
		viewKeys.Paste, viewKeys.YankRow, viewKeys.PageUp, viewKeys.PageDown,
		viewKeys.First, viewKeys.Last, viewKeys.Save, viewKeys.Quit,
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// Entry Point
// ═══════════════════════════════════════════════════════════════════════════

// Run launches the interactive editor. It blocks until the user quits and
// reports whether they saved. Edits are committed to ds as fields lose
// focus; on save the focused field is committed too.
func Run(ds *dataset.Dataset, opts Options) (Result, error) {
	if opts.DebugLog != "" {
		f, err := tea.LogToFile(opts.DebugLog, "datagrid")
		if err != nil {
			return ResultDiscard, fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
	}

	m := newGridModel(ds, opts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return ResultDiscard, err
	}

	if fm, ok := finalModel.(gridModel); ok {
		return fm.result, nil
	}
	return ResultDiscard, nil
}

func newGridModel(ds *dataset.Dataset, opts Options) gridModel {
	if opts.ColWidth < minColWidth {
		opts.ColWidth = defaultColWidth
	}
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}

	// The terminal belongs to the editor; only a debug log gets diagnostics
	logger := log.New(io.Discard, "", 0)
	if opts.DebugLog != "" {
		logger = log.Default()
	}

	m := gridModel{
		ds:     ds,
		table:  ds.Table(),
		opts:   opts,
		help:   help.New(),
		logger: logger,
	}
	m.table.OnUpdate = func() {
		logger.Printf("table reloaded, %d rows", len(m.table.Rows()))
	}
	ds.OnChange = func(f *dataset.Field) {
		logger.Printf("commit %s/%s: %q -> %q", util.ShortID(f.Row().ID), f.Column(), f.Original(), f.Value)
	}

	m.focusFirst()
	return m
}

// focusFirst focuses the first field of the table, if any. A previous
// focus is blurred, which commits it.
func (m *gridModel) focusFirst() {
	if f, ok := m.table.Render().FirstField(); ok {
		grid.MoveFocus(m.focus, f.Control)
		m.focus = f.Control
		return
	}
	if m.focus != nil {
		m.focus.Blur()
	}
	m.focus = nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Bubble Tea Interface
// ═══════════════════════════════════════════════════════════════════════════

func (m gridModel) Init() tea.Cmd {
	return nil
}

func (m gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.ensureFocusVisible()

	case statusClearMsg:
		// Clear the flash message if it has expired
		if !m.statusUntil.IsZero() && time.Now().After(m.statusUntil) {
			m.statusMsg = ""
			m.statusUntil = time.Time{}
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

// updateKey routes a key: editor commands first, then spreadsheet paste,
// then grid navigation, and whatever is left goes to the focused control.
func (m gridModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !msg.Paste {
		switch {
		case key.Matches(msg, viewKeys.Quit):
			m.result = ResultDiscard
			return m, tea.Quit

		case key.Matches(msg, viewKeys.Save):
			if m.focus != nil {
				m.focus.Blur()
			}
			m.result = ResultSave
			return m, tea.Quit
		}
	}

	if m.focus == nil {
		return m, nil
	}

	r := m.table.Render()
	if _, ok := r.Locate(m.focus); !ok {
		// The table was reloaded under us
		m.focusFirst()
		return m, nil
	}

	if msg.Paste {
		return m, m.pasteText(r, string(msg.Runes))
	}

	switch {
	case key.Matches(msg, viewKeys.Paste):
		text, err := m.opts.Clipboard.ReadAll()
		if err != nil {
			return m, m.clipboardError(err)
		}
		return m, m.pasteText(r, util.ToValidUTF8(text))

	case key.Matches(msg, viewKeys.YankRow):
		return m, m.yankRow(r)

	case key.Matches(msg, viewKeys.PageUp):
		m.moveRows(r, -m.visibleLineCount())
		return m, nil

	case key.Matches(msg, viewKeys.PageDown):
		m.moveRows(r, m.visibleLineCount())
		return m, nil

	case key.Matches(msg, viewKeys.First):
		m.moveRows(r, -len(r.Rows))
		return m, nil

	case key.Matches(msg, viewKeys.Last):
		m.moveRows(r, len(r.Rows))
		return m, nil
	}

	if dest, ok := r.Navigate(m.focus, msg, m.opts.Keys); ok {
		m.focus = dest
		m.ensureFocusVisible()
		return m, nil
	}

	return m, m.focus.Update(msg)
}

// ═══════════════════════════════════════════════════════════════════════════
// Editing
// ═══════════════════════════════════════════════════════════════════════════

// pasteText spreads a block from the focused field. A single value is
// typed into the focused control instead, without its line break.
func (m *gridModel) pasteText(r *grid.Rendered, text string) tea.Cmd {
	text = lineBreaks(text)
	if cmd, ok := m.paste(r, text); ok {
		return cmd
	}

	if data := grid.ParseClipboard(text, m.opts.Paste); len(data) == 1 && len(data[0]) == 1 {
		text = data[0][0]
	}
	if text == "" {
		return nil
	}
	return m.focus.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
}

// paste spreads text from the focused field. It reports false for a single
// value.
func (m *gridModel) paste(r *grid.Rendered, text string) (tea.Cmd, bool) {
	if !r.Paste(m.focus, text, m.opts.Paste) {
		return nil, false
	}

	data := grid.ParseClipboard(text, m.opts.Paste)
	width := 0
	for _, row := range data {
		width = max(width, len(row))
	}
	m.logger.Printf("paste %dx%d block", len(data), width)
	return m.setStatus(fmt.Sprintf("Pasted %d×%d values", len(data), width)), true
}

// lineBreaks turns the bare carriage returns some terminals send for line
// breaks into newlines. CRLF pairs are left to the row splitter.
func lineBreaks(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\r' && (i+1 == len(text) || text[i+1] != '\n') {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteByte(text[i])
	}
	return sb.String()
}

// yankRow copies the focused row's values (tab-separated) to the clipboard.
func (m *gridModel) yankRow(r *grid.Rendered) tea.Cmd {
	field, ok := r.Locate(m.focus)
	if !ok {
		return nil
	}
	rows := m.table.Rows()
	index := field.Cell().Row().Index
	if index >= len(rows) {
		return nil
	}

	// Commit the focused field so the copy includes what is being typed
	m.focus.Blur()
	m.focus.Focus()

	val := m.ds.RowTSV(rows[index])
	if err := m.opts.Clipboard.WriteAll(val); err != nil {
		return m.clipboardError(err)
	}
	return m.setStatus(fmt.Sprintf("Copied row (%d values)", strings.Count(val, "\t")+1))
}

// moveRows moves focus n rows down (or up for negative n), clamped to the
// table. It keeps the cell and target when the destination row has them and
// otherwise lands on the row's first field.
func (m *gridModel) moveRows(r *grid.Rendered, n int) {
	field, ok := r.Locate(m.focus)
	if !ok || len(r.Rows) == 0 {
		return
	}

	index := field.Cell().Row().Index + n
	index = max(0, min(index, len(r.Rows)-1))
	row := r.Rows[index]

	var dest *grid.Field
	if cell, ok := r.Cell(index, field.Cell().Index); ok {
		dest, _ = cell.Field(field.Target)
	}
	if dest == nil {
		for _, cell := range row.Cells {
			if len(cell.Fields) > 0 {
				dest = cell.Fields[0]
				break
			}
		}
	}
	if dest == nil || dest.Control == m.focus {
		return
	}

	grid.MoveFocus(m.focus, dest.Control)
	m.focus = dest.Control
	m.ensureFocusVisible()
}

// ═══════════════════════════════════════════════════════════════════════════
// Status Message (flash notification)
// ═══════════════════════════════════════════════════════════════════════════

type statusClearMsg struct{}

const statusDuration = 2 * time.Second

// setStatus sets a temporary status message that auto-clears.
func (m *gridModel) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = false
	m.statusUntil = time.Now().Add(statusDuration)
	return tea.Tick(statusDuration, func(t time.Time) tea.Msg {
		return statusClearMsg{}
	})
}

func (m *gridModel) setError(msg string) tea.Cmd {
	cmd := m.setStatus(msg)
	m.statusErr = true
	return cmd
}

func (m *gridModel) clipboardError(err error) tea.Cmd {
	m.logger.Printf("clipboard: %v", err)
	ce := util.ClipboardError(err)
	return m.setError(fmt.Sprintf("%s: %v", ce.Title, ce.Err))
}

// ═══════════════════════════════════════════════════════════════════════════
// Layout
// ═══════════════════════════════════════════════════════════════════════════

// nodeView draws a presentation node: controls draw themselves, text is
// verbatim, and containers concatenate their children.
func nodeView(n grid.Node) string {
	switch n := n.(type) {
	case nil:
		return ""
	case grid.Control:
		return n.View()
	case grid.Text:
		return string(n)
	}

	var sb strings.Builder
	for _, child := range n.Children() {
		sb.WriteString(nodeView(child))
	}
	return sb.String()
}

// layout holds the measured widths of one render.
type layout struct {
	pivots  []int
	columns []int
}

func (m gridModel) measure(r *grid.Rendered) layout {
	headers := r.Root.Content[0].(*grid.Element).Content

	l := layout{
		pivots:  make([]int, r.Pivots),
		columns: make([]int, len(headers)-r.Pivots),
	}
	for i, h := range headers {
		w := ansi.StringWidth(nodeView(h))
		if i < r.Pivots {
			l.pivots[i] = w
		} else {
			l.columns[i-r.Pivots] = w
		}
	}

	for _, row := range r.Rows {
		for i, h := range row.Headers {
			if i < len(l.pivots) {
				l.pivots[i] = max(l.pivots[i], ansi.StringWidth(nodeView(h)))
			}
		}
		for i, cell := range row.Cells {
			l.columns[i] = max(l.columns[i], ansi.StringWidth(nodeView(cell.Source)))
		}
	}

	for i := range l.pivots {
		l.pivots[i] = max(minColWidth, min(l.pivots[i], m.opts.ColWidth))
	}
	for i := range l.columns {
		l.columns[i] = max(minColWidth, min(l.columns[i], m.opts.ColWidth))
	}
	return l
}

// cellStartX returns the horizontal offset of a column in a row line.
func (l layout) cellStartX(column int) int {
	x := gutterWidth
	for _, w := range l.pivots {
		x += w + colGap
	}
	for i := 0; i < column && i < len(l.columns); i++ {
		x += l.columns[i] + colGap
	}
	return x
}

func (l layout) totalWidth() int {
	return l.cellStartX(len(l.columns))
}

// body lays out the content below the column headers: group headers
// indented by depth, rows, or the empty-table message. rowLines maps each
// rendered row to its line.
func (m gridModel) body(r *grid.Rendered, l layout) (lines []string, rowLines []int) {
	rows := make(map[*grid.Element]*grid.RenderedRow, len(r.Rows))
	for _, row := range r.Rows {
		rows[row.Source] = row
	}
	rowLines = make([]int, len(r.Rows))

	focusRow := -1
	if f, ok := r.Locate(m.focus); ok {
		focusRow = f.Cell().Row().Index
	}

	// depth is the depth of the enclosing group; the root group is 0
	var walk func(n grid.Node, depth int)
	walk = func(n grid.Node, depth int) {
		el, ok := n.(*grid.Element)
		if !ok || el == nil {
			return
		}

		switch el.Kind {
		case grid.KindGroup:
			for _, child := range el.Content {
				walk(child, depth+1)
			}
		case grid.KindHeader:
			indent := strings.Repeat("  ", max(0, depth-1))
			lines = append(lines, strings.Repeat(" ", gutterWidth)+indent+styles.Render(styles.GroupHeaderStyle, nodeView(el)))
		case grid.KindRow:
			row := rows[el]
			if row == nil {
				return
			}
			rowLines[row.Index] = len(lines)
			lines = append(lines, m.rowLine(row, l, row.Index == focusRow))
		case grid.KindEmpty:
			lines = append(lines, strings.Repeat(" ", gutterWidth)+styles.Render(styles.EmptyStyle, nodeView(el)))
		default:
			for _, child := range el.Content {
				walk(child, depth)
			}
		}
	}
	walk(r.Root.Content[1], -1)

	return lines, rowLines
}

func (m gridModel) rowLine(row *grid.RenderedRow, l layout, focused bool) string {
	var sb strings.Builder

	if focused {
		sb.WriteString(styles.Render(styles.FocusCellStyle, fit("▸", gutterWidth)))
	} else {
		sb.WriteString(strings.Repeat(" ", gutterWidth))
	}

	for i, h := range row.Headers {
		if i >= len(l.pivots) {
			break
		}
		sb.WriteString(styles.Render(styles.RowHeaderStyle, fit(nodeView(h), l.pivots[i])))
		sb.WriteString(strings.Repeat(" ", colGap))
	}
	for i, cell := range row.Cells {
		sb.WriteString(fit(nodeView(cell.Source), l.columns[i]))
		sb.WriteString(strings.Repeat(" ", colGap))
	}

	return sb.String()
}

func (m gridModel) headerLine(r *grid.Rendered, l layout) (header, separator string) {
	var hb, sb strings.Builder
	hb.WriteString(strings.Repeat(" ", gutterWidth))
	sb.WriteString(strings.Repeat(" ", gutterWidth))

	headers := r.Root.Content[0].(*grid.Element).Content
	for i, h := range headers {
		w := 0
		style := styles.ColumnHeaderStyle
		if i < r.Pivots {
			w = l.pivots[i]
			style = styles.RowHeaderStyle
		} else {
			w = l.columns[i-r.Pivots]
		}
		hb.WriteString(styles.Render(style, fit(nodeView(h), w)))
		hb.WriteString(strings.Repeat(" ", colGap))
		sb.WriteString(styles.Render(styles.SeparatorStyle, strings.Repeat("─", w)))
		sb.WriteString(strings.Repeat(" ", colGap))
	}

	return hb.String(), sb.String()
}

// ═══════════════════════════════════════════════════════════════════════════
// Scroll Helpers
// ═══════════════════════════════════════════════════════════════════════════

func (m gridModel) visibleLineCount() int {
	count := m.height - 6 // title, status, header, separator, indicators, help
	if count < 1 {
		count = 1
	}
	return count
}

// ensureFocusVisible scrolls so the focused cell is on screen.
func (m *gridModel) ensureFocusVisible() {
	r := m.table.Render()
	field, ok := r.Locate(m.focus)
	if !ok {
		return
	}
	l := m.measure(r)
	_, rowLines := m.body(r, l)

	line := rowLines[field.Cell().Row().Index]
	visible := m.visibleLineCount()
	if line < m.scrollY {
		m.scrollY = line
	} else if line >= m.scrollY+visible {
		m.scrollY = line - visible + 1
	}

	if m.width <= 0 {
		return
	}
	col := field.Cell().Index
	startX := l.cellStartX(col)
	endX := startX + l.columns[col]
	pinned := l.cellStartX(0) // gutter and row headers

	if startX-pinned < m.scrollX {
		m.scrollX = startX - pinned
	} else if endX > m.scrollX+m.width {
		m.scrollX = endX - m.width
	}

	maxX := max(0, l.totalWidth()-m.width)
	m.scrollX = max(0, min(m.scrollX, maxX))
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

func (m gridModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder
	r := m.table.Render()
	l := m.measure(r)

	// Header with title info
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)
	sb.WriteString(styles.Render(headerStyle, fmt.Sprintf("%s: %d rows, %d columns", m.ds.Title, len(r.Rows), len(l.columns))))
	if n := len(m.ds.Changes()); n > 0 {
		sb.WriteString(styles.Render(styles.ChangedStyle, fmt.Sprintf("  [%d changed]", n)))
	}
	sb.WriteString("\n")

	// Status line
	if m.statusMsg != "" && time.Now().Before(m.statusUntil) {
		if m.statusErr {
			sb.WriteString(styles.ErrorText(m.statusMsg))
		} else {
			sb.WriteString(styles.SuccessMsg(m.statusMsg))
		}
	}
	sb.WriteString("\n")

	header, separator := m.headerLine(r, l)
	sb.WriteString(m.viewport(header))
	sb.WriteString("\n")
	sb.WriteString(m.viewport(separator))
	sb.WriteString("\n")

	lines, _ := m.body(r, l)
	visible := m.visibleLineCount()
	end := min(len(lines), m.scrollY+visible)
	for _, line := range lines[min(m.scrollY, end):end] {
		sb.WriteString(m.viewport(line))
		sb.WriteString("\n")
	}

	// Scroll indicators
	var indicators []string
	if m.scrollX > 0 {
		indicators = append(indicators, "◀")
	}
	if m.scrollX+m.width < l.totalWidth() {
		indicators = append(indicators, "▶")
	}
	if m.scrollY > 0 {
		indicators = append(indicators, "▲")
	}
	if m.scrollY+visible < len(lines) {
		indicators = append(indicators, "▼")
	}
	sb.WriteString(styles.MutedMsg(strings.Join(indicators, " ")))
	sb.WriteString("\n")

	sb.WriteString(m.help.View(helpKeys{grid: m.opts.Keys}))

	return sb.String()
}

// viewport cuts the horizontal slice of a line that is on screen.
func (m gridModel) viewport(line string) string {
	if m.width <= 0 {
		return line
	}
	return ansi.Cut(line, m.scrollX, m.scrollX+m.width)
}
