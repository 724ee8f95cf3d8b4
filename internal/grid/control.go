package grid

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Control is an editable surface inside a rendered cell. Implementations
// must be pointer types: the rendered table indexes controls by identity.
type Control interface {
	Node

	Value() string
	SetValue(value string)

	Focus()
	Blur()
	Focused() bool
	// SelectAll marks the whole value for overwrite. Controls that hold no
	// free text ignore it.
	SelectAll()

	// Target returns the explicitly declared alignment target, if any.
	Target() (string, bool)

	Update(msg tea.KeyMsg) tea.Cmd
	View() string
}

var selectionStyle = lipgloss.NewStyle().Reverse(true)

// Input is a single-line text control.
type Input struct {
	model     textinput.Model
	target    string
	hasTarget bool
	selected  bool
	committed string

	// OnCommit is called on blur when the value changed since the last
	// commit.
	OnCommit func(value string)
}

// NewInput creates a text control holding value.
func NewInput(value string) *Input {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(value)
	ti.CursorEnd()

	return &Input{model: ti, committed: value}
}

// WithTarget declares an explicit alignment target.
func (in *Input) WithTarget(target string) *Input {
	in.target = target
	in.hasTarget = true
	return in
}

// WithPlaceholder sets the text shown while the value is empty.
func (in *Input) WithPlaceholder(placeholder string) *Input {
	in.model.Placeholder = placeholder
	return in
}

func (in *Input) Children() []Node { return nil }

func (in *Input) Value() string { return in.model.Value() }

func (in *Input) SetValue(value string) {
	in.model.SetValue(value)
	in.model.CursorEnd()
	in.selected = false
}

func (in *Input) Focus() {
	in.model.Focus()
}

func (in *Input) Blur() {
	in.model.Blur()
	in.selected = false
	in.commit()
}

func (in *Input) Focused() bool { return in.model.Focused() }

func (in *Input) SelectAll() {
	in.selected = true
	in.model.CursorEnd()
}

// Selected reports whether the whole value is marked for overwrite.
func (in *Input) Selected() bool { return in.selected }

func (in *Input) Target() (string, bool) { return in.target, in.hasTarget }

func (in *Input) Update(msg tea.KeyMsg) tea.Cmd {
	if in.selected {
		in.selected = false
		switch msg.Type {
		case tea.KeyRunes, tea.KeySpace:
			in.model.SetValue("")
		case tea.KeyBackspace, tea.KeyDelete:
			in.model.SetValue("")
			return nil
		}
	}

	var cmd tea.Cmd
	in.model, cmd = in.model.Update(msg)
	return cmd
}

func (in *Input) View() string {
	if in.selected && in.model.Focused() && in.model.Value() != "" {
		return selectionStyle.Render(in.model.Value())
	}
	return in.model.View()
}

func (in *Input) commit() {
	value := in.model.Value()
	if value == in.committed {
		return
	}
	in.committed = value
	if in.OnCommit != nil {
		in.OnCommit(value)
	}
}

// Select is a control that holds one of a fixed list of options. Setting a
// value that is not an option clears the selection.
type Select struct {
	options   []string
	index     int
	focused   bool
	target    string
	hasTarget bool
	committed string

	// OnCommit is called on blur when the value changed since the last
	// commit.
	OnCommit func(value string)
}

// NewSelect creates a selection control over options with value selected.
func NewSelect(options []string, value string) *Select {
	s := &Select{options: options, index: -1}
	s.SetValue(value)
	s.committed = s.Value()
	return s
}

// WithTarget declares an explicit alignment target.
func (s *Select) WithTarget(target string) *Select {
	s.target = target
	s.hasTarget = true
	return s
}

// Options returns the selectable values.
func (s *Select) Options() []string { return s.options }

func (s *Select) Children() []Node { return nil }

func (s *Select) Value() string {
	if s.index < 0 || s.index >= len(s.options) {
		return ""
	}
	return s.options[s.index]
}

func (s *Select) SetValue(value string) {
	s.index = -1
	for i, opt := range s.options {
		if opt == value {
			s.index = i
			return
		}
	}
	for i, opt := range s.options {
		if strings.EqualFold(opt, value) {
			s.index = i
			return
		}
	}
}

func (s *Select) Focus() { s.focused = true }

func (s *Select) Blur() {
	s.focused = false
	value := s.Value()
	if value == s.committed {
		return
	}
	s.committed = value
	if s.OnCommit != nil {
		s.OnCommit(value)
	}
}

func (s *Select) Focused() bool { return s.focused }

func (s *Select) SelectAll() {}

func (s *Select) Target() (string, bool) { return s.target, s.hasTarget }

func (s *Select) Update(msg tea.KeyMsg) tea.Cmd {
	if len(s.options) == 0 {
		return nil
	}

	switch msg.String() {
	case " ", "enter", "+":
		s.index = (s.index + 1) % len(s.options)
		return nil
	case "-":
		if s.index <= 0 {
			s.index = len(s.options) - 1
		} else {
			s.index--
		}
		return nil
	}

	// Typing a letter jumps to the next option starting with it.
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		prefix := strings.ToLower(string(msg.Runes))
		for step := 1; step <= len(s.options); step++ {
			i := (s.index + step) % len(s.options)
			if strings.HasPrefix(strings.ToLower(s.options[i]), prefix) {
				s.index = i
				break
			}
		}
	}
	return nil
}

func (s *Select) View() string {
	label := s.Value()
	if label == "" {
		label = " "
	}
	view := label + " ▾"
	if s.focused {
		return selectionStyle.Render(view)
	}
	return view
}
