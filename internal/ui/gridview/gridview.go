// Package gridview hosts a dataset's grid in the terminal. It supports an
// interactive editor (keyboard navigation, spreadsheet paste, row copy,
// horizontal scrolling), plain text tables, JSON output, and raw
// tab-separated output.
//
// This package is used by both `datagrid edit` and `datagrid sql`.
package gridview

import (
	"os"

	"github.com/atotto/clipboard"
	"github.com/imgajeed76/datagrid/internal/grid"
	"golang.org/x/term"
)

// Result tells the caller how the editor was left.
type Result int

const (
	ResultDiscard Result = iota // quit without saving
	ResultSave                  // ctrl+s
)

// Clipboard is the system clipboard as the editor uses it.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Options controls the interactive editor.
type Options struct {
	Keys      grid.KeyMap
	Paste     grid.PasteOptions
	ColWidth  int    // maximum column width
	DebugLog  string // file receiving the log while the editor runs
	Clipboard Clipboard
}

// DefaultOptions returns the built-in bindings and layout.
func DefaultOptions() Options {
	return Options{
		Keys:      grid.DefaultKeyMap(),
		Paste:     grid.DefaultPasteOptions(),
		ColWidth:  defaultColWidth,
		Clipboard: systemClipboard{},
	}
}

// Interactive reports whether the editor can run: stdout must be a
// terminal and the caller must not have asked for plain output.
func Interactive(noPager bool) bool {
	return !noPager && term.IsTerminal(int(os.Stdout.Fd()))
}
