package styles

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Symbols - Unicode with ASCII fallbacks
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolArrow   = "→"
)

var forceNoColor bool

// SetNoColor disables colors regardless of the environment
func SetNoColor(v bool) {
	forceNoColor = v
}

// NoColor checks if colors should be disabled
func NoColor() bool {
	return forceNoColor || os.Getenv("NO_COLOR") != "" || os.Getenv("DATAGRID_NO_COLOR") != ""
}

// IsAccessible checks if accessibility mode is enabled
// When enabled: no spinner, simplified output
func IsAccessible() bool {
	return os.Getenv("DATAGRID_ACCESSIBLE") == "1" || os.Getenv("DATAGRID_ACCESSIBLE") == "true"
}

// Base text styles
var (
	Bold = lipgloss.NewStyle().Bold(true)
)

// Semantic styles - use these instead of raw colors
var (
	// Message types
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)

	// Grid display
	ColumnHeaderStyle = lipgloss.NewStyle().Foreground(ColorColumnHeader).Bold(true)
	RowHeaderStyle    = lipgloss.NewStyle().Foreground(ColorRowHeader)
	GroupHeaderStyle  = lipgloss.NewStyle().Foreground(ColorGroupHeader).Bold(true)
	EmptyStyle        = lipgloss.NewStyle().Foreground(ColorEmpty).Italic(true)
	FocusCellStyle    = lipgloss.NewStyle().Foreground(ColorFocus).Bold(true)
	ChangedStyle      = lipgloss.NewStyle().Foreground(ColorChanged)
	SeparatorStyle    = lipgloss.NewStyle().Foreground(BgBorder)

	// Diff display
	DiffAddLine    = lipgloss.NewStyle().Foreground(ColorDiffAdd)
	DiffRemoveLine = lipgloss.NewStyle().Foreground(ColorDiffRemove)
)

// ═══════════════════════════════════════════════════════════════════════════
// Render functions - centralized formatting with NoColor support
// ═══════════════════════════════════════════════════════════════════════════

// Render applies a style if colors are enabled
func Render(s lipgloss.Style, text string) string {
	if NoColor() {
		return text
	}
	return s.Render(text)
}

// ═══════════════════════════════════════════════════════════════════════════
// Message formatters - structured output
// ═══════════════════════════════════════════════════════════════════════════

// SuccessMsg formats a success message with checkmark
func SuccessMsg(msg string) string {
	symbol := SymbolSuccess
	if NoColor() {
		symbol = "+"
	}
	return fmt.Sprintf("%s %s", Render(SuccessStyle, symbol), msg)
}

// ErrorMsg formats an error message
func ErrorMsg(title string) string {
	return Render(ErrorStyle, "Error: "+title)
}

// WarningMsg formats a warning message
func WarningMsg(msg string) string {
	symbol := SymbolWarning
	if NoColor() {
		symbol = "!"
	}
	return fmt.Sprintf("%s %s", Render(WarningStyle, symbol), msg)
}

// MutedMsg formats muted/secondary text
func MutedMsg(msg string) string {
	return Render(MutedStyle, msg)
}

// ═══════════════════════════════════════════════════════════════════════════
// Section formatters - consistent output structure
// ═══════════════════════════════════════════════════════════════════════════

// SectionHeader formats a section header
func SectionHeader(title string) string {
	return Render(Bold, title)
}

// DiffLine colors one line of a unified-style diff by its prefix
func DiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+"):
		return Render(DiffAddLine, line)
	case strings.HasPrefix(line, "-"):
		return Render(DiffRemoveLine, line)
	default:
		return line
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Color functions - simple string coloring (non-printf versions)
// ═══════════════════════════════════════════════════════════════════════════

func Green(s string) string     { return Render(SuccessStyle, s) }
func Red(s string) string       { return Render(ErrorStyle, s) }
func ErrorText(s string) string { return Render(ErrorStyle, s) }

// Printf-style color functions
func Boldf(format string, a ...any) string { return Render(Bold, fmt.Sprintf(format, a...)) }
