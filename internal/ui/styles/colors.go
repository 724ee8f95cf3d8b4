package styles

import "github.com/charmbracelet/lipgloss"

// Color palette, dark mode optimized, semantic colors
var (
	// Primary semantic colors
	Accent  = lipgloss.Color("#7C3AED") // violet-500 - highlights, interactive
	Success = lipgloss.Color("#10B981") // emerald-500 - success, additions
	Warning = lipgloss.Color("#F59E0B") // amber-500 - warnings, modified
	Error   = lipgloss.Color("#EF4444") // red-500 - errors, deletions
	Info    = lipgloss.Color("#3B82F6") // blue-500 - info, headers
	Muted   = lipgloss.Color("#6B7280") // gray-500 - secondary text

	// Background colors
	BgBorder = lipgloss.Color("#374151") // gray-700 - borders
)

// Semantic color aliases for clarity
var (
	// Grid structure
	ColorColumnHeader = Info    // Column headers
	ColorRowHeader    = Muted   // Row headers and pivots
	ColorGroupHeader  = Accent  // Group headers (violet)
	ColorFocus        = Accent  // Focused field
	ColorEmpty        = Muted   // Empty-table message
	ColorChanged      = Warning // Edited values

	// Diff colors
	ColorDiffAdd    = Success // Added lines
	ColorDiffRemove = Error   // Removed lines
)
