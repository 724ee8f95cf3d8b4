package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors used throughout datagrid
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoColumns         = errors.New("dataset has no columns")
	ErrBinaryFile        = errors.New("file looks binary")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrWriteQuery        = errors.New("query is not read-only")
	ErrNotConnected      = errors.New("not connected to database")
	ErrNoTerminal        = errors.New("stdout is not a terminal")
	ErrReadOnlySource    = errors.New("source cannot be written back")
	ErrSaveConflict      = errors.New("file changed on disk")
)

// Error is a structured error with context and suggestions
type Error struct {
	Title       string   // Short error title
	Message     string   // Detailed message
	Context     string   // What was being attempted
	Causes      []string // Possible causes
	Suggestions []string // Actionable suggestions with commands
	Err         error    // Wrapped error
}

func (e *Error) Error() string {
	return e.Title
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Format returns a nicely formatted error message
func (e *Error) Format() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Title))

	if e.Message != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Message))
	}
	if e.Context != "" {
		sb.WriteString(fmt.Sprintf("\n  %s\n", e.Context))
	}

	if len(e.Causes) > 0 {
		sb.WriteString("\n  Possible causes:\n")
		for _, cause := range e.Causes {
			sb.WriteString(fmt.Sprintf("    • %s\n", cause))
		}
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString("\n  Try:\n")
		for _, sug := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("    $ %s\n", sug))
		}
	}

	return sb.String()
}

// NewError creates a new Error
func NewError(title string) *Error {
	return &Error{Title: title}
}

// WithMessage adds a detailed message
func (e *Error) WithMessage(msg string) *Error {
	e.Message = msg
	return e
}

// WithContext adds context about what was being attempted
func (e *Error) WithContext(ctx string) *Error {
	e.Context = ctx
	return e
}

// WithCause adds a possible cause
func (e *Error) WithCause(cause string) *Error {
	e.Causes = append(e.Causes, cause)
	return e
}

// WithCauses adds multiple possible causes
func (e *Error) WithCauses(causes ...string) *Error {
	e.Causes = append(e.Causes, causes...)
	return e
}

// WithSuggestion adds an actionable suggestion
func (e *Error) WithSuggestion(sug string) *Error {
	e.Suggestions = append(e.Suggestions, sug)
	return e
}

// WithSuggestions adds multiple suggestions
func (e *Error) WithSuggestions(sugs ...string) *Error {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Wrap wraps an underlying error
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// ══════════════════════════════════════════════════════════════════════════
// Pre-built error constructors for common cases
// ══════════════════════════════════════════════════════════════════════════

// UnsupportedFormatError returns a structured error for a file datagrid
// cannot read
func UnsupportedFormatError(path string) *Error {
	return NewError(fmt.Sprintf("Cannot open '%s'", path)).
		WithMessage("datagrid reads .toml datasets, .tsv and .csv files").
		WithSuggestions(
			"datagrid edit data.tsv              # Tab separated values",
			"datagrid edit data.csv --group-by team",
		).
		Wrap(ErrUnsupportedFormat)
}

// DatasetParseError returns a structured error for a malformed dataset file
func DatasetParseError(path string, err error) *Error {
	return NewError("Cannot parse dataset").
		WithContext(path).
		WithCauses(
			"The file is not valid TOML",
			"A row has a different number of cells than there are columns",
			"A quoted CSV field is not terminated",
		).
		Wrap(err)
}

// UnknownColumnError returns a structured error for a --group-by column
// that the data does not have
func UnknownColumnError(name string, columns []string) *Error {
	return NewError(fmt.Sprintf("Column '%s' not found", name)).
		WithMessage("Available columns: " + strings.Join(columns, ", ")).
		Wrap(ErrUnknownColumn)
}

// DatabaseConnectionError returns a structured error for DB connection issues
func DatabaseConnectionError(url string, err error) *Error {
	return NewError("Cannot connect to database").
		WithContext(url).
		WithCauses(
			"Database server is not running",
			"Invalid connection credentials",
			"Network connectivity issues",
			"Database does not exist",
		).
		WithSuggestions(
			"psql \"$URL\" -c 'select 1'   # Check the connection",
		).
		Wrap(err)
}

// WriteQueryError returns a structured error for a statement that would
// modify the database
func WriteQueryError(query string) *Error {
	return NewError("Only read-only queries are allowed").
		WithContext(query).
		WithMessage("datagrid sql loads SELECT, WITH, VALUES, TABLE, SHOW and EXPLAIN results").
		Wrap(ErrWriteQuery)
}

// ClipboardError returns a structured error for clipboard access
func ClipboardError(err error) *Error {
	return NewError("Clipboard unavailable").
		WithCauses(
			"xclip, xsel or wl-clipboard is not installed",
			"No display server is running",
		).
		Wrap(err)
}

// SaveConflictError returns a structured error for a save that collides
// with changes made to the file while it was open. lines are the 1-based
// lines both sides changed.
func SaveConflictError(path string, lines []int) *Error {
	where := make([]string, len(lines))
	for i, l := range lines {
		where[i] = fmt.Sprint(l)
	}
	return NewError(fmt.Sprintf("'%s' changed on disk", path)).
		WithMessage("Your edits and the changes on disk touch the same lines: " + strings.Join(where, ", ")).
		WithSuggestions(
			"datagrid edit --write --force "+path+"   # Keep your version of those lines",
			"datagrid edit --diff "+path+"            # Review your edits without writing",
		).
		Wrap(ErrSaveConflict)
}

// MissingArgumentError returns an error for missing required argument
func MissingArgumentError(argName, example string) *Error {
	e := NewError(fmt.Sprintf("Missing required argument: <%s>", argName))
	if example != "" {
		e.WithSuggestion(example)
	}
	return e
}

// TooManyArgumentsError returns an error for too many arguments
func TooManyArgumentsError(expected int, got int) *Error {
	return NewError(fmt.Sprintf("Too many arguments: expected %d, got %d", expected, got))
}
