package dataset

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffLineType identifies a line of a change report.
type DiffLineType int

const (
	DiffLineContext DiffLineType = iota
	DiffLineAdd
	DiffLineDelete
)

// DiffLine is one line of a change report.
type DiffLine struct {
	Type    DiffLineType
	Content string
}

// String prefixes the line with "+", "-" or a space.
func (l DiffLine) String() string {
	switch l.Type {
	case DiffLineAdd:
		return "+" + l.Content
	case DiffLineDelete:
		return "-" + l.Content
	}
	return " " + l.Content
}

// DiffLines compares two texts line by line. Unchanged lines further than
// contextLines from a change are dropped; a gap is marked by a "..." line.
// Identical texts give no lines.
func DiffLines(oldContent, newContent string, contextLines int) []DiffLine {
	dmp := diffmatchpatch.New()

	// Convert to runes for proper Unicode handling
	oldRunes, newRunes, lineArray := dmp.DiffLinesToRunes(oldContent, newContent)
	diffs := dmp.DiffMainRunes(oldRunes, newRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []DiffLine
	changed := false
	for _, diff := range diffs {
		diffLines := strings.Split(diff.Text, "\n")
		for i, line := range diffLines {
			// Skip empty last line from split
			if i == len(diffLines)-1 && line == "" {
				continue
			}

			var lineType DiffLineType
			switch diff.Type {
			case diffmatchpatch.DiffEqual:
				lineType = DiffLineContext
			case diffmatchpatch.DiffInsert:
				lineType = DiffLineAdd
				changed = true
			case diffmatchpatch.DiffDelete:
				lineType = DiffLineDelete
				changed = true
			}

			lines = append(lines, DiffLine{Type: lineType, Content: line})
		}
	}

	if !changed {
		return nil
	}
	return trimContext(lines, contextLines)
}

// trimContext keeps changes and the context lines around them.
func trimContext(lines []DiffLine, contextLines int) []DiffLine {
	keep := make([]bool, len(lines))
	for i, line := range lines {
		if line.Type == DiffLineContext {
			continue
		}
		for j := max(0, i-contextLines); j <= min(len(lines)-1, i+contextLines); j++ {
			keep[j] = true
		}
	}

	var out []DiffLine
	skipped := false
	for i, line := range lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped && len(out) > 0 {
			out = append(out, DiffLine{Type: DiffLineContext, Content: "..."})
		}
		skipped = false
		out = append(out, line)
	}
	return out
}
