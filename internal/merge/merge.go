// Package merge reconciles two edited copies of a line-oriented file with
// the version both started from.
//
// The editor uses it when a dataset file changed on disk while it was
// open: the file as loaded is the base, the editor's encoding is ours and
// the file now on disk is theirs. Lines changed on one side only are taken
// from that side. Lines changed on both sides are a conflict unless both
// made the same change.
package merge

import (
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Result holds the outcome of a three-way merge.
type Result struct {
	// Lines is the merged file. Conflicting regions hold our version.
	Lines []string

	// Conflicts lists the regions both sides changed differently.
	Conflicts []Conflict

	// Merged counts the regions taken without conflict.
	Merged int
}

// Conflict is one region both sides changed differently.
type Conflict struct {
	Line   int // 1-based line of the base where the region starts
	Ours   []string
	Theirs []string
}

// Clean reports whether the merge has no conflicts.
func (r *Result) Clean() bool {
	return len(r.Conflicts) == 0
}

// Text returns the merged file, every line newline terminated.
func (r *Result) Text() string {
	return joinLines(r.Lines)
}

// hunk replaces base lines [from, to) with side lines [start, end). Pure
// insertions have from == to.
type hunk struct {
	from, to   int
	start, end int
}

// ThreeWay merges ours and theirs against base, line by line.
func ThreeWay(base, ours, theirs string) *Result {
	b, o, t := splitLines(base), splitLines(ours), splitLines(theirs)
	oh, th := hunks(b, o), hunks(b, t)

	res := &Result{}
	pos := 0
	for len(oh) > 0 || len(th) > 0 {
		switch {
		case len(th) == 0 || len(oh) > 0 && before(oh[0], th[0]):
			res.take(b, pos, o, oh[0])
			pos = oh[0].to
			oh = oh[1:]

		case len(oh) == 0 || before(th[0], oh[0]):
			res.take(b, pos, t, th[0])
			pos = th[0].to
			th = th[1:]

		default:
			// Grow the region until no hunk of either side touches it
			span := hunk{from: min(oh[0].from, th[0].from), to: max(oh[0].to, th[0].to)}
			var mine, yours []hunk
			for grown := true; grown; {
				grown = false
				for len(oh) > 0 && !before(span, oh[0]) {
					span.to = max(span.to, oh[0].to)
					mine, oh, grown = append(mine, oh[0]), oh[1:], true
				}
				for len(th) > 0 && !before(span, th[0]) {
					span.to = max(span.to, th[0].to)
					yours, th, grown = append(yours, th[0]), th[1:], true
				}
			}

			ourLines := apply(b, o, mine, span.from, span.to)
			theirLines := apply(b, t, yours, span.from, span.to)

			res.Lines = append(res.Lines, b[pos:span.from]...)
			res.Lines = append(res.Lines, ourLines...)
			if slices.Equal(ourLines, theirLines) {
				res.Merged++
			} else {
				res.Conflicts = append(res.Conflicts, Conflict{
					Line:   span.from + 1,
					Ours:   ourLines,
					Theirs: theirLines,
				})
			}
			pos = span.to
		}
	}

	res.Lines = append(res.Lines, b[pos:]...)
	return res
}

func (r *Result) take(base []string, pos int, side []string, h hunk) {
	r.Lines = append(r.Lines, base[pos:h.from]...)
	r.Lines = append(r.Lines, side[h.start:h.end]...)
	r.Merged++
}

// before reports whether a ends before b starts. Two insertions at the
// same point overlap.
func before(a, b hunk) bool {
	if a.to < b.from {
		return true
	}
	return a.to == b.from && a.from < a.to
}

// apply rebuilds base lines [from, to) with the side's hunks applied.
func apply(base, side []string, hs []hunk, from, to int) []string {
	var out []string
	pos := from
	for _, h := range hs {
		out = append(out, base[pos:h.from]...)
		out = append(out, side[h.start:h.end]...)
		pos = h.to
	}
	return append(out, base[pos:to]...)
}

// hunks computes the line edits turning base into side.
func hunks(base, side []string) []hunk {
	if slices.Equal(base, side) {
		return nil
	}

	dmp := diffmatchpatch.New()
	a, b, index := dmp.DiffLinesToRunes(joinLines(base), joinLines(side))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), index)

	var out []hunk
	bp, sp := 0, 0
	for i := 0; i < len(diffs); {
		if diffs[i].Type == diffmatchpatch.DiffEqual {
			n := strings.Count(diffs[i].Text, "\n")
			bp += n
			sp += n
			i++
			continue
		}

		h := hunk{from: bp, start: sp}
		for ; i < len(diffs) && diffs[i].Type != diffmatchpatch.DiffEqual; i++ {
			n := strings.Count(diffs[i].Text, "\n")
			if diffs[i].Type == diffmatchpatch.DiffDelete {
				bp += n
			} else {
				sp += n
			}
		}
		h.to, h.end = bp, sp
		out = append(out, h)
	}
	return out
}

// splitLines splits text into lines; a final newline does not start a line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
