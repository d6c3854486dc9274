// Package rewrite implements the textual rewriting collaborator of
// spec.md §1: a per-file buffer of non-overlapping edits applied to
// the original source text, used by the planner to turn its
// declaration-rewrite and cast-insertion decisions into output bytes.
package rewrite

import (
	"fmt"
	"sort"

	"github.com/ccqual/ccqual/internal/srcloc"
)

// edit is one pending change: either a span replacement (End >
// Start) or a pure insertion (End == Start).
type edit struct {
	startLine, startCol int
	endLine, endCol     int
	text                string
}

// Buffer accumulates edits against one file's original source and
// renders the rewritten text on demand.
type Buffer struct {
	path string
	src  []string // original source, split into lines, newlines stripped
	eol  string    // newline style to use when re-joining ("\n" always; CRLF inputs are normalized)
	eds  []edit
}

// NewBuffer splits src into lines for edit application. Lines are
// addressed 1-based to match srcloc.Loc.
func NewBuffer(path, src string) *Buffer {
	lines := splitLines(src)
	return &Buffer{path: path, src: lines, eol: "\n"}
}

func splitLines(src string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			end := i
			if end > start && src[end-1] == '\r' {
				end--
			}
			lines = append(lines, src[start:end])
			start = i + 1
		}
	}
	lines = append(lines, src[start:])
	return lines
}

// Replace overwrites the text strictly between from (inclusive) and
// to (exclusive) with text. from and to must name positions within a
// single buffer's file.
func (b *Buffer) Replace(from, to srcloc.Loc, text string) {
	b.eds = append(b.eds, edit{startLine: from.Line, startCol: from.Col, endLine: to.Line, endCol: to.Col, text: text})
}

// InsertBefore inserts text immediately before loc, without
// disturbing whatever already occupies loc.
func (b *Buffer) InsertBefore(loc srcloc.Loc, text string) {
	b.eds = append(b.eds, edit{startLine: loc.Line, startCol: loc.Col, endLine: loc.Line, endCol: loc.Col, text: text})
}

// InsertAfter inserts text immediately after the single character at
// loc.
func (b *Buffer) InsertAfter(loc srcloc.Loc, text string) {
	b.eds = append(b.eds, edit{startLine: loc.Line, startCol: loc.Col + 1, endLine: loc.Line, endCol: loc.Col + 1, text: text})
}

// ReplaceLine replaces an entire source line (used for multi-
// declarator statement rebuilding, where the planner regenerates the
// whole line rather than patching individual declarators).
func (b *Buffer) ReplaceLine(line int, text string) {
	if line < 1 || line > len(b.src) {
		return
	}
	b.eds = append(b.eds, edit{startLine: line, startCol: 1, endLine: line + 1, endCol: 1, text: text + b.eol})
}

// Render applies every pending edit, in descending position order so
// earlier edits' offsets are unaffected by later ones, and returns the
// resulting source text. Overlapping edits are an internal error: the
// planner is responsible for never emitting them for the same span.
func (b *Buffer) Render() (string, error) {
	eds := make([]edit, len(b.eds))
	copy(eds, b.eds)
	sort.Slice(eds, func(i, j int) bool {
		if eds[i].startLine != eds[j].startLine {
			return eds[i].startLine > eds[j].startLine
		}
		return eds[i].startCol > eds[j].startCol
	})

	lines := make([]string, len(b.src))
	copy(lines, b.src)

	for i, e := range eds {
		if i > 0 {
			prev := eds[i-1]
			if e.endLine > prev.startLine || (e.endLine == prev.startLine && e.endCol > prev.startCol) {
				return "", fmt.Errorf("%s: overlapping rewrites at line %d", b.path, e.startLine)
			}
		}
		var err error
		lines, err = applyEdit(lines, e)
		if err != nil {
			return "", fmt.Errorf("%s: %w", b.path, err)
		}
	}

	out := ""
	for i, l := range lines {
		out += l
		if i != len(lines)-1 {
			out += b.eol
		}
	}
	return out, nil
}

func applyEdit(lines []string, e edit) ([]string, error) {
	if e.startLine < 1 || e.startLine > len(lines) {
		return nil, fmt.Errorf("edit start line %d out of range", e.startLine)
	}
	if e.startLine == e.endLine {
		line := lines[e.startLine-1]
		start, end := e.startCol-1, e.endCol-1
		if start < 0 || end > len(line) || start > end {
			return nil, fmt.Errorf("edit columns [%d,%d) out of range on line %d", e.startCol, e.endCol, e.startLine)
		}
		lines[e.startLine-1] = line[:start] + e.text + line[end:]
		return lines, nil
	}
	// Multi-line span: splice the replacement in as a single line,
	// merging the unaffected prefix/suffix of the boundary lines.
	if e.endLine-1 >= len(lines) {
		return nil, fmt.Errorf("edit end line %d out of range", e.endLine)
	}
	prefix := lines[e.startLine-1][:e.startCol-1]
	suffix := lines[e.endLine-1][e.endCol-1:]
	merged := prefix + e.text + suffix
	out := make([]string, 0, len(lines)-(e.endLine-e.startLine))
	out = append(out, lines[:e.startLine-1]...)
	out = append(out, merged)
	out = append(out, lines[e.endLine:]...)
	return out, nil
}
