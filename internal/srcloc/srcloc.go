// Package srcloc implements persistent source locations: the key used
// to tie a declaration observed in one translation unit to the same
// declaration observed (via a shared header) in another.
package srcloc

import (
	"fmt"
	"path/filepath"
)

// Loc is a persistent source location: a file path plus a line and
// column. Two Locs compare equal iff they name the same declaration
// site, independent of which translation unit visited it.
type Loc struct {
	File string
	Line int
	Col  int
}

func (l Loc) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// IsValid reports whether l names a real location, as opposed to the
// zero value used for synthetic declarations (builtins, compiler-
// inserted nodes).
func (l Loc) IsValid() bool {
	return l.File != "" && l.Line > 0
}

// Less gives Locs a total order so that callers needing deterministic
// iteration (dump-intermediate, rewrite emission) can sort by it.
func (l Loc) Less(o Loc) bool {
	if l.File != o.File {
		return l.File < o.File
	}
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Col < o.Col
}

// Canonicalize resolves path to an absolute, symlink-free form, the
// form used for every write-policy and dedup comparison in this
// program (see pkg/driver's WritePolicy for the write policy itself).
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// The file may not exist yet (e.g. a rewrite output path); fall
		// back to the absolute form rather than failing the whole run.
		return abs, nil
	}
	return resolved, nil
}

// IsDescendant reports whether canonical child path sits underneath
// canonical directory base (base itself counts as a descendant).
func IsDescendant(base, child string) bool {
	rel, err := filepath.Rel(base, child)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[0] == '.' && rel[1] == '.'
}
