// Package stats implements the --dump-stats per-file accounting
// spec.md §6 describes: how many pointer declarations were found, how
// many resolved to each kind, and how many bytes of declarator text
// were rewritten. FileStats has cast counters, but the driver never
// fills them and WriteReport does not print them.
package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/ccqual/ccqual/internal/qual"
)

// FileStats accumulates counts for one source file.
type FileStats struct {
	File string

	Declarations int
	ByKind       map[qual.Atom]int

	CastsAssumeBounds int
	CastsPlain        int
	CastsCommentedOut int

	BytesRewritten int
}

func NewFileStats(file string) *FileStats {
	return &FileStats{File: file, ByKind: make(map[qual.Atom]int)}
}

func (s *FileStats) RecordDecl(kind qual.Atom) {
	s.Declarations++
	s.ByKind[kind]++
}

// Run aggregates FileStats across an entire invocation, keyed by
// canonical file path, for a final summary line after the per-file
// table.
type Run struct {
	Files map[string]*FileStats
}

func NewRun() *Run {
	return &Run{Files: make(map[string]*FileStats)}
}

func (r *Run) For(file string) *FileStats {
	if s, ok := r.Files[file]; ok {
		return s
	}
	s := NewFileStats(file)
	r.Files[file] = s
	return s
}

// WriteReport renders the per-file table followed by a totals line,
// in the style of a humanize-formatted byte/count summary.
func (r *Run) WriteReport(w io.Writer) {
	files := make([]string, 0, len(r.Files))
	for f := range r.Files {
		files = append(files, f)
	}
	sort.Strings(files)

	var totalDecls, totalRewritten int
	totalByKind := map[qual.Atom]int{}

	for _, f := range files {
		s := r.Files[f]
		fmt.Fprintf(w, "%s: %s declarations (_Ptr=%d _Array_ptr=%d _Nt_array_ptr=%d wild=%d), %s bytes rewritten\n",
			f,
			humanize.Comma(int64(s.Declarations)),
			s.ByKind[qual.Ptr], s.ByKind[qual.Arr], s.ByKind[qual.NTArr], s.ByKind[qual.Wild],
			humanize.Bytes(uint64(s.BytesRewritten)),
		)
		totalDecls += s.Declarations
		totalRewritten += s.BytesRewritten
		for k, v := range s.ByKind {
			totalByKind[k] += v
		}
	}

	fmt.Fprintf(w, "total: %s declarations across %s files, %s rewritten\n",
		humanize.Comma(int64(totalDecls)),
		humanize.Comma(int64(len(files))),
		humanize.Bytes(uint64(totalRewritten)),
	)
}
