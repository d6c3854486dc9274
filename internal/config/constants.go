package config

// SourceFileExtensions are the file extensions the driver treats as
// translation units to parse (spec.md §1's scope: C source and
// headers).
var SourceFileExtensions = []string{".c", ".h"}

// DefaultOutputPostfix is appended to a rewritten file's base name
// when --output-postfix is not given on the command line.
const DefaultOutputPostfix = "checked"

// StdoutPostfix is the sentinel value of --output-postfix that routes
// every rewritten file to stdout instead of disk.
const StdoutPostfix = "-"

// AllowListedExterns are functions the linker treats as safe even
// without a visible definition (spec.md §4.4's extern-conservatism
// step): libc allocation and string/memory primitives whose bounds
// behavior is well understood and itype-annotated in Checked C's own
// headers, so forcing them to Wild would needlessly propagate
// unsafety into every translation unit that calls malloc.
var AllowListedExterns = map[string]bool{
	"malloc":  true,
	"calloc":  true,
	"realloc": true,
	"free":    true,
	"memcpy":  true,
	"memset":  true,
	"memmove": true,
	"strlen":  true,
}
