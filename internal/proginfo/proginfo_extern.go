package proginfo

import "github.com/ccqual/ccqual/internal/qual"

// LookupFunctionCV returns the first FunctionCV recorded for name
// (the earliest declaration seen), or nil if the name has not been
// declared anywhere so far. Generation may see only one of several
// eventual declarations of a symbol; linking later unifies every CV
// recorded under the same name, so which one a call site is checked
// against during generation does not affect the final assignment.
func (pi *ProgramInfo) LookupFunctionCV(name string) *qual.FunctionCV {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	fvs := pi.GlobalSymbols[name]
	if len(fvs) == 0 {
		return nil
	}
	return fvs[0]
}

// HasBodyAnywhere reports whether name has a defining declaration in
// any TU processed so far — the linker's extern-conservatism test.
func (pi *ProgramInfo) HasBodyAnywhere(name string) bool {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	return pi.ExternFunctions[name]
}

// AllFunctionNames returns every distinct external function name
// observed, for the linker to iterate deterministically.
func (pi *ProgramInfo) AllFunctionNames() []string {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	names := make([]string, 0, len(pi.GlobalSymbols))
	for n := range pi.GlobalSymbols {
		names = append(names, n)
	}
	return names
}

// GlobalSymbolsFor returns every FunctionCV recorded for name across
// every TU processed so far — the linker's merge input for that name.
func (pi *ProgramInfo) GlobalSymbolsFor(name string) []*qual.FunctionCV {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	return pi.GlobalSymbols[name]
}
