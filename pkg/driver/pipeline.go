package driver

import (
	"fmt"
	"sort"

	"github.com/ccqual/ccqual/internal/cparse"
	"github.com/ccqual/ccqual/internal/generator"
	"github.com/ccqual/ccqual/internal/linker"
	"github.com/ccqual/ccqual/internal/solver"
)

// Run executes every pipeline stage in order over the files already
// loaded into ctx.Files, continuing past a stage's errors the way the
// teacher's Pipeline.Run does, so a later stage (and the final error
// report) still sees as much as the run could produce.
func (c *Context) Run() {
	c.parseAll()
	c.generateAll()
	c.linkAll()
	c.solveAll()
}

func (c *Context) parseAll() {
	paths := make([]string, 0, len(c.Files))
	for p := range c.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		isSys := isSystemHeader(p, c.Opts.BaseDir)
		tu, err := cparse.ParseFile(p, c.Files[p], isSys)
		if err != nil {
			c.addError(fmt.Errorf("parsing %s: %w", p, err))
			continue
		}
		c.TUs = append(c.TUs, tu)
		c.Log.Verbosef("parsed %s (%d top-level decls)", p, len(tu.Decls))
	}
}

// generateAll runs the constraint generator over every TU. Per
// spec.md §5, this is safe to parallelize per TU since each TU only
// ever touches its own AST nodes and the shared ProgramInfo's methods
// already take their own lock; this driver runs them sequentially for
// deterministic --verbose ordering, which matters more here than the
// parallelism spec.md permits but does not require.
func (c *Context) generateAll() {
	g := generator.New(c.Info, c.Log)
	for _, tu := range c.TUs {
		g.GenerateTU(tu)
		c.Log.Verbosef("generated constraints for %s", tu.Path)
	}
}

func (c *Context) linkAll() {
	l := linker.New(c.Info, c.Opts.AllowList)
	if err := l.Link(); err != nil {
		c.addError(fmt.Errorf("linking: %w", err))
	}
}

func (c *Context) solveAll() {
	n := c.Info.Store.Allocator().Count()
	c.Solved = solver.Solve(c.Info.Store, n)
	c.Log.Verbosef("solved %d qualifier variables", n)
}
