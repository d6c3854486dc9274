package driver

import (
	"github.com/ccqual/ccqual/internal/planner"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/srcloc"
	"github.com/ccqual/ccqual/internal/stats"
)

// BuildStats aggregates the solved kind of every declaration plan
// into a stats.Run, for the --dump-stats report.
func (c *Context) BuildStats(plans map[srcloc.Loc]planner.DeclPlan) *stats.Run {
	run := stats.NewRun()
	for loc, plan := range plans {
		fs := run.For(loc.File)
		cvs := c.Info.CVsAt(loc)
		kind := qual.Ptr
		if len(cvs) == 1 {
			if pcv, ok := cvs[0].(*qual.PointerCV); ok {
				kind = c.solvedOuter(pcv)
			}
		}
		fs.RecordDecl(kind)
		if plan.Action != planner.DoNothing {
			fs.BytesRewritten += len(plan.NewText)
		}
	}
	return run
}

func (c *Context) solvedOuter(pcv *qual.PointerCV) qual.Atom {
	if len(pcv.Levels) == 0 {
		return qual.Ptr
	}
	if a, ok := c.Solved.Assignment[pcv.Outer()]; ok {
		return a
	}
	return qual.DefaultAtom
}
