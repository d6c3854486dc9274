package driver

import (
	"fmt"
	"io"

	"github.com/kr/pretty"

	"github.com/ccqual/ccqual/internal/planner"
	"github.com/ccqual/ccqual/internal/solver"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// DumpIntermediate writes the solved assignment and every declarator
// plan other than DoNothing to w, keyed by source location, for the --dump-intermediate
// flag of spec.md §6. kr/pretty's %#v-style struct dumping is used
// for the provenance record of each qvar, since that record's shape
// (a reason plus an origin location) is exactly what pretty.Sprint is
// for: readable nested struct output without a bespoke formatter.
func DumpIntermediate(w io.Writer, result solver.Result, plans map[srcloc.Loc]planner.DeclPlan) {
	fmt.Fprintln(w, "-- solved qualifier variables --")
	for _, qv := range solver.SortedQVars(result.Assignment) {
		atom := result.Assignment[qv]
		if prov, ok := result.Provenance[qv]; ok {
			fmt.Fprintf(w, "q%d = %s  %s\n", int(qv), atom, pretty.Sprint(prov))
		} else {
			fmt.Fprintf(w, "q%d = %s  (default)\n", int(qv), atom)
		}
	}

	fmt.Fprintln(w, "-- declaration plans --")
	locs := sortedLocs(plans)
	for _, loc := range locs {
		p := plans[loc]
		if p.Action == planner.DoNothing {
			continue
		}
		fmt.Fprintf(w, "%s: %s -> %q (%s)\n", loc, p.Action, p.NewText, p.Reason)
	}
}

func sortedLocs(plans map[srcloc.Loc]planner.DeclPlan) []srcloc.Loc {
	out := make([]srcloc.Loc, 0, len(plans))
	for l := range plans {
		out = append(out, l)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Less(out[j-1]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
