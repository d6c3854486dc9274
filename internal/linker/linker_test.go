package linker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/cparse"
	"github.com/ccqual/ccqual/internal/linker"
	"github.com/ccqual/ccqual/internal/proginfo"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/solver"
)

func declareFunc(t *testing.T, pi *proginfo.ProgramInfo, file, src string) *qual.FunctionCV {
	t.Helper()
	tu, err := cparse.ParseFile(file, src, false)
	require.NoError(t, err)
	return pi.AddFunctionDecl(tu.Decls[0].(*cast.FuncDecl))
}

func TestLinkMergesMatchingParamArityAcrossTUs(t *testing.T) {
	pi := proginfo.New()
	proto := declareFunc(t, pi, "a.h", "int *get(int *x);\n")
	def := declareFunc(t, pi, "b.c", "int *get(int *x) {\n  return x;\n}\n")

	l := linker.New(pi, nil)
	require.NoError(t, l.Link())

	result := solver.Solve(pi.Store, pi.Store.Allocator().Count())
	protoCV := proto.ReturnCVs[0].(*qual.PointerCV)
	defCV := def.ReturnCVs[0].(*qual.PointerCV)
	require.Equal(t, result.Assignment[protoCV.Outer()], result.Assignment[defCV.Outer()])
}

func TestLinkForcesWildOnArityMismatch(t *testing.T) {
	pi := proginfo.New()
	declareFunc(t, pi, "a.h", "int *get(int *x);\n")
	def := declareFunc(t, pi, "b.c", "int *get(int *x, int *y) {\n  return x;\n}\n")

	l := linker.New(pi, nil)
	require.NoError(t, l.Link())

	result := solver.Solve(pi.Store, pi.Store.Allocator().Count())
	defCV := def.ReturnCVs[0].(*qual.PointerCV)
	require.Equal(t, qual.Wild, result.Assignment[defCV.Outer()])
}

func TestLinkForcesWildOnExternWithoutBody(t *testing.T) {
	pi := proginfo.New()
	fv := declareFunc(t, pi, "a.h", "int *get(int *x);\n")

	l := linker.New(pi, nil)
	require.NoError(t, l.Link())

	result := solver.Solve(pi.Store, pi.Store.Allocator().Count())
	retCV := fv.ReturnCVs[0].(*qual.PointerCV)
	require.Equal(t, qual.Wild, result.Assignment[retCV.Outer()])
}

func TestLinkSparesAllowListedExternWithoutBody(t *testing.T) {
	pi := proginfo.New()
	fv := declareFunc(t, pi, "a.h", "int *get(int *x);\n")

	l := linker.New(pi, map[string]bool{"get": true})
	require.NoError(t, l.Link())

	result := solver.Solve(pi.Store, pi.Store.Allocator().Count())
	retCV := fv.ReturnCVs[0].(*qual.PointerCV)
	require.Equal(t, qual.Ptr, result.Assignment[retCV.Outer()])
}

func TestLinkLeavesDefinedSymbolAlone(t *testing.T) {
	pi := proginfo.New()
	fv := declareFunc(t, pi, "a.c", "int *get(int *x) {\n  return x;\n}\n")

	l := linker.New(pi, nil)
	require.NoError(t, l.Link())

	result := solver.Solve(pi.Store, pi.Store.Allocator().Count())
	retCV := fv.ReturnCVs[0].(*qual.PointerCV)
	require.Equal(t, qual.Ptr, result.Assignment[retCV.Outer()])
}
