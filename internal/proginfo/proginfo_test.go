package proginfo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/cparse"
	"github.com/ccqual/ccqual/internal/proginfo"
	"github.com/ccqual/ccqual/internal/qual"
)

func parseOne(t *testing.T, src string) *cast.DeclStmt {
	t.Helper()
	tu, err := cparse.ParseFile("a.c", src, false)
	require.NoError(t, err)
	require.Len(t, tu.Decls, 1)
	ds, ok := tu.Decls[0].(*cast.DeclStmt)
	require.True(t, ok)
	return ds
}

func TestAddVariableSkipsNonPointerTypes(t *testing.T) {
	ds := parseOne(t, "int x;\n")
	pi := proginfo.New()
	cvs := pi.AddVariable(ds.Decls[0], ds)
	require.Nil(t, cvs)
}

func TestAddVariableAllocatesOneCVPerIndirectionLevel(t *testing.T) {
	ds := parseOne(t, "int **pp;\n")
	pi := proginfo.New()
	cvs := pi.AddVariable(ds.Decls[0], ds)
	require.Len(t, cvs, 1)
	pcv, ok := cvs[0].(*qual.PointerCV)
	require.True(t, ok)
	require.Len(t, pcv.Levels, 2)
}

func TestAddVariableIsIdempotentForTheSameLocation(t *testing.T) {
	ds := parseOne(t, "int *p;\n")
	pi := proginfo.New()
	first := pi.AddVariable(ds.Decls[0], ds)
	second := pi.AddVariable(ds.Decls[0], ds)
	require.Same(t, first[0], second[0])
}

func TestAddVariableSkipsSystemHeaderDecls(t *testing.T) {
	tu, err := cparse.ParseFile("stdio.h", "int *p;\n", true)
	require.NoError(t, err)
	ds := tu.Decls[0].(*cast.DeclStmt)

	pi := proginfo.New()
	cvs := pi.AddVariable(ds.Decls[0], ds)
	require.Nil(t, cvs)
}

func TestAddVariableSeedsVoidStarToWild(t *testing.T) {
	ds := parseOne(t, "void *p;\n")
	pi := proginfo.New()
	cvs := pi.AddVariable(ds.Decls[0], ds)
	pcv := cvs[0].(*qual.PointerCV)
	require.Len(t, pcv.Levels, 1)
	require.True(t, pcv.IsConstrained(pcv.Levels[0]))
	require.Len(t, pi.Store.All(), 1)
}

func TestAddFunctionDeclTracksExternFunctionsByBodyPresence(t *testing.T) {
	proto, err := cparse.ParseFile("a.c", "int *get(int *x);\n", false)
	require.NoError(t, err)
	def, err := cparse.ParseFile("b.c", "int *get(int *x) {\n  return x;\n}\n", false)
	require.NoError(t, err)

	pi := proginfo.New()
	pi.AddFunctionDecl(proto.Decls[0].(*cast.FuncDecl))
	require.False(t, pi.ExternFunctions["get"])

	pi.AddFunctionDecl(def.Decls[0].(*cast.FuncDecl))
	require.True(t, pi.ExternFunctions["get"])

	require.Len(t, pi.GlobalSymbols["get"], 2)
}

func TestAddFunctionDeclIsIdempotentForTheSameLocation(t *testing.T) {
	tu, err := cparse.ParseFile("a.c", "int *get(int *x);\n", false)
	require.NoError(t, err)
	fd := tu.Decls[0].(*cast.FuncDecl)

	pi := proginfo.New()
	first := pi.AddFunctionDecl(fd)
	second := pi.AddFunctionDecl(fd)
	require.Same(t, first, second)
}

func TestStructuralEqualDelegatesToCast(t *testing.T) {
	a := parseOne(t, "int *p;\n").Decls[0].Type
	b := parseOne(t, "int *q;\n").Decls[0].Type
	require.True(t, proginfo.StructuralEqual(a, b))
}
