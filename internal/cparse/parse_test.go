package cparse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccqual/ccqual/internal/cast"
)

func TestParseFileSimpleVarDecl(t *testing.T) {
	tu, err := ParseFile("a.c", "int *p;\n", false)
	require.NoError(t, err)
	require.Len(t, tu.Decls, 1)

	ds, ok := tu.Decls[0].(*cast.DeclStmt)
	require.True(t, ok)
	require.Len(t, ds.Decls, 1)
	require.Equal(t, "p", ds.Decls[0].Name)

	pt, ok := ds.Decls[0].Type.(*cast.PointerType)
	require.True(t, ok)
	bt, ok := pt.Elem.(*cast.BaseType)
	require.True(t, ok)
	require.Equal(t, "int", bt.Name)
}

func TestParseFileMultiDeclarator(t *testing.T) {
	tu, err := ParseFile("a.c", "int *p, q, *r;\n", false)
	require.NoError(t, err)
	ds, ok := tu.Decls[0].(*cast.DeclStmt)
	require.True(t, ok)
	require.Len(t, ds.Decls, 3)
	require.Equal(t, "p", ds.Decls[0].Name)
	require.Equal(t, "q", ds.Decls[1].Name)
	require.Equal(t, "r", ds.Decls[2].Name)
	_, isPtr := ds.Decls[1].Type.(*cast.PointerType)
	require.False(t, isPtr, "q was declared without a star")
}

func TestParseFileArrayDeclarator(t *testing.T) {
	tu, err := ParseFile("a.c", "int a[10];\n", false)
	require.NoError(t, err)
	ds := tu.Decls[0].(*cast.DeclStmt)
	at, ok := ds.Decls[0].Type.(*cast.ArrayType)
	require.True(t, ok)
	require.True(t, at.Size.Sized)
	require.Equal(t, 10, at.Size.N)
}

func TestParseFileFunctionWithBody(t *testing.T) {
	src := "int *get(int *x) {\n  return x;\n}\n"
	tu, err := ParseFile("a.c", src, false)
	require.NoError(t, err)
	fd, ok := tu.Decls[0].(*cast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "get", fd.Name)
	require.Len(t, fd.ParamDecls, 1)
	require.Equal(t, "x", fd.ParamDecls[0].Name)
	require.NotNil(t, fd.Body)
	require.Len(t, fd.Body.Stmts, 1)
	_, isReturn := fd.Body.Stmts[0].(*cast.ReturnStmt)
	require.True(t, isReturn)
}

func TestParseFilePrototypeHasNilBody(t *testing.T) {
	tu, err := ParseFile("a.c", "int *get(int *x);\n", false)
	require.NoError(t, err)
	fd := tu.Decls[0].(*cast.FuncDecl)
	require.Nil(t, fd.Body)
}

func TestParseFileSystemHeaderMarksDecls(t *testing.T) {
	tu, err := ParseFile("stdio.h", "int *p;\n", true)
	require.NoError(t, err)
	ds := tu.Decls[0].(*cast.DeclStmt)
	require.True(t, ds.Decls[0].InSystemHdr)
}

func TestParseFileVariadicFunctionSetsIsVariadic(t *testing.T) {
	tu, err := ParseFile("a.c", "int printf(char *fmt, ...);\n", false)
	require.NoError(t, err)
	fd := tu.Decls[0].(*cast.FuncDecl)
	require.Len(t, fd.ParamDecls, 1)
	require.True(t, fd.Type.IsVariadic)
}

func TestParseFileItypeIsRecognizedAndSkipped(t *testing.T) {
	tu, err := ParseFile("a.c", "int *p itype(_Ptr<int>);\n", false)
	require.NoError(t, err)
	ds := tu.Decls[0].(*cast.DeclStmt)
	require.Equal(t, "p", ds.Decls[0].Name)
}
