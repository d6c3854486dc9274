package rewrite

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccqual/ccqual/internal/srcloc"
)

func loc(line, col int) srcloc.Loc {
	return srcloc.Loc{File: "a.c", Line: line, Col: col}
}

func TestReplaceSingleLineSpan(t *testing.T) {
	b := NewBuffer("a.c", "int *p;\n")
	b.Replace(loc(1, 5), loc(1, 6), "_Ptr<int>")
	out, err := b.Render()
	require.NoError(t, err)
	require.Equal(t, "int _Ptr<int>p;\n", out)
}

func TestInsertBeforeAndAfter(t *testing.T) {
	b := NewBuffer("a.c", "int p;\n")
	b.InsertBefore(loc(1, 5), "*")
	b.InsertAfter(loc(1, 5), "2")
	out, err := b.Render()
	require.NoError(t, err)
	require.Equal(t, "int *p2;\n", out)
}

func TestReplaceLineRewritesWholeLine(t *testing.T) {
	b := NewBuffer("a.c", "int *p, *q;\nint x;\n")
	b.ReplaceLine(1, "_Ptr<int> p, *q;")
	out, err := b.Render()
	require.NoError(t, err)
	require.Equal(t, "_Ptr<int> p, *q;\nint x;\n", out)
}

func TestReplaceMultiLineSpan(t *testing.T) {
	b := NewBuffer("a.c", "int *p =\n    f();\n")
	b.Replace(loc(1, 5), loc(2, 5), "_Ptr<int> p =\n    g(")
	out, err := b.Render()
	require.NoError(t, err)
	require.Equal(t, "int _Ptr<int> p =\n    g(f();\n", out)
}

func TestRenderRejectsOverlappingEdits(t *testing.T) {
	b := NewBuffer("a.c", "int *p;\n")
	b.Replace(loc(1, 1), loc(1, 8), "full rewrite")
	b.Replace(loc(1, 5), loc(1, 6), "also touches this span")
	_, err := b.Render()
	require.Error(t, err)
}

func TestManagerBufferForIsStable(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/a.c"
	require.NoError(t, os.WriteFile(path, []byte("int *p;\n"), 0o644))

	mgr := NewManager()
	b1, err := mgr.BufferFor(path)
	require.NoError(t, err)
	b1.InsertBefore(loc(1, 1), "")
	b2, err := mgr.BufferFor(path)
	require.NoError(t, err)
	require.Same(t, b1, b2)

	require.Equal(t, []string{path}, mgr.TouchedFiles())
}
