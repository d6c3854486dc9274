package srcloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLessOrdersByFileThenLineThenCol(t *testing.T) {
	a := Loc{File: "a.c", Line: 1, Col: 5}
	b := Loc{File: "a.c", Line: 2, Col: 1}
	c := Loc{File: "b.c", Line: 1, Col: 1}
	require.True(t, a.Less(b))
	require.True(t, b.Less(c))
	require.False(t, c.Less(a))
}

func TestIsValid(t *testing.T) {
	require.False(t, Loc{}.IsValid())
	require.True(t, Loc{File: "a.c", Line: 1}.IsValid())
}

func TestIsDescendant(t *testing.T) {
	require.True(t, IsDescendant("/proj", "/proj"))
	require.True(t, IsDescendant("/proj", "/proj/src/a.c"))
	require.False(t, IsDescendant("/proj", "/other/a.c"))
}

func TestString(t *testing.T) {
	require.Equal(t, "a.c:3:7", Loc{File: "a.c", Line: 3, Col: 7}.String())
}
