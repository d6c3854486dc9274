package qual

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoinIsLatticeMax(t *testing.T) {
	require.Equal(t, NTArr, Join(Ptr, NTArr))
	require.Equal(t, Wild, Join(Wild, Ptr))
	require.Equal(t, Arr, Join(Arr, Arr))
}

func TestLessEq(t *testing.T) {
	require.True(t, Ptr.LessEq(Wild))
	require.True(t, Wild.LessEq(Wild))
	require.False(t, Wild.LessEq(Ptr))
}

func TestAllocatorFreshIsSequential(t *testing.T) {
	a := NewAllocator()
	v0 := a.Fresh()
	v1 := a.Fresh()
	v2 := a.Fresh()
	require.Equal(t, QVar(0), v0)
	require.Equal(t, QVar(1), v1)
	require.Equal(t, QVar(2), v2)
	require.Equal(t, 3, a.Count())
}

func TestAtomRefRoundTrip(t *testing.T) {
	c := Const(NTArr)
	require.False(t, c.IsVar())
	require.Equal(t, NTArr, c.Const_())

	v := Var(QVar(7))
	require.True(t, v.IsVar())
	require.Equal(t, QVar(7), v.Var_())
	require.Equal(t, "q7", v.String())
}

func TestAtomStrings(t *testing.T) {
	require.Equal(t, "_Ptr", Ptr.String())
	require.Equal(t, "_Array_ptr", Arr.String())
	require.Equal(t, "_Nt_array_ptr", NTArr.String())
	require.Equal(t, "wild", Wild.String())
}
