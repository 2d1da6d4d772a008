package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowSelection(t *testing.T) {
	s := NewRowSelection(10)
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, 0, s.Count())

	s.Set(3)
	s.SetRange(5, 8)
	s.SetRange(9, 9)

	assert.True(t, s.Test(3))
	assert.False(t, s.Test(4))
	assert.Equal(t, []int{3, 5, 6, 7}, s.Rows())
	assert.Equal(t, 4, s.Count())

	assert.Panics(t, func() { s.Set(10) })
	assert.Panics(t, func() { s.Test(-1) })
}

func TestRowSelection_SetRangeWords(t *testing.T) {
	ranges := [][2]int{{0, 1}, {0, 64}, {1, 63}, {63, 65}, {60, 200}, {64, 128}, {127, 130}, {5, 300}, {299, 300}}
	for _, r := range ranges {
		got := NewRowSelection(300)
		got.SetRange(r[0], r[1])

		want := NewRowSelection(300)
		for i := r[0]; i < r[1]; i++ {
			want.Set(i)
		}
		assert.Equal(t, want.Rows(), got.Rows(), "range %v", r)
		assert.Equal(t, r[1]-r[0], got.Count(), "range %v", r)
	}

	// Ranges merge with rows marked before.
	s := NewRowSelection(130)
	s.Set(2)
	s.Set(129)
	s.SetRange(64, 66)
	assert.Equal(t, []int{2, 64, 65, 129}, s.Rows())
}

func TestRowSelection_AndOr(t *testing.T) {
	a := NewRowSelection(6)
	a.SetRange(0, 4)
	b := NewRowSelection(6)
	b.SetRange(2, 6)

	or := NewRowSelection(6)
	require.NoError(t, or.Or(a))
	require.NoError(t, or.Or(b))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, or.Rows())

	require.NoError(t, a.And(b))
	assert.Equal(t, []int{2, 3}, a.Rows())

	assert.Error(t, a.And(NewRowSelection(5)))
}

func TestGroup(t *testing.T) {
	g := NewGroup([]int{4, 3, 5})
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 0, g.Count())

	p0 := NewRowSelection(4)
	p0.Set(1)
	require.NoError(t, g.SetPage(0, p0))

	p2 := NewRowSelection(5)
	p2.Set(0)
	p2.Set(4)
	require.NoError(t, g.SetPage(2, p2))

	assert.Equal(t, 3, g.Count())
	assert.Equal(t, 0, g.Page(1).Count())
	assert.Equal(t, 3, g.Page(1).Len())

	assert.Equal(t, []uint32{1, 7, 11}, g.Flatten().ToArray())

	assert.Error(t, g.SetPage(1, NewRowSelection(4)))
	assert.Error(t, g.SetPage(3, NewRowSelection(1)))
}

func TestGroup_FlattenRuns(t *testing.T) {
	g := NewGroup([]int{130, 70})

	p0 := NewRowSelection(130)
	p0.SetRange(0, 3)
	p0.SetRange(60, 130)
	require.NoError(t, g.SetPage(0, p0))

	p1 := NewRowSelection(70)
	p1.SetRange(0, 70)
	require.NoError(t, g.SetPage(1, p1))

	var want []uint32
	for _, r := range p0.Rows() {
		want = append(want, uint32(r))
	}
	for _, r := range p1.Rows() {
		want = append(want, 130+uint32(r))
	}
	rb := g.Flatten()
	assert.Equal(t, want, rb.ToArray())
	assert.Equal(t, uint64(g.Count()), rb.GetCardinality())
}

func TestGroup_Combine(t *testing.T) {
	a := NewGroup([]int{2, 2})
	a.Page(0).SetRange(0, 2)
	b := NewGroup([]int{2, 2})
	b.Page(0).Set(1)
	b.Page(1).Set(0)

	u := NewGroup([]int{2, 2})
	require.NoError(t, u.Or(a))
	require.NoError(t, u.Or(b))
	assert.Equal(t, []uint32{0, 1, 2}, u.Flatten().ToArray())

	require.NoError(t, a.And(b))
	assert.Equal(t, []uint32{1}, a.Flatten().ToArray())

	assert.Error(t, a.And(NewGroup([]int{2})))
}
