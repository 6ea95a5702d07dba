package generics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := MakeSet[int](10)
	assert.Len(t, s, 0)

	s.Insert(3, 7)
	assert.Len(t, s, 2)
	assert.True(t, s.Has(3))
	assert.True(t, s.Has(7))
	assert.False(t, s.Has(5))

	s2 := SetWith(5, 7)
	assert.Len(t, s2, 2)
	assert.True(t, s2.Has(5))

	s.Delete(7)
	assert.Len(t, s, 1)
	assert.False(t, s.Has(7))
}

func TestSortedSlice(t *testing.T) {
	m := map[int]string{1: "1", 5: "5", 3: "3"}
	for range 100 {
		got := SortedSlice(m)
		assert.Equal(t, []int{1, 3, 5}, got)
	}
}
