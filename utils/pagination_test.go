package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		matching int64
		pageSize int
		want     int
	}{
		{"zero matches is one page", 0, 3, 1},
		{"exact fit", 9, 3, 3},
		{"remainder adds a page", 10, 3, 4},
		{"single record", 1, 9, 1},
		{"page size larger than set", 5, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.matching, tt.pageSize))
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.Equal(t, []int{1, 2, 3}, Paginate(items, 1, 3))
	assert.Equal(t, []int{4, 5, 6}, Paginate(items, 2, 3))
	assert.Equal(t, []int{10}, Paginate(items, 4, 3))
	assert.Empty(t, Paginate(items, 5, 3))
	assert.Empty(t, Paginate([]int{}, 1, 3))
	assert.Empty(t, Paginate(items, 0, 3))
	assert.Empty(t, Paginate(items, 1, 0))
}

func TestPaginateHugePageValues(t *testing.T) {
	items := []int{1, 2, 3}

	// (page-1)*pageSize would wrap around; the result must be an empty page,
	// not a panic.
	assert.NotPanics(t, func() {
		assert.Empty(t, Paginate(items, 4611686018427387904, 4))
	})
	assert.Empty(t, Paginate(items, math.MaxInt, 3))
	assert.Empty(t, Paginate(items, math.MaxInt, math.MaxInt))
	assert.Empty(t, Paginate(items, 2, math.MaxInt))
}
