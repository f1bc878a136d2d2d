package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSliceSelect runs some basic tests against SliceSelect.
func TestSliceSelect(t *testing.T) {
	// Verify a simple projection from int to string.
	numbers := []int{1, 2, 3}
	strings := SliceSelect(numbers, func(x int) string {
		return strconv.Itoa(x * 10)
	})
	assert.Equal(t, []string{"10", "20", "30"}, strings)

	// Verify an empty slice projects to an empty slice.
	assert.Empty(t, SliceSelect([]int{}, func(x int) int { return x }))
}

// TestSliceWhere runs some basic tests against SliceWhere.
func TestSliceWhere(t *testing.T) {
	// Verify filtering keeps only matching elements, in order.
	numbers := []int{1, 2, 3, 4, 5, 6}
	even := SliceWhere(numbers, func(x int) bool {
		return x%2 == 0
	})
	assert.Equal(t, []int{2, 4, 6}, even)

	// Verify a filter matching nothing yields an empty slice.
	assert.Empty(t, SliceWhere(numbers, func(x int) bool { return x > 100 }))
}
