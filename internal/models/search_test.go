package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name       string
		query      PageQuery
		expected   []int
		totalPages int
	}{
		{"Defaults", PageQuery{}, []int{1, 2, 3, 4, 5, 6, 7}, 1},
		{"First page", PageQuery{Page: 1, Limit: 3}, []int{1, 2, 3}, 3},
		{"Last partial page", PageQuery{Page: 3, Limit: 3}, []int{7}, 3},
		{"Exact end", PageQuery{Page: 2, Limit: 7}, []int{}, 1},
		{"Past the end", PageQuery{Page: 9, Limit: 3}, []int{}, 3},
		{"Huge page", PageQuery{Page: 768614336404564652, Limit: 12}, []int{}, 1},
		{"Max page", PageQuery{Page: math.MaxInt, Limit: 100}, []int{}, 1},
		{"Huge limit", PageQuery{Page: 2, Limit: math.MaxInt}, []int{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(items, tt.query)
			assert.Equal(t, tt.expected, page.Data)
			assert.Equal(t, len(items), page.Total)
			assert.Equal(t, tt.totalPages, page.TotalPages)
		})
	}

	t.Run("Empty input", func(t *testing.T) {
		page := NewPage([]int(nil), PageQuery{Page: 4})
		assert.Empty(t, page.Data)
		assert.NotNil(t, page.Data)
		assert.Equal(t, 0, page.TotalPages)
	})
}
