package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageBounds(t *testing.T) {
	cases := []struct {
		total, page, limit int
		start, end         int
	}{
		{10, 1, 3, 0, 3},
		{10, 4, 3, 9, 10},
		{10, 5, 3, 10, 10},
		{10, 0, 3, 0, 3},
		{10, 2, 0, 0, 10},
		{0, 1, 6, 0, 0},
	}
	for _, tc := range cases {
		start, end := PageBounds(tc.total, tc.page, tc.limit)
		assert.Equal(t, tc.start, start, "%+v", tc)
		assert.Equal(t, tc.end, end, "%+v", tc)
	}
}
