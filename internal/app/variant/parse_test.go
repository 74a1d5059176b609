package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"12", 12},
		{"12.50", 12.5},
		{"  3.5", 3.5},
		{"12abc", 12},
		{".5", 0.5},
		{"5.", 5},
		{"-2", -2},
		{"+7", 7},
		{"1e3", 1000},
		{"1e", 1},
		{"abc", 0},
		{"", 0},
		{"   ", 0},
		{"NaN", 0},
		{"Infinity", 0},
		{"1e400", 0},
		{"$10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.raw))
		})
	}
}
