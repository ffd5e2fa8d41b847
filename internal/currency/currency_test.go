package currency

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"zero", 0, "$0.00"},
		{"small", 7.5, "$7.50"},
		{"thousands", 52340.75, "$52,340.75"},
		{"millions", 1234567.891, "$1,234,567.89"},
		{"round", 100000, "$100,000.00"},
		{"negative", -1500.2, "-$1,500.20"},
		{"nan", math.NaN(), "$0.00"},
		{"inf", math.Inf(1), "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.value))
		})
	}
}
