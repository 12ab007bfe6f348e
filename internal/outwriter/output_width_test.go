package outwriter

import (
	"testing"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestGetMaxTablePathWidth(t *testing.T) {
	original := terminalWidth
	t.Cleanup(func() { terminalWidth = original })

	tests := []struct {
		name     string
		width    int
		detected int
		want     int
	}{
		{"override wins", 100, 300, 35},
		{"detected terminal", 0, 110, 45},
		{"no terminal falls back to 80", 0, 0, 15},
		{"narrow clamps to minimum", 40, 0, minPathWidth},
		{"wide clamps to maximum", 400, 0, maxPathWidth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terminalWidth = func() int { return tt.detected }
			assert.Equal(t, tt.want, GetMaxTablePathWidth(&contract.Config{Width: tt.width}))
		})
	}
}
