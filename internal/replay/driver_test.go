package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xkilldash9x/humanpath/internal/humanoid"
)

func TestBoxCenter(t *testing.T) {
	box := Box{X: 100, Y: 50, Width: 40, Height: 20}
	assert.Equal(t, humanoid.Vector2D{X: 120, Y: 60}, box.Center())
}

func TestBoxSameOrigin(t *testing.T) {
	box := Box{X: 10, Y: 10, Width: 5, Height: 5}
	assert.True(t, box.SameOrigin(Box{X: 10, Y: 10, Width: 50, Height: 50}), "resizing is not movement")
	assert.False(t, box.SameOrigin(Box{X: 11, Y: 10, Width: 5, Height: 5}))
}

func TestBoxFromQuad(t *testing.T) {
	tests := []struct {
		name   string
		quad   []float64
		want   Box
		wantOK bool
	}{
		{
			name:   "axis aligned",
			quad:   []float64{10, 20, 110, 20, 110, 70, 10, 70},
			want:   Box{X: 10, Y: 20, Width: 100, Height: 50},
			wantOK: true,
		},
		{
			name:   "points out of order",
			quad:   []float64{110, 70, 10, 70, 10, 20, 110, 20},
			want:   Box{X: 10, Y: 20, Width: 100, Height: 50},
			wantOK: true,
		},
		{name: "too short", quad: []float64{1, 2, 3, 4}},
		{name: "zero area", quad: []float64{5, 5, 5, 5, 5, 5, 5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := boxFromQuad(tt.quad)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
