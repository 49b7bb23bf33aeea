package toggle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntersects(t *testing.T) {
	elem := Box{X: 10, Y: 0, Width: 10, Height: 10}.Rect()

	tests := []struct {
		name string
		ref  Box
		want bool
	}{
		{name: "shared vertical edge", ref: Box{X: 0, Y: 0, Width: 10, Height: 10}, want: false},
		{name: "one unit overlap", ref: Box{X: 0, Y: 0, Width: 11, Height: 10}, want: true},
		{name: "shared horizontal edge", ref: Box{X: 10, Y: 10, Width: 10, Height: 10}, want: false},
		{name: "contained", ref: Box{X: 12, Y: 2, Width: 2, Height: 2}, want: true},
		{name: "containing", ref: Box{X: -100, Y: -100, Width: 500, Height: 500}, want: true},
		{name: "disjoint", ref: Box{X: 100, Y: 100, Width: 5, Height: 5}, want: false},
		{name: "x overlap only", ref: Box{X: 12, Y: 50, Width: 5, Height: 5}, want: false},
		{name: "point inside", ref: Box{X: 15, Y: 5, Width: 0, Height: 0}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.Rect().Intersects(elem))
			assert.Equal(t, tt.want, elem.Intersects(tt.ref.Rect()), "intersection is symmetric")
		})
	}
}

func TestRectFromArea(t *testing.T) {
	r, ok := RectFromArea(AreaOf(100, 100, 50, 50))
	assert.True(t, ok)
	assert.Equal(t, Rect{XMin: 100, XMax: 150, YMin: 100, YMax: 150}, r)

	_, ok = RectFromArea(Area{X: Float(1), Y: Float(1), Width: Float(1)})
	assert.False(t, ok)
}
