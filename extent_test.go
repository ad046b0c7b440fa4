package quadtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtentSplit(t *testing.T) {
	root := box(0, 0, 1)
	require.Equal(t, box(0, 0, 0.5), root.Split(0))
	require.Equal(t, box(0.5, 0, 0.5), root.Split(1))
	require.Equal(t, box(0, 0.5, 0.5), root.Split(2))
	require.Equal(t, box(0.5, 0.5, 0.5), root.Split(3))

	offset := box(2, 4, 2)
	require.Equal(t, box(3, 5, 1), offset.Split(3))
}

func TestExtentFromCenter(t *testing.T) {
	e := ExtentFromCenter(Point{X: 0.5, Y: 0.25}, 0.25)
	require.Equal(t, box(0.25, 0, 0.5), e)
	require.Equal(t, Point{X: 0.5, Y: 0.25}, e.Center())
}

func TestExtentContains(t *testing.T) {
	root := box(0, 0, 1)

	tests := []struct {
		name     string
		inner    Extent
		expected bool
	}{
		{"point at origin", pt(0, 0), true},
		{"point inside", pt(0.3, 0.7), true},
		{"point on far x edge", pt(1, 0.5), false},
		{"point on far y edge", pt(0.5, 1), false},
		{"box touching far edges", box(0.5, 0.5, 0.5), true},
		{"box crossing far edge", box(0.6, 0.6, 0.5), false},
		{"box before origin", box(-0.1, 0, 0.2), false},
		{"whole square", box(0, 0, 1), true},
		{"larger than square", box(0, 0, 1.5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, root.Contains(tt.inner))
		})
	}
}

func TestExtentMinSqDist(t *testing.T) {
	quadrant := box(0.5, 0.5, 0.5)

	tests := []struct {
		name     string
		target   Point
		expected float32
	}{
		{"inside", Point{X: 0.75, Y: 0.75}, 0},
		{"on edge", Point{X: 0.5, Y: 0.6}, 0},
		{"left only", Point{X: 0.25, Y: 0.75}, 0.0625},
		{"below only", Point{X: 0.75, Y: 0.25}, 0.0625},
		{"beyond far corner", Point{X: 1.25, Y: 1.5}, 0.0625 + 0.25},
		{"diagonal to near corner", Point{X: 0.25, Y: 0.25}, 0.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.expected, quadrant.MinSqDist(tt.target), 1e-6)
		})
	}
}

func TestExtentQuadrant(t *testing.T) {
	root := box(0, 0, 1)

	tests := []struct {
		name     string
		extent   Extent
		quadrant int
		fits     bool
	}{
		{"bottom left", pt(0.1, 0.1), 0, true},
		{"bottom right", pt(0.9, 0.1), 1, true},
		{"top left", pt(0.1, 0.9), 2, true},
		{"top right", pt(0.9, 0.9), 3, true},
		{"point on midlines goes up and right", pt(0.5, 0.5), 3, true},
		{"box ending on midline stays left", box(0.25, 0.25, 0.25), 0, true},
		{"straddles x midline", box(0.45, 0.1, 0.1), 0, false},
		{"straddles y midline", box(0.1, 0.45, 0.1), 0, false},
		{"straddles both", box(0.4, 0.4, 0.2), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := root.quadrant(tt.extent)
			require.Equal(t, tt.fits, ok)
			if ok {
				require.Equal(t, tt.quadrant, q)
				require.True(t, root.Split(q).Contains(tt.extent))
			}
		})
	}
}
