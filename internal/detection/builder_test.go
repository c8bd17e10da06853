package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildShapes_PartitionsEveryPixel(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		img := randomImage(seed, 19, 11)
		for _, conn := range []Connectivity{Conn4, Conn8} {
			lf, set := runPasses(t, img, conn)

			owner := make([]int, img.w*img.h)
			for i := range owner {
				owner[i] = -1
			}
			total := 0
			for si, shape := range set.shapes {
				for _, px := range shape.Pixels {
					i := lf.index(px.Point.X, px.Point.Y)
					require.Equal(t, -1, owner[i], "pixel %v in two shapes", px.Point)
					owner[i] = si
					total++
					assert.Equal(t, shape.Label, lf.labels[i])
					assert.Equal(t, colorAt(img.pix, i), px.Color)
				}
			}
			assert.Equal(t, img.w*img.h, total)
		}
	}
}

func TestBuildShapes_ShapeInvariants(t *testing.T) {
	img := randomImage(42, 23, 17)
	lf, set := runPasses(t, img, Conn8)

	for _, shape := range set.shapes {
		require.NotEmpty(t, shape.Pixels)

		box := BoundingBox{Min: shape.Pixels[0].Point, Max: shape.Pixels[0].Point}
		members := make(map[Point]bool)
		for _, px := range shape.Pixels {
			box.extend(px.Point)
			members[px.Point] = true
			assert.Equal(t, shape.Color, px.Color)
		}
		assert.Equal(t, box, shape.Bounds, "shape %d", shape.Label)

		for _, px := range shape.BorderPixels {
			assert.True(t, members[px.Point], "border pixel %v not a member", px.Point)
			assert.True(t, lf.isBorder(px.Point.X, px.Point.Y, shape.Label))
		}
	}
}

func TestBuildShapes_BorderPixelsOfSolidBlock(t *testing.T) {
	img := newRGBImage(5, 4, blue)
	_, set := runPasses(t, img, Conn8)

	require.Len(t, set.shapes, 1)
	shape := set.shapes[0]
	assert.Len(t, shape.Pixels, 20)
	// Everything on the image edge; the 3×2 interior is not.
	assert.Len(t, shape.BorderPixels, 20-6)
	assert.Equal(t, BoundingBox{Min: Point{0, 0}, Max: Point{4, 3}}, shape.Bounds)
}

func TestBuildShapes_StopLeavesPartialShapes(t *testing.T) {
	img := newRGBImage(3, 3, red)
	lf, err := newLabelField(img.w, img.h)
	require.NoError(t, err)
	_, ok := lf.labelPass(img.pix, window8, Options{}.isLine, never)
	require.True(t, ok)

	calls := 0
	set, ok := lf.buildShapes(img.pix, func() bool {
		calls++
		return calls > 1
	})
	assert.False(t, ok)
	require.Len(t, set.shapes, 1)
	assert.Len(t, set.shapes[0].Pixels, 3)
}

func TestShapeSet_Reindex(t *testing.T) {
	set := newShapeSet(4)
	set.shapeFor(2, red)
	set.shapeFor(4, blue)
	set.shapes = set.shapes[1:]
	set.reindex()

	_, ok := set.lookup(2)
	assert.False(t, ok)
	s, ok := set.lookup(4)
	require.True(t, ok)
	assert.Equal(t, blue, s.Color)
	_, ok = set.lookup(100)
	assert.False(t, ok)
}
