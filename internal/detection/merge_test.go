package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeBorders_RepairsFragmentedRegion(t *testing.T) {
	img := newRGBImage(4, 2, red)
	lf := fragmentedField(t, img, []uint32{
		1, 1, 2, 2,
		1, 1, 2, 2,
	})
	set, ok := lf.buildShapes(img.pix, never)
	require.True(t, ok)
	require.Len(t, set.shapes, 2)

	res := lf.mergeBorders(img.pix, set, Conn8, Options{}.isLine, never)
	assert.True(t, res.complete)
	assert.Equal(t, 1, res.repairs)
	assert.Equal(t, 1, res.removed)

	require.Len(t, set.shapes, 1)
	shape := set.shapes[0]
	assert.Equal(t, uint32(1), shape.Label)
	assert.Len(t, shape.Pixels, 8)
	assert.Equal(t, BoundingBox{Min: Point{0, 0}, Max: Point{3, 1}}, shape.Bounds)
	for _, l := range lf.labels {
		assert.Equal(t, uint32(1), l)
	}
}

func TestMergeBorders_Idempotent(t *testing.T) {
	img := imageFromRows(t,
		"RRRBB",
		"RRGBB",
		"GGGBB",
	)
	lf := fragmentedField(t, img, []uint32{
		1, 2, 2, 3, 3,
		1, 2, 4, 5, 5,
		4, 4, 4, 5, 5,
	})
	set, ok := lf.buildShapes(img.pix, never)
	require.True(t, ok)

	first := lf.mergeBorders(img.pix, set, Conn8, Options{}.isLine, never)
	require.True(t, first.complete)
	assert.Equal(t, 2, first.repairs)
	once := cloneShapes(set.shapes)
	labelsOnce := append([]uint32(nil), lf.labels...)

	second := lf.mergeBorders(img.pix, set, Conn8, Options{}.isLine, never)
	require.True(t, second.complete)
	assert.Zero(t, second.repairs)
	assert.Zero(t, second.removed)
	assert.Equal(t, once, cloneShapes(set.shapes))
	assert.Equal(t, labelsOnce, lf.labels)
}

func TestMergeBorders_DifferentColorsNeverMerge(t *testing.T) {
	img := imageFromRows(t,
		"RRBB",
		"RRBB",
	)
	lf, set := runPasses(t, img, Conn8)

	res := lf.mergeBorders(img.pix, set, Conn8, Options{}.isLine, never)
	assert.Zero(t, res.repairs)
	assert.Len(t, set.shapes, 2)
}

func TestMergeBorders_Conn4IgnoresDiagonalFragments(t *testing.T) {
	img := imageFromRows(t,
		"RB",
		"BR",
	)
	lf, set := runPasses(t, img, Conn4)

	res := lf.mergeBorders(img.pix, set, Conn4, Options{}.isLine, never)
	assert.Zero(t, res.repairs)
	assert.Len(t, set.shapes, 4)
}

func TestMergeBorders_AbsorbsBorderLines(t *testing.T) {
	img := imageFromRows(t,
		"RRKBB",
		"RRKBB",
		"RRKBB",
	)
	opts := Options{BorderColor: &black}
	lf, err := newLabelField(img.w, img.h)
	require.NoError(t, err)
	lines, ok := lf.labelPass(img.pix, window8, opts.isLine, never)
	require.True(t, ok)
	require.Equal(t, 3, lines)
	set, ok := lf.buildShapes(img.pix, never)
	require.True(t, ok)
	require.Len(t, set.shapes, 2)

	res := lf.mergeBorders(img.pix, set, Conn8, opts.isLine, never)
	assert.True(t, res.complete)
	assert.Equal(t, 3, res.absorbed)
	assert.Zero(t, res.repairs)

	r, ok := set.lookup(lf.rootAt(0, 0))
	require.True(t, ok)
	assert.Len(t, r.Pixels, 9)
	assert.Equal(t, 2, r.Bounds.Max.X)
	assert.Equal(t, lf.rootAt(0, 0), lf.rootAt(2, 1))
	for _, l := range lf.labels {
		assert.NotZero(t, l)
	}
}

func TestMergeBorders_LineSeparatedSameColorStaysSplit(t *testing.T) {
	img := imageFromRows(t,
		"RRKRR",
		"RRKRR",
	)
	opts := Options{BorderColor: &black}
	lf, err := newLabelField(img.w, img.h)
	require.NoError(t, err)
	_, ok := lf.labelPass(img.pix, window8, opts.isLine, never)
	require.True(t, ok)
	set, ok := lf.buildShapes(img.pix, never)
	require.True(t, ok)

	res := lf.mergeBorders(img.pix, set, Conn8, opts.isLine, never)
	assert.Zero(t, res.repairs)
	assert.Len(t, set.shapes, 2)
}

func TestAbsorptionTarget_FallsBackToScan(t *testing.T) {
	img := imageFromRows(t,
		"KKK",
		"KKK",
		"KKR",
	)
	opts := Options{BorderColor: &black}
	lf, err := newLabelField(img.w, img.h)
	require.NoError(t, err)
	_, ok := lf.labelPass(img.pix, window8, opts.isLine, never)
	require.True(t, ok)

	cur := newLineCursor()
	target, found := lf.absorptionTarget(img.pix, 0, 0, 0, opts.isLine, &cur)
	assert.True(t, found)
	assert.Equal(t, 8, target)

	// The cursor is reused for later pixels of the same run.
	target, found = lf.absorptionTarget(img.pix, 1, 1, 0, opts.isLine, &cur)
	assert.True(t, found)
	assert.Equal(t, 8, target)
	assert.Equal(t, 8, cur.next)
}

func TestAbsorbLines_BackwardFallback(t *testing.T) {
	img := imageFromRows(t,
		"RKK",
		"KKK",
		"KKK",
	)
	opts := Options{BorderColor: &black}
	lf, err := newLabelField(img.w, img.h)
	require.NoError(t, err)
	_, ok := lf.labelPass(img.pix, window8, opts.isLine, never)
	require.True(t, ok)
	set, ok := lf.buildShapes(img.pix, never)
	require.True(t, ok)

	absorbed, ok := lf.absorbLines(img.pix, set, opts.isLine, never)
	require.True(t, ok)
	assert.Equal(t, 8, absorbed)
	require.Len(t, set.shapes, 1)
	assert.Len(t, set.shapes[0].Pixels, 9)
	for _, l := range lf.labels {
		assert.Equal(t, set.shapes[0].Label, l)
	}
}

func TestAbsorbLines_LongLineRuns(t *testing.T) {
	const w = 4000
	img := newRGBImage(w, 3, black)
	img.set(w-1, 2, red)
	img.set(0, 0, green)

	opts := Options{BorderColor: &black}
	lf, err := newLabelField(img.w, img.h)
	require.NoError(t, err)
	_, ok := lf.labelPass(img.pix, window8, opts.isLine, never)
	require.True(t, ok)
	set, ok := lf.buildShapes(img.pix, never)
	require.True(t, ok)
	require.Len(t, set.shapes, 2)

	absorbed, ok := lf.absorbLines(img.pix, set, opts.isLine, never)
	require.True(t, ok)
	assert.Equal(t, 3*w-2, absorbed)

	g, _ := set.lookup(lf.labels[0])
	r, _ := set.lookup(lf.labels[3*w-1])
	require.NotNil(t, g)
	require.NotNil(t, r)
	// Middle-row pixels with no non-line 4-neighbour fall back to the next
	// non-line pixel in scan order, which is the red corner.
	assert.Equal(t, r.Label, lf.labels[lf.index(w/2, 1)])
	assert.Equal(t, g.Label, lf.labels[lf.index(1, 0)])
	assert.Equal(t, 3*w, len(g.Pixels)+len(r.Pixels))
}
