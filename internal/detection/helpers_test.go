package detection

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	red   = Color{R: 255}
	green = Color{G: 255}
	blue  = Color{B: 255}
	black = Color{}
)

// rgbImage is an in-memory PixelSource for tests.
type rgbImage struct {
	w, h int
	pix  []byte
}

func (r *rgbImage) Bounds() (int, int) { return r.w, r.h }
func (r *rgbImage) RGB() []byte        { return r.pix }

func newRGBImage(w, h int, fill Color) *rgbImage {
	img := &rgbImage{w: w, h: h, pix: make([]byte, 3*w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.set(x, y, fill)
		}
	}
	return img
}

func (r *rgbImage) set(x, y int, c Color) {
	o := (y*r.w + x) * 3
	r.pix[o], r.pix[o+1], r.pix[o+2] = c.R, c.G, c.B
}

// imageFromRows builds an image from one string per row:
// R = red, G = green, B = blue, K = black.
func imageFromRows(t *testing.T, rows ...string) *rgbImage {
	t.Helper()
	palette := map[rune]Color{'R': red, 'G': green, 'B': blue, 'K': black}
	img := newRGBImage(len(rows[0]), len(rows), black)
	for y, row := range rows {
		require.Len(t, row, img.w, "row %d", y)
		for x, ch := range row {
			c, ok := palette[ch]
			require.True(t, ok, "unknown palette entry %q", ch)
			img.set(x, y, c)
		}
	}
	return img
}

// randomImage fills a w×h image with colors drawn from a small palette so
// that regions of every shape and size appear.
func randomImage(seed int64, w, h int) *rgbImage {
	rng := rand.New(rand.NewSource(seed))
	palette := []Color{red, green, blue}
	img := newRGBImage(w, h, red)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.set(x, y, palette[rng.Intn(len(palette))])
		}
	}
	return img
}

func never() bool { return false }

// runPasses runs pass 1 and pass 2 directly.
func runPasses(t *testing.T, img *rgbImage, conn Connectivity) (*LabelField, *shapeSet) {
	t.Helper()
	lf, err := newLabelField(img.w, img.h)
	require.NoError(t, err)
	_, ok := lf.labelPass(img.pix, conn.scanWindow(), Options{}.isLine, never)
	require.True(t, ok)
	set, ok := lf.buildShapes(img.pix, never)
	require.True(t, ok)
	return lf, set
}

// fragmentedField builds a label field whose labels are given explicitly,
// with no unions, to simulate fragmentation left behind by pass 1.
func fragmentedField(t *testing.T, img *rgbImage, labels []uint32) *LabelField {
	t.Helper()
	lf, err := newLabelField(img.w, img.h)
	require.NoError(t, err)
	copy(lf.labels, labels)

	var maxLabel uint32
	for _, l := range labels {
		if l > maxLabel {
			maxLabel = l
		}
	}
	for l := uint32(1); l <= maxLabel; l++ {
		c := black
		for i, li := range labels {
			if li == l {
				c = colorAt(img.pix, i)
				break
			}
		}
		lf.newLabel(c)
	}
	return lf
}

// cloneShapes deep-copies shapes so later mutation cannot alias them.
func cloneShapes(in []Shape) []Shape {
	out := make([]Shape, len(in))
	for i, s := range in {
		out[i] = s
		out[i].Pixels = append([]Pixel(nil), s.Pixels...)
		out[i].BorderPixels = append([]Pixel(nil), s.BorderPixels...)
		out[i].Adjacent = append([]uint32(nil), s.Adjacent...)
	}
	return out
}

// recordingWorker is a GraphicsWorker and Snapshotter that records calls.
type recordingWorker struct {
	writes   int
	updates  []Rect
	snaps    []Stage
	snapErr  error
	onUpdate func()
}

func (w *recordingWorker) WriteDebugColor(x, y int, c Color) { w.writes++ }

func (w *recordingWorker) UpdateCallback(r Rect) {
	w.updates = append(w.updates, r)
	if w.onUpdate != nil {
		w.onUpdate()
	}
}

func (w *recordingWorker) Snapshot(stage Stage) error {
	w.snaps = append(w.snaps, stage)
	return w.snapErr
}
