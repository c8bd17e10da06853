package detection

import (
	"fmt"
	"math"
)

// LabelField holds one label per pixel plus the union-find forest that
// resolves provisional labels to their canonical roots.
//
// Labels are dense: label L is valid when 0 < L < len(parent). Label 0 is
// reserved for pixels that belong to no shape (border lines).
type LabelField struct {
	width  int
	height int

	// labels holds the label of each pixel in row-major order.
	labels []uint32

	// parent[L] is the union-find parent of L; parent[L] == L for roots.
	parent []uint32

	// colors[L] is the color recorded when L was created.
	colors []Color
}

// newLabelField allocates a label field for a width×height image.
//
// A failed allocation is reported as ErrAllocation.
func newLabelField(width, height int) (lf *LabelField, err error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	n := uint64(width) * uint64(height)
	if n >= math.MaxUint32 {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, width, height)
	}

	defer func() {
		if r := recover(); r != nil {
			lf = nil
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()

	lf = &LabelField{
		width:  width,
		height: height,
		labels: make([]uint32, n),
		parent: make([]uint32, 1, 256),
		colors: make([]Color, 1, 256),
	}
	return lf, nil
}

// Width returns the image width the field was built for.
func (lf *LabelField) Width() int { return lf.width }

// Height returns the image height the field was built for.
func (lf *LabelField) Height() int { return lf.height }

// NumLabels returns how many labels have been issued, excluding label 0.
func (lf *LabelField) NumLabels() int { return len(lf.parent) - 1 }

// ColorOf returns the color recorded for label, if any.
func (lf *LabelField) ColorOf(label uint32) (Color, bool) {
	if label == 0 || int(label) >= len(lf.colors) {
		return Color{}, false
	}
	return lf.colors[label], true
}

func (lf *LabelField) index(x, y int) int { return y*lf.width + x }

func (lf *LabelField) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < lf.width && y < lf.height
}

// newLabel issues the next label as a singleton root.
func (lf *LabelField) newLabel(c Color) uint32 {
	l := uint32(len(lf.parent))
	lf.parent = append(lf.parent, l)
	lf.colors = append(lf.colors, c)
	return l
}

// Find returns the root of label, halving the path as it walks.
func (lf *LabelField) Find(label uint32) uint32 {
	for lf.parent[label] != label {
		lf.parent[label] = lf.parent[lf.parent[label]]
		label = lf.parent[label]
	}
	return label
}

// union merges the classes of a and b. The lower root becomes the parent of
// the higher one, so the result does not depend on argument order.
func (lf *LabelField) union(a, b uint32) uint32 {
	ra, rb := lf.Find(a), lf.Find(b)
	switch {
	case ra == rb:
		return ra
	case ra < rb:
		lf.parent[rb] = ra
		return ra
	default:
		lf.parent[ra] = rb
		return rb
	}
}

// rootAt resolves the label of pixel (x, y).
func (lf *LabelField) rootAt(x, y int) uint32 {
	return lf.Find(lf.labels[lf.index(x, y)])
}

// flatten rewrites every pixel label to its root.
func (lf *LabelField) flatten() {
	for i, l := range lf.labels {
		lf.labels[i] = lf.Find(l)
	}
}

// labelPass performs pass 1: a row-major scan assigning provisional labels.
//
// Each pixel looks at the already-visited neighbours of window in order. The
// lowest label among same-colored neighbours is adopted and every other
// distinct neighbour label is unioned with it. A pixel with no matching
// neighbour gets a fresh label. Border-line pixels keep label 0.
//
// stop is polled between scanlines. It returns the number of border-line
// pixels seen and whether every row was processed.
func (lf *LabelField) labelPass(pix []byte, window []offset, isLine func(Color) bool, stop func() bool) (lines int, complete bool) {
	var matched [4]uint32

	for y := 0; y < lf.height; y++ {
		if stop() {
			return lines, false
		}
		for x := 0; x < lf.width; x++ {
			i := lf.index(x, y)
			c := colorAt(pix, i)

			if isLine(c) {
				lf.labels[i] = 0
				lines++
				continue
			}

			m := 0
			var lowest uint32
			for _, d := range window {
				nx, ny := x+d.dx, y+d.dy
				if !lf.inBounds(nx, ny) {
					continue
				}
				ni := lf.index(nx, ny)
				if colorAt(pix, ni) != c {
					continue
				}
				l := lf.labels[ni]
				matched[m] = l
				m++
				if lowest == 0 || l < lowest {
					lowest = l
				}
			}

			if m == 0 {
				lf.labels[i] = lf.newLabel(c)
				continue
			}

			lf.labels[i] = lowest
			for _, l := range matched[:m] {
				if l != lowest {
					lf.union(lowest, l)
				}
			}
		}
	}
	return lines, true
}

// colorAt reads the RGB triple of pixel i from a packed buffer.
func colorAt(pix []byte, i int) Color {
	o := i * 3
	return Color{R: pix[o], G: pix[o+1], B: pix[o+2]}
}
