package detection

import "sort"

// shapeSet is the ordered shape accumulator for one run.
type shapeSet struct {
	shapes []Shape

	// index maps a root label to its position in shapes, -1 when absent.
	index []int
}

func newShapeSet(numLabels int) *shapeSet {
	index := make([]int, numLabels+1)
	for i := range index {
		index[i] = -1
	}
	return &shapeSet{index: index}
}

// lookup returns the shape whose root label is label.
func (s *shapeSet) lookup(label uint32) (*Shape, bool) {
	if int(label) >= len(s.index) {
		return nil, false
	}
	i := s.index[label]
	if i < 0 {
		return nil, false
	}
	return &s.shapes[i], true
}

// shapeFor returns the shape for root, creating it with color c on first use.
func (s *shapeSet) shapeFor(root uint32, c Color) *Shape {
	if i := s.index[root]; i >= 0 {
		return &s.shapes[i]
	}
	s.index[root] = len(s.shapes)
	s.shapes = append(s.shapes, Shape{Label: root, Color: c})
	return &s.shapes[len(s.shapes)-1]
}

// reindex rebuilds index after shapes were removed or reordered.
func (s *shapeSet) reindex() {
	for i := range s.index {
		s.index[i] = -1
	}
	for i := range s.shapes {
		s.index[s.shapes[i].Label] = i
	}
}

// buildShapes performs pass 2.
//
// Every pixel label is resolved to its root and written back, the pixel is
// appended to that root's shape and its bounding box grown. Pass 1 only sees
// already-visited neighbours, so this second full scan is what makes unions
// discovered late in the scan apply to pixels labelled early.
//
// Border-line pixels (label 0) are skipped. stop is polled between scanlines.
func (lf *LabelField) buildShapes(pix []byte, stop func() bool) (*shapeSet, bool) {
	set := newShapeSet(lf.NumLabels())

	for y := 0; y < lf.height; y++ {
		if stop() {
			return set, false
		}
		for x := 0; x < lf.width; x++ {
			i := lf.index(x, y)
			root := lf.Find(lf.labels[i])
			lf.labels[i] = root
			if root == 0 {
				continue
			}

			px := Pixel{Point: Point{X: x, Y: y}, Color: colorAt(pix, i)}
			shape := set.shapeFor(root, lf.colors[root])
			shape.addPixel(px)
			if lf.isBorder(x, y, root) {
				shape.BorderPixels = append(shape.BorderPixels, px)
			}
		}
	}
	return set, true
}

// isBorder reports whether (x, y) touches the image edge or an 8-neighbour
// that resolves to a root other than root.
func (lf *LabelField) isBorder(x, y int, root uint32) bool {
	if x == 0 || y == 0 || x == lf.width-1 || y == lf.height-1 {
		return true
	}
	for _, d := range neighbors8 {
		if lf.rootAt(x+d.dx, y+d.dy) != root {
			return true
		}
	}
	return false
}

// recomputeBorders rebuilds the border set of shape from the current labels.
func (lf *LabelField) recomputeBorders(shape *Shape) {
	shape.BorderPixels = shape.BorderPixels[:0]
	for _, px := range shape.Pixels {
		if lf.isBorder(px.Point.X, px.Point.Y, shape.Label) {
			shape.BorderPixels = append(shape.BorderPixels, px)
		}
	}
}

// sortPixels restores row-major order after pixels were moved between shapes.
func sortPixels(pixels []Pixel) {
	sort.Slice(pixels, func(i, j int) bool {
		a, b := pixels[i].Point, pixels[j].Point
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}
