package detection

// mergeResult summarises one BorderMerger run.
type mergeResult struct {
	// absorbed counts border-line pixels folded into neighbouring shapes.
	absorbed int
	// repairs counts unions issued between same-colored touching shapes.
	repairs int
	// removed counts shapes that disappeared into another shape.
	removed int
	complete bool
}

// mergeBorders runs the BorderMerger: border-line pixels are absorbed into
// neighbouring shapes, then touching same-colored shapes with different roots
// are unified. Running it again on its own output changes nothing.
func (lf *LabelField) mergeBorders(pix []byte, set *shapeSet, conn Connectivity, isLine func(Color) bool, stop func() bool) mergeResult {
	var res mergeResult

	absorbed, ok := lf.absorbLines(pix, set, isLine, stop)
	res.absorbed = absorbed
	if !ok {
		return res
	}

	// Unions issued before a stop are still consolidated so the label field
	// and the shape list agree at every return.
	repairs, ok := lf.repairFragments(pix, set, conn, isLine, stop)
	res.repairs = repairs
	res.removed = lf.consolidate(set)
	res.complete = ok
	return res
}

// absorbLines assigns every label-0 pixel to the shape of its first non-line
// neighbour (left, up, right, down); failing that, to the first non-line pixel
// found scanning forward in row-major order, then backward.
func (lf *LabelField) absorbLines(pix []byte, set *shapeSet, isLine func(Color) bool, stop func() bool) (int, bool) {
	absorbed := 0
	complete := true
	cur := newLineCursor()

rows:
	for y := 0; y < lf.height; y++ {
		if stop() {
			complete = false
			break rows
		}
		for x := 0; x < lf.width; x++ {
			i := lf.index(x, y)
			if lf.labels[i] != 0 {
				if !isLine(colorAt(pix, i)) {
					cur.prev = i
				}
				continue
			}
			target, found := lf.absorptionTarget(pix, i, x, y, isLine, &cur)
			if !found {
				continue
			}
			root := lf.labels[target]
			shape, ok := set.lookup(root)
			if !ok {
				continue
			}
			shape.addPixel(Pixel{Point: Point{X: x, Y: y}, Color: colorAt(pix, i)})
			lf.labels[i] = root
			absorbed++
		}
	}

	if absorbed > 0 {
		for i := range set.shapes {
			sortPixels(set.shapes[i].Pixels)
			lf.recomputeBorders(&set.shapes[i])
		}
	}
	return absorbed, complete
}

// lineCursor tracks the scan fallback targets of absorbLines so runs of
// border-line pixels are searched once. next only moves forward; prev is the
// last non-line pixel visited.
type lineCursor struct {
	next int
	prev int
}

func newLineCursor() lineCursor { return lineCursor{next: -1, prev: -1} }

func (lf *LabelField) absorptionTarget(pix []byte, i, x, y int, isLine func(Color) bool, cur *lineCursor) (int, bool) {
	for _, d := range neighbors4 {
		nx, ny := x+d.dx, y+d.dy
		if !lf.inBounds(nx, ny) {
			continue
		}
		ni := lf.index(nx, ny)
		if !isLine(colorAt(pix, ni)) {
			return ni, true
		}
	}

	n := len(lf.labels)
	if cur.next <= i {
		cur.next = i + 1
		for cur.next < n && isLine(colorAt(pix, cur.next)) {
			cur.next++
		}
	}
	if cur.next < n {
		return cur.next, true
	}
	if cur.prev >= 0 && cur.prev < i {
		return cur.prev, true
	}
	return 0, false
}

// repairFragments re-examines each border pixel's full neighbourhood and
// unions touching shapes of the same color whose roots differ. Candidates with
// different representative colors are skipped: they are separate provinces.
// Absorbed border-line pixels never drive a repair.
func (lf *LabelField) repairFragments(pix []byte, set *shapeSet, conn Connectivity, isLine func(Color) bool, stop func() bool) (int, bool) {
	window := conn.neighborhood()
	repairs := 0

	for si := range set.shapes {
		if stop() {
			return repairs, false
		}
		shape := &set.shapes[si]
		for _, px := range shape.BorderPixels {
			if isLine(px.Color) {
				continue
			}
			for _, d := range window {
				nx, ny := px.Point.X+d.dx, px.Point.Y+d.dy
				if !lf.inBounds(nx, ny) {
					continue
				}
				ni := lf.index(nx, ny)
				if colorAt(pix, ni) != px.Color {
					continue
				}
				root := lf.Find(shape.Label)
				other := lf.Find(lf.labels[ni])
				if other == 0 || other == root {
					continue
				}
				otherShape, ok := set.lookup(lf.labels[ni])
				if !ok || otherShape.Color != shape.Color {
					continue
				}
				lf.union(root, other)
				repairs++
			}
		}
	}
	return repairs, true
}

// consolidate moves the pixels of every shape whose label is no longer a root
// into its root's shape, rewrites their labels and drops the emptied shapes.
// It returns the number of shapes removed.
func (lf *LabelField) consolidate(set *shapeSet) int {
	changed := make(map[uint32]bool)
	for i := range set.shapes {
		shape := &set.shapes[i]
		root := lf.Find(shape.Label)
		if root == shape.Label {
			continue
		}
		target, ok := set.lookup(root)
		if !ok {
			continue
		}
		for _, px := range shape.Pixels {
			target.addPixel(px)
			lf.labels[lf.index(px.Point.X, px.Point.Y)] = root
		}
		shape.Pixels = nil
		changed[root] = true
	}
	if len(changed) == 0 {
		return 0
	}

	kept := set.shapes[:0]
	removed := 0
	for _, shape := range set.shapes {
		if len(shape.Pixels) == 0 {
			removed++
			continue
		}
		kept = append(kept, shape)
	}
	set.shapes = kept
	set.reindex()

	for root := range changed {
		shape, _ := set.lookup(root)
		sortPixels(shape.Pixels)
		lf.recomputeBorders(shape)
	}
	return removed
}
