package detection

import "sort"

// resolveAdjacency fills Shape.Adjacent for every shape in set.
//
// Each border pixel's 8 neighbours are inspected; an in-bounds neighbour with a
// different non-zero root records that root. A closure pass then mirrors every
// discovered edge so the relation is symmetric. When stop interrupts the scan
// the closure pass is skipped and the adjacency sets stay as discovered.
func (lf *LabelField) resolveAdjacency(set *shapeSet, stop func() bool) bool {
	found := make([]map[uint32]struct{}, len(set.shapes))
	complete := true

	for si := range set.shapes {
		if stop() {
			complete = false
			break
		}
		shape := &set.shapes[si]
		seen := make(map[uint32]struct{})
		for _, px := range shape.BorderPixels {
			for _, d := range neighbors8 {
				nx, ny := px.Point.X+d.dx, px.Point.Y+d.dy
				if !lf.inBounds(nx, ny) {
					continue
				}
				other := lf.rootAt(nx, ny)
				if other == 0 || other == shape.Label {
					continue
				}
				seen[other] = struct{}{}
			}
		}
		found[si] = seen
	}

	if complete {
		for si, seen := range found {
			for other := range seen {
				j := set.index[other]
				if j < 0 {
					continue
				}
				if found[j] == nil {
					found[j] = make(map[uint32]struct{})
				}
				found[j][set.shapes[si].Label] = struct{}{}
			}
		}
	}

	for si, seen := range found {
		set.shapes[si].Adjacent = sortedLabels(seen)
	}
	return complete
}

func sortedLabels(m map[uint32]struct{}) []uint32 {
	labels := make([]uint32, 0, len(m))
	for l := range m {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}
