package detection

import (
	"fmt"
	"sort"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Color is a 24-bit RGB color. Two colors are equal only if all three
// channels match exactly.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ColorFromUint32 unpacks the low 24 bits of v as R<<16 | G<<8 | B.
func ColorFromUint32(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Uint32 packs the color as R<<16 | G<<8 | B.
func (c Color) Uint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Pixel pairs a coordinate with the color sampled there.
type Pixel struct {
	Point Point `json:"point"`
	Color Color `json:"color"`
}

// BoundingBox is the inclusive axis-aligned box around a set of pixels.
type BoundingBox struct {
	Min Point `json:"min"` // Top-left corner (inclusive)
	Max Point `json:"max"` // Bottom-right corner (inclusive)
}

// Width is the number of columns spanned by the box.
func (b BoundingBox) Width() int { return b.Max.X - b.Min.X + 1 }

// Height is the number of rows spanned by the box.
func (b BoundingBox) Height() int { return b.Max.Y - b.Min.Y + 1 }

// extend grows the box to include p.
func (b *BoundingBox) extend(p Point) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
}

// Rect is a rectangular region passed to GraphicsWorker.UpdateCallback.
// (X, Y) is the top-left corner; W and H may be zero to signal "no region".
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Shape is one contiguous single-colored region found in the image.
//
// Invariants of a finalized shape:
//   - Every pixel in Pixels resolves to Label in the label field.
//   - Bounds exactly bounds Pixels.
//   - BorderPixels is a subset of Pixels.
//   - Adjacent is sorted ascending and never contains Label.
type Shape struct {
	// Label is the canonical (root) label of the region.
	Label uint32 `json:"label"`

	// Color is the representative color of the region as read from the image.
	Color Color `json:"color"`

	// Pixels lists every member pixel in row-major discovery order.
	Pixels []Pixel `json:"pixels"`

	// Bounds is the inclusive bounding box of Pixels.
	Bounds BoundingBox `json:"bounds"`

	// BorderPixels are member pixels that touch the image edge or a pixel
	// belonging to another region.
	BorderPixels []Pixel `json:"border_pixels"`

	// Adjacent lists the labels of every shape sharing a border with this one.
	Adjacent []uint32 `json:"adjacent"`
}

// IsAdjacentTo reports whether label is in the shape's adjacency set.
func (s *Shape) IsAdjacentTo(label uint32) bool {
	i := sort.Search(len(s.Adjacent), func(i int) bool { return s.Adjacent[i] >= label })
	return i < len(s.Adjacent) && s.Adjacent[i] == label
}

// addPixel appends p to the shape and grows its bounding box.
func (s *Shape) addPixel(p Pixel) {
	if len(s.Pixels) == 0 {
		s.Bounds = BoundingBox{Min: p.Point, Max: p.Point}
	} else {
		s.Bounds.extend(p.Point)
	}
	s.Pixels = append(s.Pixels, p)
}
