package province

import (
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/province-tools-mcp/internal/detection"
)

// hueRange is the half-open hue interval, in degrees, a type draws from.
type hueRange struct{ from, to int }

// Land colors are greens, seas blues, lakes purples; unknown provinces get
// reds and oranges.
var typeHues = map[Type]hueRange{
	TypeLand:    {70, 155},
	TypeSea:     {175, 255},
	TypeLake:    {256, 335},
	TypeUnknown: {0, 69},
}

// Saturation and value are sampled in percent from these lower bounds so no
// color is close to gray or black.
const (
	minSaturation = 20
	minValue      = 20
	levels        = 100
)

// paletteStride walks the hue/saturation/value grid in a scattered order so
// consecutive colors look different.
const paletteStride = 7919

// ColorGenerator hands out unique display colors biased by province type.
//
// Colors are never repeated across types. When a type's palette is
// exhausted the unknown palette is used; when that is exhausted too, black is
// returned. ColorGenerator is safe for concurrent use.
type ColorGenerator struct {
	mu   sync.Mutex
	next map[Type]int
	used map[detection.Color]bool
}

// NewColorGenerator creates a generator positioned at the start of every
// palette.
func NewColorGenerator() *ColorGenerator {
	g := &ColorGenerator{}
	g.Reset()
	return g
}

// Reset rewinds every palette and forgets the colors handed out.
func (g *ColorGenerator) Reset() {
	g.mu.Lock()
	g.next = make(map[Type]int)
	g.used = make(map[detection.Color]bool)
	g.mu.Unlock()
}

// Reserve marks c as taken so Next never returns it.
func (g *ColorGenerator) Reserve(c detection.Color) {
	g.mu.Lock()
	g.used[c] = true
	g.mu.Unlock()
}

// Next returns the next unused color for t.
func (g *ColorGenerator) Next(t Type) detection.Color {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := typeHues[t]; ok && t != TypeUnknown {
		if c, ok := g.draw(t); ok {
			return c
		}
	}
	if c, ok := g.draw(TypeUnknown); ok {
		return c
	}
	return detection.Color{}
}

func (g *ColorGenerator) draw(t Type) (detection.Color, bool) {
	hr := typeHues[t]
	sats, vals := levels-minSaturation, levels-minValue
	size := (hr.to - hr.from) * sats * vals

	for g.next[t] < size {
		i := (g.next[t] * paletteStride) % size
		g.next[t]++

		h := hr.from + i/(sats*vals)
		s := minSaturation + (i/vals)%sats
		v := minValue + i%vals
		r, gr, b := colorful.Hsv(float64(h), float64(s)/levels, float64(v)/levels).Clamped().RGB255()
		c := detection.Color{R: r, G: gr, B: b}
		if g.used[c] {
			continue
		}
		g.used[c] = true
		return c, true
	}
	return detection.Color{}, false
}
