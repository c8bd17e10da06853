package province

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/ironsheep/province-tools-mcp/internal/detection"
)

// Province is a detected shape together with the attributes decoded from its
// color.
type Province struct {
	// ID is derived from the shape's color and its first pixel in row-major
	// order, so the same map always yields the same IDs.
	ID uuid.UUID `json:"id"`

	// Label is the detection label of the underlying shape.
	Label uint32 `json:"label"`

	// Color is the color the province is drawn with on the map.
	Color detection.Color `json:"color"`

	// UniqueColor is a generated display color, distinct across provinces.
	UniqueColor detection.Color `json:"unique_color"`

	Attributes  Attributes            `json:"attributes"`
	TerrainName string                `json:"terrain_name"`
	Bounds      detection.BoundingBox `json:"bounds"`
	PixelCount  int                   `json:"pixel_count"`

	// Adjacent lists the IDs of neighbouring provinces, in label order.
	Adjacent []uuid.UUID `json:"adjacent"`
}

// ProvinceID returns the stable ID of a shape with color c whose first pixel
// in row-major order is anchor. Shapes partition the image, so no two shapes
// share an anchor.
func ProvinceID(c detection.Color, anchor detection.Point) uuid.UUID {
	var key [12]byte
	binary.BigEndian.PutUint32(key[0:4], c.Uint32())
	binary.BigEndian.PutUint32(key[4:8], uint32(anchor.X))
	binary.BigEndian.PutUint32(key[8:12], uint32(anchor.Y))
	return uuid.NewSHA1(uuid.NameSpaceOID, key[:])
}

// BuildProvinces decodes every shape into a Province, in shape order.
//
// gen supplies the unique display colors; nil uses a fresh generator. Shape
// colors are reserved first so no display color collides with a map color.
func BuildProvinces(shapes []detection.Shape, gen *ColorGenerator) []Province {
	if gen == nil {
		gen = NewColorGenerator()
	}
	for i := range shapes {
		gen.Reserve(shapes[i].Color)
	}

	ids := make(map[uint32]uuid.UUID, len(shapes))
	out := make([]Province, len(shapes))
	for i := range shapes {
		s := &shapes[i]
		attrs := Decode(s.Color)
		id := ProvinceID(s.Color, anchorOf(s))
		ids[s.Label] = id

		out[i] = Province{
			ID:          id,
			Label:       s.Label,
			Color:       s.Color,
			UniqueColor: gen.Next(attrs.Type),
			Attributes:  attrs,
			TerrainName: TerrainName(attrs.Terrain),
			Bounds:      s.Bounds,
			PixelCount:  len(s.Pixels),
		}
	}

	for i := range shapes {
		adj := make([]uuid.UUID, 0, len(shapes[i].Adjacent))
		for _, l := range shapes[i].Adjacent {
			if id, ok := ids[l]; ok {
				adj = append(adj, id)
			}
		}
		out[i].Adjacent = adj
	}
	return out
}

// anchorOf returns the first member pixel of s. Shapes keep Pixels in
// row-major order.
func anchorOf(s *detection.Shape) detection.Point {
	if len(s.Pixels) == 0 {
		return s.Bounds.Min
	}
	return s.Pixels[0].Point
}
