package province

import (
	"fmt"
	"strings"

	"github.com/ironsheep/province-tools-mcp/internal/detection"
)

// Bit layout of a province color packed as R<<16 | G<<8 | B.
const (
	TerrainMask   = 0xFC0000
	CoastalMask   = 0x020000
	ContinentMask = 0x01C000
	TypeMask      = 0x003000
	StateIDMask   = 0x000FFF

	terrainShift   = 18
	coastalShift   = 17
	continentShift = 14
	typeShift      = 12

	MaxTerrain   = TerrainMask >> terrainShift
	MaxContinent = ContinentMask >> continentShift
	MaxStateID   = StateIDMask
)

// Type is the province type stored in bits 12-13.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeLand
	TypeLake
	TypeSea
)

// String returns the lowercase type name.
func (t Type) String() string {
	switch t {
	case TypeUnknown:
		return "unknown"
	case TypeLand:
		return "land"
	case TypeLake:
		return "lake"
	case TypeSea:
		return "sea"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// MarshalText encodes the type as its name.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ParseType accepts a type name (case-insensitive).
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "unknown", "":
		return TypeUnknown, nil
	case "land":
		return TypeLand, nil
	case "lake":
		return TypeLake, nil
	case "sea":
		return TypeSea, nil
	}
	return TypeUnknown, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Attributes are the province properties packed into a province color.
type Attributes struct {
	Terrain   uint8  `json:"terrain"`
	Coastal   bool   `json:"coastal"`
	Continent uint8  `json:"continent"`
	Type      Type   `json:"type"`
	StateID   uint16 `json:"state_id"`
}

// Decode unpacks the attributes carried by c. Every color decodes; a type
// field of 0 is TypeUnknown.
func Decode(c detection.Color) Attributes {
	v := c.Uint32()
	return Attributes{
		Terrain:   uint8((v & TerrainMask) >> terrainShift),
		Coastal:   v&CoastalMask != 0,
		Continent: uint8((v & ContinentMask) >> continentShift),
		Type:      Type((v & TypeMask) >> typeShift),
		StateID:   uint16(v & StateIDMask),
	}
}

// Encode packs a into a province color. It is the inverse of Decode.
func Encode(a Attributes) (detection.Color, error) {
	switch {
	case a.Terrain > MaxTerrain:
		return detection.Color{}, fmt.Errorf("%w: terrain %d > %d", ErrFieldRange, a.Terrain, MaxTerrain)
	case a.Continent > MaxContinent:
		return detection.Color{}, fmt.Errorf("%w: continent %d > %d", ErrFieldRange, a.Continent, MaxContinent)
	case a.Type > TypeSea:
		return detection.Color{}, fmt.Errorf("%w: type %d > %d", ErrFieldRange, a.Type, TypeSea)
	case a.StateID > MaxStateID:
		return detection.Color{}, fmt.Errorf("%w: state id %d > %d", ErrFieldRange, a.StateID, MaxStateID)
	}

	v := uint32(a.Terrain)<<terrainShift |
		uint32(a.Continent)<<continentShift |
		uint32(a.Type)<<typeShift |
		uint32(a.StateID)
	if a.Coastal {
		v |= CoastalMask
	}
	return detection.ColorFromUint32(v), nil
}
