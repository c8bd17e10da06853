package province

import "fmt"

// defaultTerrains is indexed by terrain id.
var defaultTerrains = []string{
	"unknown",
	"ocean",
	"lakes",
	"forest",
	"hills",
	"mountain",
	"plains",
	"urban",
	"jungle",
	"marsh",
	"desert",
	"water_fjords",
	"water_shallow_sea",
	"water_deep_ocean",
}

// Terrains returns the default terrain identifiers, indexed by terrain id.
func Terrains() []string {
	return append([]string(nil), defaultTerrains...)
}

// TerrainName returns the identifier of terrain id. Ids past the default
// table are valid bit values but have no name and map to "unknown".
func TerrainName(id uint8) string {
	if int(id) < len(defaultTerrains) {
		return defaultTerrains[id]
	}
	return defaultTerrains[0]
}

// TerrainID looks up a terrain identifier in the default table.
func TerrainID(name string) (uint8, error) {
	for i, n := range defaultTerrains {
		if n == name {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTerrain, name)
}
