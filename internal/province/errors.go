package province

import "errors"

var (
	// ErrFieldRange indicates an attribute value that does not fit its bit field.
	ErrFieldRange = errors.New("province: attribute out of range")
	// ErrUnknownType indicates a province type name that is not recognised.
	ErrUnknownType = errors.New("province: unknown province type")
	// ErrUnknownTerrain indicates a terrain name missing from the terrain table.
	ErrUnknownTerrain = errors.New("province: unknown terrain")
)
