// Package province decodes the attributes packed into province map colors.
//
// A province color, read as the 24-bit value R<<16 | G<<8 | B, carries:
//
//	bits 18-23  terrain id (6 bits)
//	bit  17     coastal flag
//	bits 14-16  continent (3 bits)
//	bits 12-13  type: 0 unknown, 1 land, 2 lake, 3 sea
//	bits 0-11   state id (12 bits)
//
// Decode is total: every color yields Attributes, and type 0 is ordinary data
// rather than an error. Encode is its inverse and rejects out-of-range
// fields with ErrFieldRange.
//
// BuildProvinces turns detected shapes into Province records with stable
// IDs, decoded attributes and a display color from a ColorGenerator.
package province
