package imaging

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/ironsheep/province-tools-mcp/internal/detection"
)

// ParseHexColor parses a color string like "#FF0000", "FF0000" or "0xFF0000"
// into a detection.Color.
func ParseHexColor(hex string) (detection.Color, error) {
	s := strings.TrimSpace(hex)
	s = strings.TrimPrefix(s, "#")
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	if len(s) != 6 {
		return detection.Color{}, fmt.Errorf("invalid hex color %q: want 6 hex digits", hex)
	}
	val, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return detection.Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return detection.ColorFromUint32(uint32(val)), nil
}

// SampleColor returns the exact 8-bit RGB color at pixel (x, y).
//
// Coordinates are relative to the image's top-left corner, so (0, 0) is the
// first pixel even for sub-images. 16-bit channels are truncated to 8 bits.
func SampleColor(img image.Image, x, y int) (detection.Color, error) {
	bounds := img.Bounds()
	px, py := bounds.Min.X+x, bounds.Min.Y+y
	if x < 0 || y < 0 || px >= bounds.Max.X || py >= bounds.Max.Y {
		return detection.Color{}, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d",
			x, y, bounds.Dx(), bounds.Dy())
	}

	r, g, b, _ := img.At(px, py).RGBA()
	return detection.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}, nil
}
