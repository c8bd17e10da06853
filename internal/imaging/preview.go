package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/province-tools-mcp/internal/detection"
)

// MaxPreviewSide caps the scaled preview width and height in pixels.
const MaxPreviewSide = 2048

// PreviewResult contains an encoded province preview.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview renders one shape as a PNG.
//
// The shape's bounding box is cropped out of img, every pixel that does not
// belong to the shape is made fully transparent, and the result is scaled by
// scale with nearest-neighbour sampling so province edges stay crisp. A scale
// of 0 or 1 leaves the crop unscaled.
func Preview(img image.Image, shape *detection.Shape, scale float64) (*PreviewResult, error) {
	if shape == nil || len(shape.Pixels) == 0 {
		return nil, fmt.Errorf("shape has no pixels")
	}
	if scale < 0 {
		return nil, fmt.Errorf("invalid scale %g", scale)
	}

	bounds := img.Bounds()
	box := shape.Bounds
	rect := image.Rect(box.Min.X, box.Min.Y, box.Max.X+1, box.Max.Y+1).Add(bounds.Min)
	if !rect.In(bounds) {
		return nil, fmt.Errorf("shape box (%d,%d)-(%d,%d) outside image bounds %dx%d",
			box.Min.X, box.Min.Y, box.Max.X, box.Max.Y, bounds.Dx(), bounds.Dy())
	}

	cropped := imaging.Crop(img, rect)

	member := make([]bool, box.Width()*box.Height())
	for _, px := range shape.Pixels {
		member[(px.Point.Y-box.Min.Y)*box.Width()+px.Point.X-box.Min.X] = true
	}
	for y := 0; y < box.Height(); y++ {
		for x := 0; x < box.Width(); x++ {
			if !member[y*box.Width()+x] {
				o := cropped.PixOffset(x, y)
				cropped.Pix[o+3] = 0
			}
		}
	}

	if scale != 1.0 && scale > 0 {
		newWidth := clampSide(float64(cropped.Bounds().Dx()) * scale)
		newHeight := clampSide(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func clampSide(v float64) int {
	switch {
	case v < 1:
		return 1
	case v > MaxPreviewSide:
		return MaxPreviewSide
	}
	return int(v)
}
