package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PixelBuffer is a packed 24-bit RGB image: Data holds 3*Width*Height bytes,
// rows top-down, pixels left to right, no row padding.
//
// PixelBuffer satisfies detection.PixelSource.
type PixelBuffer struct {
	Width  int
	Height int
	Data   []byte
}

// Bounds returns the buffer dimensions.
func (p *PixelBuffer) Bounds() (int, int) { return p.Width, p.Height }

// RGB returns the packed pixel data.
func (p *PixelBuffer) RGB() []byte { return p.Data }

// FromImage converts any decoded image into a PixelBuffer.
//
// The image is first normalised to NRGBA so every color model (paletted BMPs,
// YCbCr JPEGs, 16-bit PNGs) is read the same way. Alpha is dropped.
func FromImage(img image.Image) *PixelBuffer {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	buf := &PixelBuffer{Width: w, Height: h, Data: make([]byte, 3*w*h)}
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+4*w]
		dst := buf.Data[3*y*w : 3*(y+1)*w]
		for x := 0; x < w; x++ {
			dst[3*x] = src[4*x]
			dst[3*x+1] = src[4*x+1]
			dst[3*x+2] = src[4*x+2]
		}
	}
	return buf
}

// NormalizeBGR converts raw BGR scanlines, as found in BMP pixel arrays, into
// a PixelBuffer.
//
// Parameters:
//   - data: the raw pixel array.
//   - width, height: image dimensions in pixels.
//   - stride: bytes per stored row including padding. Zero means 3*width.
//   - bottomUp: true when the first stored row is the bottom of the image.
//
// Returns an error if the dimensions are invalid, the stride is shorter than a
// row, or data is too short for height rows.
func NormalizeBGR(data []byte, width, height, stride int, bottomUp bool) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	row := 3 * width
	if stride == 0 {
		stride = row
	}
	if stride < row {
		return nil, fmt.Errorf("stride %d shorter than row of %d bytes", stride, row)
	}
	if need := stride*(height-1) + row; len(data) < need {
		return nil, fmt.Errorf("pixel data too short: got %d bytes, need %d", len(data), need)
	}

	buf := &PixelBuffer{Width: width, Height: height, Data: make([]byte, row*height)}
	for y := 0; y < height; y++ {
		sy := y
		if bottomUp {
			sy = height - 1 - y
		}
		src := data[sy*stride : sy*stride+row]
		dst := buf.Data[y*row : (y+1)*row]
		for x := 0; x < width; x++ {
			dst[3*x] = src[3*x+2]
			dst[3*x+1] = src[3*x+1]
			dst[3*x+2] = src[3*x]
		}
	}
	return buf, nil
}
