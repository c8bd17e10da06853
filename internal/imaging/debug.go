package imaging

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"

	"github.com/ironsheep/province-tools-mcp/internal/detection"
)

// DebugCanvas is a detection.GraphicsWorker that paints label debug colors
// into an in-memory image and saves it as a PNG after each output stage.
//
// Stage snapshots are written to Dir as labels1.png (after PASS1) and
// labels2.png (after PASS2). When MaxSide is positive, snapshots larger than
// MaxSide on either axis are downscaled before saving.
type DebugCanvas struct {
	Dir     string
	MaxSide int

	mu      sync.Mutex
	img     *image.RGBA
	updates int
	saved   []string
}

// NewDebugCanvas creates a canvas for a width×height image.
func NewDebugCanvas(width, height int, dir string) *DebugCanvas {
	return &DebugCanvas{
		Dir: dir,
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// WriteDebugColor marks pixel (x, y) with c.
func (d *DebugCanvas) WriteDebugColor(x, y int, c detection.Color) {
	d.mu.Lock()
	d.img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	d.mu.Unlock()
}

// UpdateCallback records that region r changed.
func (d *DebugCanvas) UpdateCallback(r detection.Rect) {
	d.mu.Lock()
	d.updates++
	d.mu.Unlock()
}

// Snapshot saves the canvas for stage.
func (d *DebugCanvas) Snapshot(stage detection.Stage) error {
	var name string
	switch stage {
	case detection.StageOutputPass1:
		name = "labels1.png"
	case detection.StageOutputPass2:
		name = "labels2.png"
	default:
		return fmt.Errorf("no snapshot for stage %s", stage)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	var out image.Image = d.img
	if w, h := d.scaledSize(); w != d.img.Rect.Dx() || h != d.img.Rect.Dy() {
		out = transform.Resize(d.img, w, h, transform.NearestNeighbor)
	}

	path := filepath.Join(d.Dir, name)
	if err := imgio.Save(path, out, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	d.saved = append(d.saved, path)
	return nil
}

// Image returns the canvas image.
func (d *DebugCanvas) Image() *image.RGBA { return d.img }

// Saved returns the paths written so far.
func (d *DebugCanvas) Saved() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.saved...)
}

// Updates returns how many UpdateCallback calls the canvas has received.
func (d *DebugCanvas) Updates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updates
}

// scaledSize fits the canvas into MaxSide while keeping its aspect ratio.
func (d *DebugCanvas) scaledSize() (int, int) {
	w, h := d.img.Rect.Dx(), d.img.Rect.Dy()
	if d.MaxSide <= 0 || (w <= d.MaxSide && h <= d.MaxSide) {
		return w, h
	}
	if w >= h {
		return d.MaxSide, max(1, h*d.MaxSide/w)
	}
	return max(1, w*d.MaxSide/h), d.MaxSide
}
