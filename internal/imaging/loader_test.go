package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
)

// writeTestImage encodes img into dir/name, choosing BMP or PNG by extension.
func writeTestImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if filepath.Ext(name) == ".bmp" {
		err = bmp.Encode(f, img)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// createTestImage creates a solid test image file and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	return writeTestImage(t, t.TempDir(), "test-image.png", solidImage(width, height, c))
}

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// quadrantImage fills the four quadrants red, green, blue and white.
func quadrantImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}

	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_LoadBMP(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, t.TempDir(), "provinces.bmp", quadrantImage(8, 6))

	buf, err := cache.Pixels(path)
	if err != nil {
		t.Fatalf("Pixels failed: %v", err)
	}
	if buf.Width != 8 || buf.Height != 6 {
		t.Fatalf("dimensions: got %dx%d, want 8x6", buf.Width, buf.Height)
	}
	// Bottom-right quadrant is white, top-left red.
	if got := buf.Data[0:3]; got[0] != 255 || got[1] != 0 || got[2] != 0 {
		t.Errorf("pixel (0,0): got %v, want red", got)
	}
	last := len(buf.Data) - 3
	if got := buf.Data[last:]; got[0] != 255 || got[1] != 255 || got[2] != 255 {
		t.Errorf("pixel (7,5): got %v, want white", got)
	}
}

func TestImageCache_PixelsCached(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 4, 4, color.RGBA{10, 20, 30, 255})

	a, err := cache.Pixels(imgPath)
	if err != nil {
		t.Fatalf("Pixels failed: %v", err)
	}
	b, err := cache.Pixels(imgPath)
	if err != nil {
		t.Fatalf("second Pixels failed: %v", err)
	}
	if a != b {
		t.Error("second Pixels did not return cached buffer")
	}

	cache.Evict(imgPath)
	c, err := cache.Pixels(imgPath)
	if err != nil {
		t.Fatalf("Pixels after Evict failed: %v", err)
	}
	if c == a {
		t.Error("Evict did not drop the cached buffer")
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"non-existent", "/nonexistent/path/to/image.png"},
		{"invalid data", bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewImageCache()
			if _, err := cache.Load(tt.path); err == nil {
				t.Error("Load should fail")
			}
			if _, err := cache.Pixels(tt.path); err == nil {
				t.Error("Pixels should fail")
			}
		})
	}
}

func TestImageCache_Clear(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 255, 0, 255})

	if _, err := cache.Pixels(imgPath); err != nil {
		t.Fatalf("Pixels failed: %v", err)
	}

	cache.Clear()

	cache.mu.RLock()
	images, pixels := len(cache.images), len(cache.pixels)
	cache.mu.RUnlock()

	if images != 0 || pixels != 0 {
		t.Errorf("Clear did not empty cache: %d images, %d buffers remain", images, pixels)
	}
}

func TestImageCache_Evict_NonExistent(t *testing.T) {
	cache := NewImageCache()
	// Should not panic
	cache.Evict("/nonexistent/path")
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Pixels(imgPath); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Pixels error: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 200, 150, color.RGBA{255, 128, 64, 255})

	info, err := LoadImageInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 200 {
		t.Errorf("Width: got %d, want 200", info.Width)
	}
	if info.Height != 150 {
		t.Errorf("Height: got %d, want 150", info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestLoadImageInfo_FormatDetection(t *testing.T) {
	tests := []struct {
		name   string
		format string
	}{
		{"map.bmp", "bmp"},
		{"map.BMP", "bmp"},
		{"map.png", "png"},
		{"map.jpg", "jpeg"},
		{"map.jpeg", "jpeg"},
		{"map.gif", "gif"},
		{"map.xyz", "unknown"},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The decoder sniffs content, so any extension decodes.
			path := writeTestImage(t, dir, tt.name, solidImage(10, 10, color.Black))

			info, err := LoadImageInfo(NewImageCache(), path)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}
			if info.Format != tt.format {
				t.Errorf("Format for %s: got %s, want %s", tt.name, info.Format, tt.format)
			}
		})
	}
}

func TestLoadImageInfo_NonExistent(t *testing.T) {
	cache := NewImageCache()
	_, err := LoadImageInfo(cache, "/nonexistent/image.png")
	if err == nil {
		t.Error("LoadImageInfo should fail for non-existent file")
	}
}
