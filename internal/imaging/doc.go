// Package imaging loads province map images and adapts them for detection.
//
// It covers the pixel plumbing around the detection engine: decoding BMP,
// PNG, JPEG and GIF files, converting them into the packed 24-bit RGB
// PixelBuffer that detection.Finder reads, rendering single provinces as PNG
// previews, and persisting debug stage snapshots through DebugCanvas.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the
// top-left corner, X increasing rightward and Y increasing downward.
//
// # Pixel Layout
//
// PixelBuffer.Data is row-major and top-down with three bytes per pixel in
// R, G, B order and no row padding. BMP pixel arrays store rows bottom-up in
// B, G, R order padded to four bytes; NormalizeBGR converts such raw data.
//
// # Thread Safety
//
// ImageCache and DebugCanvas are safe for concurrent use. PixelBuffers are
// treated as read-only once built.
package imaging
