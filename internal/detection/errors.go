package detection

import "errors"

var (
	// ErrInvalidDimensions indicates a pixel source with zero or negative width or height.
	ErrInvalidDimensions = errors.New("detection: image width and height must be positive")
	// ErrBufferSize indicates the RGB buffer length is not 3*width*height.
	ErrBufferSize = errors.New("detection: pixel buffer length does not match dimensions")
	// ErrImageTooLarge indicates the pixel count does not fit in the 32-bit label space.
	ErrImageTooLarge = errors.New("detection: image has more pixels than labels can address")
	// ErrAllocation indicates the label field could not be allocated.
	ErrAllocation = errors.New("detection: failed to allocate label field")
	// ErrNoRegions indicates every pixel carries the border-line color.
	ErrNoRegions = errors.New("detection: image contains only border-line pixels")
	// ErrAlreadyRun indicates Find was called more than once on the same Finder.
	ErrAlreadyRun = errors.New("detection: finder has already been run")
	// ErrStageOrder indicates an attempted transition that skips or repeats a stage.
	ErrStageOrder = errors.New("detection: invalid stage transition")
	// ErrNilSource indicates a Finder was created without a pixel source.
	ErrNilSource = errors.New("detection: pixel source must not be nil")
)
