package imageio

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions or pixel
	// layouts the codec cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrEmptyImage is returned when a zero-sized raster would be written
	// or a file decodes to nothing.
	ErrEmptyImage = errors.New("empty image")
)
