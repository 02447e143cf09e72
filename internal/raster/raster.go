// Raster helpers shared by the operation library and the history engine
package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// New allocates a transparent raster of the given size.
// Negative dimensions are treated as zero.
func New(width, height int) *image.NRGBA {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// Clone returns a deep copy of img rebased to the origin.
// A nil input yields an empty raster.
func Clone(img *image.NRGBA) *image.NRGBA {
	if img == nil {
		return New(0, 0)
	}
	b := img.Bounds()
	out := New(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()*4], img.Pix[src:src+b.Dx()*4])
	}
	return out
}

// FromImage converts any image into a non-premultiplied raster rebased to the origin.
func FromImage(img image.Image) *image.NRGBA {
	if img == nil {
		return New(0, 0)
	}
	if n, ok := img.(*image.NRGBA); ok {
		return Clone(n)
	}
	b := img.Bounds()
	out := New(b.Dx(), b.Dy())
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Filled returns a raster of the given size with every pixel set to c.
func Filled(width, height int, c color.NRGBA) *image.NRGBA {
	out := New(width, height)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = c.R
		out.Pix[i+1] = c.G
		out.Pix[i+2] = c.B
		out.Pix[i+3] = c.A
	}
	return out
}

// Size returns the width and height of img.
func Size(img *image.NRGBA) (int, int) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

// Equal reports whether two rasters have the same size and identical pixels.
func Equal(a, b *image.NRGBA) bool {
	aw, ah := Size(a)
	bw, bh := Size(b)
	if aw != bw || ah != bh {
		return false
	}
	for y := 0; y < ah; y++ {
		ao := a.PixOffset(a.Rect.Min.X, a.Rect.Min.Y+y)
		bo := b.PixOffset(b.Rect.Min.X, b.Rect.Min.Y+y)
		for i := 0; i < aw*4; i++ {
			if a.Pix[ao+i] != b.Pix[bo+i] {
				return false
			}
		}
	}
	return true
}

// Selection is the pair of points produced by a pointer gesture.
// Start and End may be given in any order.
type Selection struct {
	Start image.Point `yaml:"start"`
	End   image.Point `yaml:"end"`
}

// Rect returns the axis-aligned rectangle spanned by the two points.
func (s Selection) Rect() image.Rectangle {
	return image.Rectangle{Min: s.Start, Max: s.End}.Canon()
}

// Degenerate reports whether the selection has zero width or height.
func (s Selection) Degenerate() bool {
	r := s.Rect()
	return r.Dx() == 0 || r.Dy() == 0
}

// ClampByte rounds v to the nearest integer and clamps it to [0,255].
func ClampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
