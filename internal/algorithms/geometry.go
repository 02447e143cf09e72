// Geometric transforms: flips, quarter-turn rotations and resizing
package algorithms

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"non-destructive-image-editor/internal/raster"
)

// FlipHorizontal mirrors the raster left to right.
type FlipHorizontal struct{}

func (FlipHorizontal) Kind() Kind      { return KindFlipHorizontal }
func (FlipHorizontal) validate() error { return nil }

func (FlipHorizontal) Apply(src *image.NRGBA) *image.NRGBA {
	return flip(src, 1)
}

// FlipVertical mirrors the raster top to bottom.
type FlipVertical struct{}

func (FlipVertical) Kind() Kind      { return KindFlipVertical }
func (FlipVertical) validate() error { return nil }

func (FlipVertical) Apply(src *image.NRGBA) *image.NRGBA {
	return flip(src, 0)
}

// flip mirrors around the x axis (code 0) or the y axis (code 1).
func flip(src *image.NRGBA, code int) *image.NRGBA {
	return matOp(src, func(in gocv.Mat, out *gocv.Mat) error {
		gocv.Flip(in, out, code)
		return nil
	})
}

// RotateLeft turns the raster 90 degrees anticlockwise: a W x H input
// becomes H x W with (x,y) moving to (y, W-1-x).
type RotateLeft struct{}

func (RotateLeft) Kind() Kind      { return KindRotateLeft }
func (RotateLeft) validate() error { return nil }

func (RotateLeft) Apply(src *image.NRGBA) *image.NRGBA {
	return rotate(src, gocv.Rotate90CounterClockwise)
}

// RotateRight turns the raster 90 degrees clockwise; it is the inverse
// of RotateLeft.
type RotateRight struct{}

func (RotateRight) Kind() Kind      { return KindRotateRight }
func (RotateRight) validate() error { return nil }

func (RotateRight) Apply(src *image.NRGBA) *image.NRGBA {
	return rotate(src, gocv.Rotate90Clockwise)
}

// Rotate180 turns the raster half a revolution.
type Rotate180 struct{}

func (Rotate180) Kind() Kind      { return KindRotate180 }
func (Rotate180) validate() error { return nil }

func (Rotate180) Apply(src *image.NRGBA) *image.NRGBA {
	return rotate(src, gocv.Rotate180Clockwise)
}

// rotate is an exact pixel permutation; an empty raster keeps its
// dimensions swapped for quarter turns.
func rotate(src *image.NRGBA, code gocv.RotateFlag) *image.NRGBA {
	w, h := raster.Size(src)
	if w == 0 || h == 0 {
		if code == gocv.Rotate180Clockwise {
			return raster.New(w, h)
		}
		return raster.New(h, w)
	}
	return matOp(src, func(in gocv.Mat, out *gocv.Mat) error {
		gocv.Rotate(in, out, code)
		return nil
	})
}

// Resize limits
const (
	MinResizePercent = 1
	MaxResizePercent = 1000
)

// Resize scales the raster by Percent. Shrinking averages source areas;
// enlarging interpolates bicubically.
type Resize struct {
	Percent int `yaml:"percent"`
}

// NewResize validates and builds a resize.
func NewResize(percent int) (Resize, error) {
	op := Resize{Percent: percent}
	return op, op.validate()
}

func (Resize) Kind() Kind { return KindResize }

func (o Resize) validate() error {
	return checkRange(o.Kind(), "percent", o.Percent, MinResizePercent, MaxResizePercent)
}

// TargetSize returns the dimensions Apply produces for a w x h input.
func (o Resize) TargetSize(w, h int) (int, int) {
	scale := float64(o.Percent) / 100
	return int(math.Round(float64(w) * scale)), int(math.Round(float64(h) * scale))
}

// Apply returns an unchanged copy when the scaled size would have a
// non-positive dimension.
func (o Resize) Apply(src *image.NRGBA) *image.NRGBA {
	w, h := raster.Size(src)
	nw, nh := o.TargetSize(w, h)
	if nw <= 0 || nh <= 0 || (nw == w && nh == h) {
		return raster.Clone(src)
	}

	interp := gocv.InterpolationCubic
	if nw < w || nh < h {
		interp = gocv.InterpolationArea
	}

	return matOp(src, func(in gocv.Mat, out *gocv.Mat) error {
		if err := gocv.Resize(in, out, image.Pt(nw, nh), 0, 0, interp); err != nil {
			return fmt.Errorf("resize to %dx%d: %w", nw, nh, err)
		}
		return nil
	})
}
