// Window and block statistics filters
package algorithms

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"non-destructive-image-editor/internal/raster"
)

// MedianFilter replaces every channel with the median of its
// (2r+1)x(2r+1) neighbourhood. The border is replicated so edge pixels
// are filtered too.
type MedianFilter struct {
	Radius int `yaml:"radius"`
}

// NewMedianFilter validates and builds a median filter.
func NewMedianFilter(radius int) (MedianFilter, error) {
	op := MedianFilter{Radius: radius}
	return op, op.validate()
}

func (MedianFilter) Kind() Kind         { return KindMedian }
func (o MedianFilter) validate() error { return validateRadius(o.Kind(), o.Radius) }

func (o MedianFilter) Apply(src *image.NRGBA) *image.NRGBA {
	if o.Radius <= 0 {
		return raster.Clone(src)
	}
	return matOp(src, func(in gocv.Mat, out *gocv.Mat) error {
		gocv.MedianBlur(in, out, 2*o.Radius+1)
		return nil
	})
}

// BlockAverage divides the raster into Width x Height blocks and fills
// each with its rounded per-channel mean. Blocks on the right and bottom
// edges are smaller when the dimensions do not divide evenly.
type BlockAverage struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// NewBlockAverage validates and builds a block averaging filter.
func NewBlockAverage(width, height int) (BlockAverage, error) {
	op := BlockAverage{Width: width, Height: height}
	return op, op.validate()
}

func (BlockAverage) Kind() Kind { return KindBlockAverage }

func (o BlockAverage) validate() error {
	if err := checkMin(o.Kind(), "width", o.Width, 1); err != nil {
		return err
	}
	return checkMin(o.Kind(), "height", o.Height, 1)
}

func (o BlockAverage) Apply(src *image.NRGBA) *image.NRGBA {
	if o.Width < 1 || o.Height < 1 {
		return raster.Clone(src)
	}
	w, h := raster.Size(src)
	return matOp(src, func(in gocv.Mat, out *gocv.Mat) error {
		in.CopyTo(out)
		for by := 0; by < h; by += o.Height {
			bh := min(o.Height, h-by)
			for bx := 0; bx < w; bx += o.Width {
				bw := min(o.Width, w-bx)

				block := out.Region(image.Rect(bx, by, bx+bw, by+bh))
				m := block.Mean()
				block.SetTo(gocv.NewScalar(math.Round(m.Val1), math.Round(m.Val2), math.Round(m.Val3), math.Round(m.Val4)))
				block.Close()
			}
		}
		return nil
	})
}
