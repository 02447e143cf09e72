// Randomised operations. Their output depends on a random source, so
// replaying them never reproduces the same pixels.
package algorithms

import (
	"image"
	"math"
	"math/rand/v2"

	"non-destructive-image-editor/internal/raster"
)

// RandomNoise sets every pixel to independent random RGBA values.
type RandomNoise struct{}

func (RandomNoise) Kind() Kind      { return KindRandomNoise }
func (RandomNoise) validate() error { return nil }

func (RandomNoise) Apply(src *image.NRGBA) *image.NRGBA {
	w, h := raster.Size(src)
	out := raster.New(w, h)
	for i := 0; i < len(out.Pix); i += 4 {
		v := rand.Uint32()
		out.Pix[i+0] = uint8(v)
		out.Pix[i+1] = uint8(v >> 8)
		out.Pix[i+2] = uint8(v >> 16)
		out.Pix[i+3] = uint8(v >> 24)
	}
	return out
}

// RandomScatter gives each pixel the value of a random source pixel at
// most Radius away on each axis. Offsets that leave the raster are drawn
// again.
type RandomScatter struct {
	Radius int `yaml:"radius"`
}

// NewRandomScatter validates and builds a scatter.
func NewRandomScatter(radius int) (RandomScatter, error) {
	op := RandomScatter{Radius: radius}
	return op, op.validate()
}

func (RandomScatter) Kind() Kind         { return KindRandomScatter }
func (o RandomScatter) validate() error { return validateRadius(o.Kind(), o.Radius) }

func (o RandomScatter) Apply(src *image.NRGBA) *image.NRGBA {
	in := raster.Clone(src)
	w, h := raster.Size(in)
	out := raster.New(w, h)
	radius := max(o.Radius, 0)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx := scatterCoord(x, w, radius)
			sy := scatterCoord(y, h, radius)
			si := sy*in.Stride + sx*4
			di := y*out.Stride + x*4
			copy(out.Pix[di:di+4], in.Pix[si:si+4])
		}
	}
	return out
}

// scatterCoord draws v+d with d in [-radius, radius] until the result
// lies in [0, n).
func scatterCoord(v, n, radius int) int {
	for {
		d := radius - int(math.Round(rand.Float64()*float64(2*radius)))
		if p := v + d; p >= 0 && p < n {
			return p
		}
	}
}
