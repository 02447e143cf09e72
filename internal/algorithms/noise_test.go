package algorithms

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"non-destructive-image-editor/internal/raster"
)

func TestRandomNoiseKeepsSize(t *testing.T) {
	src := raster.Filled(16, 9, color.NRGBA{A: 255})
	out := RandomNoise{}.Apply(src)

	w, h := raster.Size(out)
	assert.Equal(t, 16, w)
	assert.Equal(t, 9, h)
	assert.False(t, raster.Equal(src, out))
}

func TestRandomScatterStaysWithinRadius(t *testing.T) {
	src := raster.New(40, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 40; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	op := RandomScatter{Radius: 2}
	out := op.Apply(src)
	for y := 0; y < 3; y++ {
		for x := 0; x < 40; x++ {
			c := out.NRGBAAt(x, y)
			assert.InDelta(t, x, int(c.R), 2)
			assert.InDelta(t, y, int(c.G), 2)
		}
	}
}

func TestRandomScatterUniformImage(t *testing.T) {
	src := raster.Filled(7, 7, color.NRGBA{R: 9, G: 8, B: 7, A: 6})
	assert.True(t, raster.Equal(src, RandomScatter{Radius: 3}.Apply(src)))
}

func TestRandomScatterSinglePixel(t *testing.T) {
	src := raster.Filled(1, 1, color.NRGBA{R: 1, A: 255})
	assert.True(t, raster.Equal(src, RandomScatter{Radius: MaxRadius}.Apply(src)))
}
