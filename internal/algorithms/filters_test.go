package algorithms

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"non-destructive-image-editor/internal/kernel"
	"non-destructive-image-editor/internal/raster"
)

func TestRadiusValidation(t *testing.T) {
	constructors := map[string]func(int) error{
		"mean":     func(r int) error { _, err := NewMeanFilter(r); return err },
		"gaussian": func(r int) error { _, err := NewGaussianFilter(r); return err },
		"median":   func(r int) error { _, err := NewMedianFilter(r); return err },
		"scatter":  func(r int) error { _, err := NewRandomScatter(r); return err },
	}
	for name, build := range constructors {
		t.Run(name, func(t *testing.T) {
			var perr *InvalidParameterError
			assert.ErrorAs(t, build(0), &perr)
			assert.ErrorAs(t, build(-2), &perr)
			assert.ErrorAs(t, build(MaxRadius+1), &perr)
			assert.NoError(t, build(1))
			assert.NoError(t, build(MaxRadius))
		})
	}
}

func TestBlurKeepsUniformImage(t *testing.T) {
	src := raster.Filled(9, 6, color.NRGBA{R: 90, G: 180, B: 12, A: 255})
	for _, op := range []Operation{
		MeanFilter{Radius: 3},
		GaussianFilter{Radius: 4},
		SoftBlur{},
		SharpenFilter{},
		MedianFilter{Radius: 2},
	} {
		out := op.Apply(src)
		assert.True(t, raster.Equal(src, out), Name(op))
	}
}

func TestMeanFilterAveragesSpike(t *testing.T) {
	src := raster.Filled(3, 3, color.NRGBA{A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 90, A: 255})

	out := MeanFilter{Radius: 1}.Apply(src)
	assert.Equal(t, uint8(10), out.NRGBAAt(1, 1).R)
	assert.Equal(t, uint8(255), out.NRGBAAt(1, 1).A)
}

func TestSobelDirections(t *testing.T) {
	// Vertical stripe: left half dark, right half bright.
	src := raster.New(6, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			v := uint8(0)
			if x >= 3 {
				v = 200
			}
			src.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	horizontal := SobelFilter{Direction: SobelHorizontal}.Apply(src)
	vertical := SobelFilter{Direction: SobelVertical}.Apply(src)

	assert.Equal(t, uint8(255), horizontal.NRGBAAt(3, 3).R)
	assert.Equal(t, uint8(0), vertical.NRGBAAt(3, 3).R)
	assert.Equal(t, uint8(255), vertical.NRGBAAt(3, 3).A)

	_, err := NewSobelFilter("diagonal")
	assert.Error(t, err)
}

func TestEmbossDirections(t *testing.T) {
	for _, d := range kernel.Directions() {
		op, err := NewEmbossFilter(d)
		require.NoError(t, err)
		out := op.Apply(gradient(5, 5))
		w, h := raster.Size(out)
		assert.Equal(t, 5, w)
		assert.Equal(t, 5, h)
	}

	_, err := NewEmbossFilter("up")
	var perr *InvalidParameterError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "direction", perr.Param)
}

func TestMedianRemovesSaltNoise(t *testing.T) {
	src := raster.Filled(5, 5, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	src.SetNRGBA(2, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetNRGBA(0, 0, color.NRGBA{A: 255})

	out := MedianFilter{Radius: 1}.Apply(src)
	assert.True(t, raster.Equal(raster.Filled(5, 5, color.NRGBA{R: 100, G: 100, B: 100, A: 255}), out))
}

func TestMedianWideWindowKeepsAlpha(t *testing.T) {
	fill := color.NRGBA{R: 40, G: 80, B: 120, A: 90}
	src := raster.Filled(9, 9, fill)
	src.SetNRGBA(4, 4, color.NRGBA{R: 255, A: 255})
	src.SetNRGBA(8, 0, color.NRGBA{})

	out := MedianFilter{Radius: 4}.Apply(src)
	assert.True(t, raster.Equal(raster.Filled(9, 9, fill), out))
}

func TestBlockAverage(t *testing.T) {
	src := raster.New(3, 1)
	src.SetNRGBA(0, 0, color.NRGBA{R: 0, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 11, A: 255})
	src.SetNRGBA(2, 0, color.NRGBA{R: 200, A: 100})

	out := BlockAverage{Width: 2, Height: 1}.Apply(src)
	assert.Equal(t, color.NRGBA{R: 6, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 6, A: 255}, out.NRGBAAt(1, 0))
	// Remainder block of width 1 keeps its own value.
	assert.Equal(t, color.NRGBA{R: 200, A: 100}, out.NRGBAAt(2, 0))
}

func TestBlockAverageWholeImage(t *testing.T) {
	src := gradient(4, 4)
	out := BlockAverage{Width: 10, Height: 10}.Apply(src)

	first := out.NRGBAAt(0, 0)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, first, out.NRGBAAt(x, y))
		}
	}

	_, err := NewBlockAverage(0, 3)
	assert.Error(t, err)
	_, err = NewBlockAverage(3, 0)
	assert.Error(t, err)
}
