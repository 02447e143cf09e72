package algorithms

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"non-destructive-image-editor/internal/raster"
)

func TestInvertRed(t *testing.T) {
	src := raster.Filled(4, 4, color.NRGBA{R: 255, A: 255})
	out := InvertColour{}.Apply(src)

	want := raster.Filled(4, 4, color.NRGBA{G: 255, B: 255, A: 255})
	assert.True(t, raster.Equal(want, out))
}

func TestInvertKeepsAlpha(t *testing.T) {
	src := raster.Filled(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 77})
	out := InvertColour{}.Apply(src)
	assert.Equal(t, color.NRGBA{R: 245, G: 235, B: 225, A: 77}, out.NRGBAAt(0, 0))
}

func TestBrightnessContrast(t *testing.T) {
	tests := []struct {
		name       string
		brightness int
		contrast   int
		in         uint8
		want       uint8
	}{
		{"identity low", 0, 0, 3, 3},
		{"identity high", 0, 0, 250, 250},
		{"full brightness mid", 100, 0, 0, 127},
		{"full brightness clamps", 100, 0, 200, 255},
		{"no contrast flattens", 0, -100, 12, 127},
		{"double contrast", 0, 100, 100, 72},
		{"darken", -50, 0, 100, 36},
		{"darken clamps", -100, 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := NewBrightnessContrast(tt.brightness, tt.contrast)
			require.NoError(t, err)

			src := raster.Filled(2, 2, color.NRGBA{R: tt.in, G: tt.in, B: tt.in, A: 99})
			c := op.Apply(src).NRGBAAt(1, 1)
			assert.Equal(t, tt.want, c.R)
			assert.Equal(t, tt.want, c.B)
			assert.Equal(t, uint8(99), c.A)
		})
	}
}

func TestBrightnessContrastRange(t *testing.T) {
	var perr *InvalidParameterError

	_, err := NewBrightnessContrast(101, 0)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "brightness", perr.Param)

	_, err = NewBrightnessContrast(0, -101)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "contrast", perr.Param)

	_, err = NewBrightnessContrast(-100, 100)
	assert.NoError(t, err)
}

func TestChannelCycle(t *testing.T) {
	in := color.NRGBA{R: 10, G: 20, B: 30, A: 40}
	want := map[int]color.NRGBA{
		1: {R: 30, G: 10, B: 20, A: 40},
		2: {R: 20, G: 30, B: 10, A: 40},
		3: {R: 20, G: 10, B: 30, A: 40},
		4: {R: 10, G: 30, B: 20, A: 40},
		5: {R: 30, G: 20, B: 10, A: 40},
	}
	for p, w := range want {
		op, err := NewChannelCycle(p)
		require.NoError(t, err)
		assert.Equal(t, w, op.Apply(raster.Filled(1, 1, in)).NRGBAAt(0, 0), "permutation %d", p)
	}

	_, err := NewChannelCycle(0)
	assert.Error(t, err)
	_, err = NewChannelCycle(6)
	assert.Error(t, err)
}

func TestChannelCycleThreeTimesIsIdentity(t *testing.T) {
	src := gradient(5, 5)
	op := ChannelCycle{Permutation: 1}
	out := op.Apply(op.Apply(op.Apply(src)))
	assert.True(t, raster.Equal(src, out))
}
