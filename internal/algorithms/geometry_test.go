package algorithms

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"non-destructive-image-editor/internal/raster"
)

func TestRotateLeftMapping(t *testing.T) {
	src := gradient(3, 2)
	out := RotateLeft{}.Apply(src)

	w, h := raster.Size(out)
	require.Equal(t, 2, w)
	require.Equal(t, 3, h)

	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, src.NRGBAAt(x, y), out.NRGBAAt(y, 3-1-x))
		}
	}
}

func TestRotationIdentities(t *testing.T) {
	src := gradient(5, 3)
	left, right, half := RotateLeft{}, RotateRight{}, Rotate180{}

	assert.True(t, raster.Equal(src, right.Apply(left.Apply(src))))
	assert.True(t, raster.Equal(src, left.Apply(right.Apply(src))))
	assert.True(t, raster.Equal(src, left.Apply(left.Apply(left.Apply(left.Apply(src))))))
	assert.True(t, raster.Equal(half.Apply(src), left.Apply(left.Apply(src))))
	assert.True(t, raster.Equal(src, half.Apply(half.Apply(src))))
}

func TestFlips(t *testing.T) {
	src := gradient(4, 3)
	h := FlipHorizontal{}.Apply(src)
	v := FlipVertical{}.Apply(src)

	assert.Equal(t, src.NRGBAAt(0, 1), h.NRGBAAt(3, 1))
	assert.Equal(t, src.NRGBAAt(2, 0), v.NRGBAAt(2, 2))

	assert.True(t, raster.Equal(src, FlipHorizontal{}.Apply(h)))
	assert.True(t, raster.Equal(src, FlipVertical{}.Apply(v)))
	assert.True(t, raster.Equal(Rotate180{}.Apply(src), FlipVertical{}.Apply(h)))
}

func TestResizeDimensions(t *testing.T) {
	src := raster.Filled(10, 6, color.NRGBA{R: 40, G: 80, B: 120, A: 255})

	tests := []struct {
		percent int
		w, h    int
	}{
		{100, 10, 6},
		{50, 5, 3},
		{200, 20, 12},
		{25, 3, 2},
		{5, 1, 0},
	}
	for _, tt := range tests {
		op, err := NewResize(tt.percent)
		require.NoError(t, err)
		w, h := op.TargetSize(10, 6)
		assert.Equal(t, tt.w, w, "percent %d", tt.percent)
		assert.Equal(t, tt.h, h, "percent %d", tt.percent)
	}

	out := Resize{Percent: 50}.Apply(src)
	w, h := raster.Size(out)
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)
	// Area averaging of a flat image is exact.
	assert.True(t, raster.Equal(raster.Filled(5, 3, color.NRGBA{R: 40, G: 80, B: 120, A: 255}), out))

	out = Resize{Percent: 300}.Apply(src)
	w, h = raster.Size(out)
	assert.Equal(t, 30, w)
	assert.Equal(t, 18, h)
}

func TestResizeToNothingIsNoOp(t *testing.T) {
	src := gradient(10, 6)
	out := Resize{Percent: 5}.Apply(src)
	assert.True(t, raster.Equal(src, out))
}

func TestResizeRange(t *testing.T) {
	_, err := NewResize(0)
	assert.Error(t, err)
	_, err = NewResize(MaxResizePercent + 1)
	assert.Error(t, err)
	_, err = NewResize(MaxResizePercent)
	assert.NoError(t, err)
}
