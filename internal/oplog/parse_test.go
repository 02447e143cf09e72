package oplog

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"non-destructive-image-editor/internal/algorithms"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		in   string
		want algorithms.Operation
	}{
		{"invert", algorithms.InvertColour{}},
		{"  rotate_left  ", algorithms.RotateLeft{}},
		{"gaussian {radius: 5}", algorithms.GaussianFilter{Radius: 5}},
		{"gaussian", algorithms.GaussianFilter{Radius: 3}},
		{"block_average {width: 4}", algorithms.BlockAverage{Width: 4, Height: 8}},
		{"mean{radius: 2}", algorithms.MeanFilter{Radius: 2}},
		{"sobel {direction: vertical}", algorithms.SobelFilter{Direction: algorithms.SobelVertical}},
		{"crop {start: {x: 1, y: 2}, end: {x: 9, y: 8}}", algorithms.NewCrop(image.Pt(1, 2), image.Pt(9, 8))},
		{
			"draw {shape: line, start: {x: 0, y: 0}, end: {x: 5, y: 5}, colour: {r: 255, a: 255}, width: 2}",
			algorithms.Draw{
				Selection: algorithms.NewCrop(image.Pt(0, 0), image.Pt(5, 5)).Selection,
				Shape:     algorithms.ShapeLine,
				Colour:    color.NRGBA{R: 255, A: 255},
				Width:     2,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			op, err := ParseOperation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, op)
		})
	}
}

func TestParseOperationErrors(t *testing.T) {
	_, err := ParseOperation("posterize {levels: 3}")
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = ParseOperation("")
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = ParseOperation("gaussian {radius: 0}")
	var perr *algorithms.InvalidParameterError
	assert.ErrorAs(t, err, &perr)

	_, err = ParseOperation("gaussian {radius: 99}")
	assert.ErrorAs(t, err, &perr)

	_, err = ParseOperation("gaussian [3]")
	assert.Error(t, err)

	_, err = ParseOperation("gaussian {radius: [")
	assert.Error(t, err)
}

func TestFormatOperationRoundTrip(t *testing.T) {
	for _, op := range sampleOps(t) {
		text := FormatOperation(op)
		back, err := ParseOperation(text)
		require.NoError(t, err, text)
		assert.Equal(t, op, back, text)
	}

	assert.Equal(t, "gaussian {radius: 3}", FormatOperation(algorithms.GaussianFilter{Radius: 3}))
	assert.Equal(t, "invert", FormatOperation(algorithms.InvertColour{}))
}
