package algorithms

import (
	"image"
	"image/color"
	"math/rand/v2"

	"non-destructive-image-editor/internal/kernel"
)

// RandomOperation picks a registered kind uniformly and builds it with
// valid random parameters. Selection points are drawn inside a w x h
// raster. The result always passes Validate.
func RandomOperation(rng *rand.Rand, w, h int) Operation {
	kinds := Kinds()
	kind := kinds[rng.IntN(len(kinds))]

	point := func() image.Point {
		return image.Pt(rng.IntN(max(w, 1)), rng.IntN(max(h, 1)))
	}
	radius := func() int { return 1 + rng.IntN(5) }

	switch kind {
	case KindBrightnessContrast:
		return BrightnessContrast{Brightness: rng.IntN(201) - 100, Contrast: rng.IntN(201) - 100}
	case KindInvert:
		return InvertColour{}
	case KindChannelCycle:
		return ChannelCycle{Permutation: 1 + rng.IntN(len(channelOrders))}
	case KindMean:
		return MeanFilter{Radius: radius()}
	case KindGaussian:
		return GaussianFilter{Radius: radius()}
	case KindSharpen:
		return SharpenFilter{}
	case KindSoftBlur:
		return SoftBlur{}
	case KindSobel:
		if rng.IntN(2) == 0 {
			return SobelFilter{Direction: SobelHorizontal}
		}
		return SobelFilter{Direction: SobelVertical}
	case KindEmboss:
		dirs := kernel.Directions()
		return EmbossFilter{Direction: dirs[rng.IntN(len(dirs))]}
	case KindMedian:
		return MedianFilter{Radius: radius()}
	case KindBlockAverage:
		return BlockAverage{Width: 1 + rng.IntN(16), Height: 1 + rng.IntN(16)}
	case KindFlipHorizontal:
		return FlipHorizontal{}
	case KindFlipVertical:
		return FlipVertical{}
	case KindRotateLeft:
		return RotateLeft{}
	case KindRotateRight:
		return RotateRight{}
	case KindRotate180:
		return Rotate180{}
	case KindResize:
		return Resize{Percent: 50 + rng.IntN(101)}
	case KindCrop:
		return NewCrop(point(), point())
	case KindOvalCrop:
		return NewOvalCrop(point(), point())
	case KindDraw:
		shapes := []Shape{ShapeLine, ShapeRectangle, ShapeOval}
		v := rng.Uint32()
		op, _ := NewDraw(
			shapes[rng.IntN(len(shapes))],
			point(), point(),
			color.NRGBA{R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: 255},
			rng.IntN(2) == 0,
			1+rng.IntN(8),
		)
		return op
	case KindRandomNoise:
		return RandomNoise{}
	default:
		return RandomScatter{Radius: radius()}
	}
}
