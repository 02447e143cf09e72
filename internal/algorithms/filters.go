// Convolution filters for blurring, sharpening and edge detection
package algorithms

import (
	"image"

	"non-destructive-image-editor/internal/kernel"
)

// MaxRadius bounds every radius parameter. Larger windows are accepted by
// the kernel package but take too long to be useful interactively.
const MaxRadius = 50

func validateRadius(k Kind, radius int) error {
	return checkRange(k, "radius", radius, 1, MaxRadius)
}

// MeanFilter blurs with a uniform (2r+1)x(2r+1) window.
type MeanFilter struct {
	Radius int `yaml:"radius"`
}

// NewMeanFilter validates and builds a mean filter.
func NewMeanFilter(radius int) (MeanFilter, error) {
	op := MeanFilter{Radius: radius}
	return op, op.validate()
}

func (MeanFilter) Kind() Kind         { return KindMean }
func (o MeanFilter) validate() error { return validateRadius(o.Kind(), o.Radius) }

func (o MeanFilter) Apply(src *image.NRGBA) *image.NRGBA {
	return kernel.Convolve(src, kernel.Mean(o.Radius))
}

// GaussianFilter blurs with a normalised Gaussian of sigma radius/3.
type GaussianFilter struct {
	Radius int `yaml:"radius"`
}

// NewGaussianFilter validates and builds a Gaussian blur.
func NewGaussianFilter(radius int) (GaussianFilter, error) {
	op := GaussianFilter{Radius: radius}
	return op, op.validate()
}

func (GaussianFilter) Kind() Kind         { return KindGaussian }
func (o GaussianFilter) validate() error { return validateRadius(o.Kind(), o.Radius) }

func (o GaussianFilter) Apply(src *image.NRGBA) *image.NRGBA {
	return kernel.Convolve(src, kernel.Gaussian(o.Radius))
}

// SharpenFilter applies the fixed 3x3 sharpening kernel.
type SharpenFilter struct{}

func (SharpenFilter) Kind() Kind      { return KindSharpen }
func (SharpenFilter) validate() error { return nil }

func (SharpenFilter) Apply(src *image.NRGBA) *image.NRGBA {
	return kernel.Convolve(src, kernel.Sharpen())
}

// SoftBlur applies the fixed 3x3 soft blur kernel.
type SoftBlur struct{}

func (SoftBlur) Kind() Kind      { return KindSoftBlur }
func (SoftBlur) validate() error { return nil }

func (SoftBlur) Apply(src *image.NRGBA) *image.NRGBA {
	return kernel.Convolve(src, kernel.SoftBlur())
}

// SobelDirection selects the gradient a Sobel filter responds to.
type SobelDirection string

const (
	SobelHorizontal SobelDirection = "horizontal"
	SobelVertical   SobelDirection = "vertical"
)

// SobelFilter highlights intensity edges in one direction.
type SobelFilter struct {
	Direction SobelDirection `yaml:"direction"`
}

// NewSobelFilter validates and builds a Sobel filter.
func NewSobelFilter(d SobelDirection) (SobelFilter, error) {
	op := SobelFilter{Direction: d}
	return op, op.validate()
}

func (SobelFilter) Kind() Kind { return KindSobel }

func (o SobelFilter) validate() error {
	switch o.Direction {
	case SobelHorizontal, SobelVertical:
		return nil
	}
	return &InvalidParameterError{Op: o.Kind().String(), Param: "direction", Value: string(o.Direction), Reason: "must be horizontal or vertical"}
}

func (o SobelFilter) Apply(src *image.NRGBA) *image.NRGBA {
	if o.Direction == SobelVertical {
		return kernel.Convolve(src, kernel.SobelVertical())
	}
	return kernel.Convolve(src, kernel.SobelHorizontal())
}

// EmbossFilter applies one of the eight directional emboss kernels.
type EmbossFilter struct {
	Direction kernel.Direction `yaml:"direction"`
}

// NewEmbossFilter validates and builds an emboss filter.
func NewEmbossFilter(d kernel.Direction) (EmbossFilter, error) {
	op := EmbossFilter{Direction: d}
	return op, op.validate()
}

func (EmbossFilter) Kind() Kind { return KindEmboss }

func (o EmbossFilter) validate() error {
	if _, ok := kernel.Emboss(o.Direction); !ok {
		return &InvalidParameterError{Op: o.Kind().String(), Param: "direction", Value: string(o.Direction), Reason: "must be one of n, ne, e, se, s, sw, w, nw"}
	}
	return nil
}

func (o EmbossFilter) Apply(src *image.NRGBA) *image.NRGBA {
	k, ok := kernel.Emboss(o.Direction)
	if !ok {
		k = kernel.Mean(0)
	}
	return kernel.Convolve(src, k)
}
