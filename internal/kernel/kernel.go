// Package kernel builds convolution kernels and applies them to rasters.
//
// Kernels are odd-sized squares of float32 weights stored row-major.
// Convolution pads the source by replicating its border pixels, so the
// output always has the same size as the input and no dark or undefined
// edges appear. Channel results are rounded and clamped to [0,255].
package kernel

import (
	"fmt"
	"math"
)

// Kernel is an odd-sized square weight matrix.
type Kernel struct {
	size    int
	weights []float32
}

// New builds a kernel from row-major weights. len(weights) must be the
// square of an odd number.
func New(weights []float32) (Kernel, error) {
	size := int(math.Sqrt(float64(len(weights))))
	if size*size != len(weights) || size%2 == 0 {
		return Kernel{}, fmt.Errorf("kernel: %d weights do not form an odd square", len(weights))
	}
	w := make([]float32, len(weights))
	copy(w, weights)
	return Kernel{size: size, weights: w}, nil
}

// must is used for the fixed kernels below, whose shapes are known to be valid.
func must(weights []float32) Kernel {
	k, err := New(weights)
	if err != nil {
		panic(err)
	}
	return k
}

// Size returns the side length of the kernel.
func (k Kernel) Size() int { return k.size }

// Radius returns the half-width of the kernel.
func (k Kernel) Radius() int { return k.size / 2 }

// At returns the weight at column x, row y.
func (k Kernel) At(x, y int) float32 { return k.weights[y*k.size+x] }

// Weights returns a copy of the row-major weights.
func (k Kernel) Weights() []float32 {
	w := make([]float32, len(k.weights))
	copy(w, k.weights)
	return w
}

// Sum returns the sum of all weights.
func (k Kernel) Sum() float64 {
	var s float64
	for _, v := range k.weights {
		s += float64(v)
	}
	return s
}

// Normalized reports whether the weights sum to 1 within float32 tolerance.
func (k Kernel) Normalized() bool {
	return math.Abs(k.Sum()-1) < 1e-4
}

// Mean returns the uniform (2r+1)x(2r+1) kernel with every weight 1/(2r+1)².
// For radius <= 0 it returns the 1x1 identity.
func Mean(radius int) Kernel {
	if radius <= 0 {
		return must([]float32{1})
	}
	size := 2*radius + 1
	w := make([]float32, size*size)
	val := float32(1) / float32(size*size)
	for i := range w {
		w[i] = val
	}
	return Kernel{size: size, weights: w}
}

// Gaussian returns a sampled 2-D Gaussian of the given radius with
// standard deviation radius/3, normalised so the weights sum to 1.
// For radius <= 0 it returns the 1x1 identity.
func Gaussian(radius int) Kernel {
	if radius <= 0 {
		return must([]float32{1})
	}
	size := 2*radius + 1
	theta := float64(radius) / 3
	twoThetaSq := 2 * theta * theta

	raw := make([]float64, size*size)
	var sum float64
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			v := math.Exp(-float64(x*x+y*y)/twoThetaSq) / (math.Pi * twoThetaSq)
			raw[(y+radius)*size+(x+radius)] = v
			sum += v
		}
	}

	w := make([]float32, len(raw))
	for i, v := range raw {
		w[i] = float32(v / sum)
	}
	return Kernel{size: size, weights: w}
}

// Sharpen is the fixed 3x3 sharpening kernel.
func Sharpen() Kernel {
	return must([]float32{
		0, -0.5, 0,
		-0.5, 3, -0.5,
		0, -0.5, 0,
	})
}

// SoftBlur is the fixed 3x3 soft blur kernel.
func SoftBlur() Kernel {
	return must([]float32{
		0, 1.0 / 8, 0,
		1.0 / 8, 1.0 / 2, 1.0 / 8,
		0, 1.0 / 8, 0,
	})
}

// SobelHorizontal responds to horizontal intensity changes.
func SobelHorizontal() Kernel {
	return must([]float32{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	})
}

// SobelVertical responds to vertical intensity changes.
func SobelVertical() Kernel {
	return must([]float32{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	})
}

// Direction names the light direction of an emboss kernel.
type Direction string

const (
	North     Direction = "n"
	NorthEast Direction = "ne"
	East      Direction = "e"
	SouthEast Direction = "se"
	South     Direction = "s"
	SouthWest Direction = "sw"
	West      Direction = "w"
	NorthWest Direction = "nw"
)

// East and SouthWest keep their historical weights: East does not sum to
// zero and SouthWest equals South.
var embossWeights = map[Direction][]float32{
	North:     {0, 0, 0, 1, 0, -1, 0, 0, 0},
	East:      {1, 0, -1, 0, 0, 0, -1, 0, 0},
	South:     {0, -1, 0, 0, 0, 0, 0, 1, 0},
	West:      {0, 0, 1, 0, 0, -1, 0, 0, 0},
	NorthEast: {0, 0, 0, 0, 0, -1, 0, 1, 0},
	NorthWest: {0, 0, 0, 0, 0, 1, 0, -1, 0},
	SouthEast: {0, 1, 0, 0, 0, 0, 0, -1, 0},
	SouthWest: {0, -1, 0, 0, 0, 0, 0, 1, 0},
}

// Directions lists the emboss directions in menu order.
func Directions() []Direction {
	return []Direction{North, East, South, West, NorthEast, NorthWest, SouthEast, SouthWest}
}

// Emboss returns the 3x3 emboss kernel for d.
func Emboss(d Direction) (Kernel, bool) {
	w, ok := embossWeights[d]
	if !ok {
		return Kernel{}, false
	}
	return must(w), true
}
