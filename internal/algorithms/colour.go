// Per-pixel colour adjustments
package algorithms

import (
	"image"

	"gocv.io/x/gocv"

	"non-destructive-image-editor/internal/raster"
)

// BrightnessContrast shifts brightness and scales contrast, both given in
// percent in [-100, 100].
type BrightnessContrast struct {
	Brightness int `yaml:"brightness"`
	Contrast   int `yaml:"contrast"`
}

// NewBrightnessContrast validates and builds a brightness/contrast adjustment.
func NewBrightnessContrast(brightness, contrast int) (BrightnessContrast, error) {
	op := BrightnessContrast{Brightness: brightness, Contrast: contrast}
	return op, op.validate()
}

func (BrightnessContrast) Kind() Kind { return KindBrightnessContrast }

func (o BrightnessContrast) validate() error {
	if err := checkRange(o.Kind(), "brightness", o.Brightness, -100, 100); err != nil {
		return err
	}
	return checkRange(o.Kind(), "contrast", o.Contrast, -100, 100)
}

// Apply maps every colour channel v to
// (1+c/100)(v-127.5) + 127.5(1+b/100), clamped and truncated.
// Alpha is preserved.
func (o BrightnessContrast) Apply(src *image.NRGBA) *image.NRGBA {
	lut := o.table()
	table, err := gocv.NewMatFromBytes(1, len(lut), gocv.MatTypeCV8UC1, lut[:])
	if err != nil {
		return raster.Clone(src)
	}
	defer table.Close()

	return colourPlanes(src, func(plane gocv.Mat, dst *gocv.Mat) {
		gocv.LUT(plane, table, dst)
	})
}

// table returns the channel mapping as a 256 entry lookup table.
func (o BrightnessContrast) table() [256]uint8 {
	scale := 1 + float64(o.Contrast)/100
	offset := 127.5 * (1 + float64(o.Brightness)/100)

	var lut [256]uint8
	for v := range lut {
		a := scale*(float64(v)-127.5) + offset
		switch {
		case a < 0:
			a = 0
		case a > 255:
			a = 255
		}
		lut[v] = uint8(a)
	}
	return lut
}

// InvertColour replaces each colour channel v with 255-v. Alpha is preserved.
type InvertColour struct{}

func (InvertColour) Kind() Kind      { return KindInvert }
func (InvertColour) validate() error { return nil }

func (InvertColour) Apply(src *image.NRGBA) *image.NRGBA {
	return colourPlanes(src, func(plane gocv.Mat, dst *gocv.Mat) {
		gocv.BitwiseNot(plane, dst)
	})
}

// ChannelCycle permutes the colour channels. Permutation selects the new
// (R,G,B) from the old channels:
//
//	1: (B,R,G)  2: (G,B,R)  3: (G,R,B)  4: (R,B,G)  5: (B,G,R)
type ChannelCycle struct {
	Permutation int `yaml:"permutation"`
}

// NewChannelCycle validates and builds a channel permutation.
func NewChannelCycle(permutation int) (ChannelCycle, error) {
	op := ChannelCycle{Permutation: permutation}
	return op, op.validate()
}

func (ChannelCycle) Kind() Kind { return KindChannelCycle }

func (o ChannelCycle) validate() error {
	return checkRange(o.Kind(), "permutation", o.Permutation, 1, len(channelOrders))
}

// channelOrders[p-1] lists, for each output channel, the source channel
// index (0=R 1=G 2=B).
var channelOrders = [...][3]int{
	{2, 0, 1},
	{1, 2, 0},
	{1, 0, 2},
	{0, 2, 1},
	{2, 1, 0},
}

// Mat planes are stored B,G,R,A, so RGB channel c is plane 2-c.
func (o ChannelCycle) Apply(src *image.NRGBA) *image.NRGBA {
	if o.Permutation < 1 || o.Permutation > len(channelOrders) {
		return raster.Clone(src)
	}
	order := channelOrders[o.Permutation-1]

	return matOp(src, func(in gocv.Mat, out *gocv.Mat) error {
		return planeOp(in, out, func(planes []gocv.Mat) ([]gocv.Mat, error) {
			return []gocv.Mat{
				planes[2-order[2]],
				planes[2-order[1]],
				planes[2-order[0]],
				planes[3],
			}, nil
		})
	})
}
