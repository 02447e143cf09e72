// Selection driven operations: rectangular and oval crops, shape drawing
package algorithms

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"non-destructive-image-editor/internal/raster"
)

// Crop keeps the rectangle spanned by the selection, clipped to the
// raster. A selection with zero width or height leaves the raster
// unchanged.
type Crop struct {
	raster.Selection `yaml:",inline"`
}

// NewCrop builds a crop from two gesture points in any order.
func NewCrop(start, end image.Point) Crop {
	return Crop{Selection: raster.Selection{Start: start, End: end}}
}

func (Crop) Kind() Kind      { return KindCrop }
func (Crop) validate() error { return nil }

func (o Crop) Apply(src *image.NRGBA) *image.NRGBA {
	in := raster.Clone(src)
	if o.Degenerate() {
		return in
	}
	r := o.Rect().Intersect(in.Bounds())
	if r.Empty() {
		return in
	}
	return raster.Clone(in.SubImage(r).(*image.NRGBA))
}

// OvalCrop keeps the ellipse inscribed in the selection rectangle. Pixels
// outside the ellipse become transparent; the edge is anti-aliased.
type OvalCrop struct {
	raster.Selection `yaml:",inline"`
}

// NewOvalCrop builds an oval crop from two gesture points in any order.
func NewOvalCrop(start, end image.Point) OvalCrop {
	return OvalCrop{Selection: raster.Selection{Start: start, End: end}}
}

func (OvalCrop) Kind() Kind      { return KindOvalCrop }
func (OvalCrop) validate() error { return nil }

func (o OvalCrop) Apply(src *image.NRGBA) *image.NRGBA {
	in := raster.Clone(src)
	if o.Degenerate() {
		return in
	}
	rect := o.Rect()
	clip := rect.Intersect(in.Bounds())
	if clip.Empty() {
		return in
	}

	mask := ellipseMask(rect, clip)
	out := raster.New(clip.Dx(), clip.Dy())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			si := in.PixOffset(x, y)
			di := (y-clip.Min.Y)*out.Stride + (x-clip.Min.X)*4
			m := uint32(mask.Pix[(y-clip.Min.Y)*mask.Stride+(x-clip.Min.X)])

			copy(out.Pix[di:di+3], in.Pix[si:si+3])
			out.Pix[di+3] = uint8((uint32(in.Pix[si+3])*m + 127) / 255)
		}
	}
	return out
}

// maxMaskExtent bounds the ellipses handed to rasterx, whose 26.6
// fixed-point coordinates overflow well before the int range.
const maxMaskExtent = 1 << 20

// ellipseMask rasterizes the part of the ellipse inscribed in rect that
// falls inside clip. The mask covers clip only.
func ellipseMask(rect, clip image.Rectangle) *image.Alpha {
	w, h := clip.Dx(), clip.Dy()
	mask := image.NewAlpha(image.Rect(0, 0, w, h))

	rx, ry := float64(rect.Dx())/2, float64(rect.Dy())/2
	cx := float64(rect.Min.X-clip.Min.X) + rx
	cy := float64(rect.Min.Y-clip.Min.Y) + ry
	if rect.Dx() > maxMaskExtent || rect.Dy() > maxMaskExtent {
		sampleEllipse(mask, cx, cy, rx, ry)
		return mask
	}

	scanner := rasterx.NewScannerGV(w, h, mask, mask.Bounds())
	filler := rasterx.NewFiller(w, h, scanner)
	filler.SetColor(color.Alpha{A: 255})
	rasterx.AddEllipse(cx, cy, rx, ry, 0, filler)
	filler.Draw()
	return mask
}

// sampleEllipse fills mask with ellipse coverage measured on a 4x4 grid
// of samples per pixel.
func sampleEllipse(mask *image.Alpha, cx, cy, rx, ry float64) {
	const grid = 4
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			inside := 0
			for j := 0; j < grid; j++ {
				dy := (float64(y) + (float64(j)+0.5)/grid - cy) / ry
				for i := 0; i < grid; i++ {
					dx := (float64(x) + (float64(i)+0.5)/grid - cx) / rx
					if dx*dx+dy*dy <= 1 {
						inside++
					}
				}
			}
			mask.Pix[mask.PixOffset(x, y)] = uint8(inside * 255 / (grid * grid))
		}
	}
}

// Shape selects what a Draw operation renders.
type Shape string

const (
	ShapeLine      Shape = "line"
	ShapeRectangle Shape = "rectangle"
	ShapeOval      Shape = "oval"
)

// Draw renders an anti-aliased line, rectangle or oval between the
// selection points onto a copy of the raster.
type Draw struct {
	raster.Selection `yaml:",inline"`
	Shape            Shape       `yaml:"shape"`
	Colour           color.NRGBA `yaml:"colour"`
	Fill             bool        `yaml:"fill"`
	Width            int         `yaml:"width"`
}

// NewDraw validates and builds a drawing operation.
func NewDraw(shape Shape, start, end image.Point, colour color.NRGBA, fill bool, width int) (Draw, error) {
	op := Draw{
		Selection: raster.Selection{Start: start, End: end},
		Shape:     shape,
		Colour:    colour,
		Fill:      fill,
		Width:     width,
	}
	return op, op.validate()
}

func (Draw) Kind() Kind { return KindDraw }

func (o Draw) validate() error {
	switch o.Shape {
	case ShapeLine, ShapeRectangle, ShapeOval:
	default:
		return &InvalidParameterError{Op: o.Kind().String(), Param: "shape", Value: string(o.Shape), Reason: "must be line, rectangle or oval"}
	}
	return checkMin(o.Kind(), "width", o.Width, 1)
}

// Strokes are centred on pixel centres so a one pixel line covers one
// row of pixels; fills cover whole pixels between the corners.
func (o Draw) Apply(src *image.NRGBA) *image.NRGBA {
	out := raster.Clone(src)
	w, h := raster.Size(out)
	if w == 0 || h == 0 || o.Start == o.End {
		return out
	}

	scanner := rasterx.NewScannerGV(w, h, out, out.Bounds())
	r := o.Rect()
	minX, minY := float64(r.Min.X), float64(r.Min.Y)
	maxX, maxY := float64(r.Max.X), float64(r.Max.Y)

	if o.Fill && o.Shape != ShapeLine {
		if r.Dx() == 0 || r.Dy() == 0 {
			return out
		}
		filler := rasterx.NewFiller(w, h, scanner)
		filler.SetColor(o.Colour)
		if o.Shape == ShapeRectangle {
			rasterx.AddRect(minX, minY, maxX, maxY, 0, filler)
		} else {
			rasterx.AddEllipse((minX+maxX)/2, (minY+maxY)/2, (maxX-minX)/2, (maxY-minY)/2, 0, filler)
		}
		filler.Draw()
		return out
	}

	width := max(o.Width, 1)
	stroker := rasterx.NewStroker(w, h, scanner)
	stroker.SetStroke(fixed.I(width), fixed.I(10), rasterx.SquareCap, rasterx.SquareCap, rasterx.RoundGap, rasterx.Miter)
	stroker.SetColor(o.Colour)

	switch o.Shape {
	case ShapeLine:
		stroker.Start(rasterx.ToFixedP(float64(o.Start.X)+0.5, float64(o.Start.Y)+0.5))
		stroker.Line(rasterx.ToFixedP(float64(o.End.X)+0.5, float64(o.End.Y)+0.5))
		stroker.Stop(false)
	case ShapeRectangle:
		rasterx.AddRect(minX+0.5, minY+0.5, maxX+0.5, maxY+0.5, 0, stroker)
	case ShapeOval:
		if r.Dx() == 0 || r.Dy() == 0 {
			return out
		}
		rasterx.AddEllipse((minX+maxX)/2+0.5, (minY+maxY)/2+0.5, (maxX-minX)/2, (maxY-minY)/2, 0, stroker)
	}
	stroker.Draw()
	return out
}
