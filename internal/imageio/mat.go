package imageio

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"non-destructive-image-editor/internal/raster"
)

// ToMat converts a raster into a 4-channel 8-bit BGRA Mat.
// The caller must Close the returned Mat.
func ToMat(img *image.NRGBA) (gocv.Mat, error) {
	src := raster.Clone(img)
	w, h := raster.Size(src)
	if w == 0 || h == 0 {
		return gocv.NewMat(), ErrEmptyImage
	}

	buf := make([]byte, len(src.Pix))
	for i := 0; i < len(buf); i += 4 {
		buf[i+0] = src.Pix[i+2]
		buf[i+1] = src.Pix[i+1]
		buf[i+2] = src.Pix[i+0]
		buf[i+3] = src.Pix[i+3]
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, buf)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("create mat: %w", err)
	}
	return mat, nil
}

// FromMat converts an 8- or 16-bit Mat with 1, 3 or 4 channels (gray,
// BGR or BGRA) into a raster. Missing alpha becomes fully opaque.
func FromMat(mat gocv.Mat) (*image.NRGBA, error) {
	if mat.Empty() {
		return nil, ErrEmptyImage
	}

	ch := mat.Channels()
	src := mat
	switch mat.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	case gocv.MatTypeCV16UC1, gocv.MatTypeCV16UC3, gocv.MatTypeCV16UC4:
		converted := gocv.NewMat()
		defer converted.Close()
		mat.ConvertToWithParams(&converted, eightBitType(ch), 1.0/257, 0)
		src = converted
	default:
		return nil, fmt.Errorf("%w: mat type %v", ErrUnsupportedFormat, mat.Type())
	}

	w, h := src.Cols(), src.Rows()
	data := src.ToBytes()
	if len(data) < w*h*ch {
		return nil, fmt.Errorf("mat data too short: %d bytes for %dx%dx%d", len(data), w, h, ch)
	}

	out := raster.New(w, h)
	for p := 0; p < w*h; p++ {
		si, di := p*ch, p*4
		switch ch {
		case 1:
			v := data[si]
			out.Pix[di+0], out.Pix[di+1], out.Pix[di+2], out.Pix[di+3] = v, v, v, 255
		case 3:
			out.Pix[di+0], out.Pix[di+1], out.Pix[di+2], out.Pix[di+3] = data[si+2], data[si+1], data[si+0], 255
		case 4:
			out.Pix[di+0], out.Pix[di+1], out.Pix[di+2], out.Pix[di+3] = data[si+2], data[si+1], data[si+0], data[si+3]
		default:
			return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, ch)
		}
	}
	return out, nil
}

func eightBitType(channels int) gocv.MatType {
	switch channels {
	case 1:
		return gocv.MatTypeCV8UC1
	case 3:
		return gocv.MatTypeCV8UC3
	default:
		return gocv.MatTypeCV8UC4
	}
}
