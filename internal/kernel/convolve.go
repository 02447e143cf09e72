package kernel

import (
	"image"

	"non-destructive-image-editor/internal/raster"
)

// Pad returns a copy of src grown by n pixels on every side. The new
// pixels replicate the nearest border pixel of src.
func Pad(src *image.NRGBA, n int) *image.NRGBA {
	w, h := raster.Size(src)
	if n <= 0 || w == 0 || h == 0 {
		return raster.Clone(src)
	}
	b := src.Bounds()
	pw, ph := w+2*n, h+2*n
	out := raster.New(pw, ph)

	for y := 0; y < ph; y++ {
		sy := clampInt(y-n, 0, h-1)
		for x := 0; x < pw; x++ {
			sx := clampInt(x-n, 0, w-1)
			si := src.PixOffset(b.Min.X+sx, b.Min.Y+sy)
			di := y*out.Stride + x*4
			copy(out.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return out
}

// Convolve applies k to src and returns a new raster of the same size.
//
// The source is padded by the kernel radius with replicated border pixels
// before the weighted sums are taken. Colour channels are always
// convolved; alpha is convolved only for normalised kernels and copied
// from the source otherwise, so edge-detection kernels do not make the
// image transparent.
func Convolve(src *image.NRGBA, k Kernel) *image.NRGBA {
	w, h := raster.Size(src)
	out := raster.New(w, h)
	if w == 0 || h == 0 || k.size == 0 {
		return out
	}

	r := k.Radius()
	padded := Pad(src, r)
	convolveAlpha := k.Normalized()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sr, sg, sb, sa float64

			// Output (x,y) is centred on padded (x+r, y+r).
			for ky := 0; ky < k.size; ky++ {
				row := (y+ky)*padded.Stride + x*4
				for kx := 0; kx < k.size; kx++ {
					weight := float64(k.weights[ky*k.size+kx])
					if weight == 0 {
						continue
					}
					i := row + kx*4
					sr += float64(padded.Pix[i+0]) * weight
					sg += float64(padded.Pix[i+1]) * weight
					sb += float64(padded.Pix[i+2]) * weight
					sa += float64(padded.Pix[i+3]) * weight
				}
			}

			di := y*out.Stride + x*4
			out.Pix[di+0] = raster.ClampByte(sr)
			out.Pix[di+1] = raster.ClampByte(sg)
			out.Pix[di+2] = raster.ClampByte(sb)
			if convolveAlpha {
				out.Pix[di+3] = raster.ClampByte(sa)
			} else {
				out.Pix[di+3] = padded.Pix[(y+r)*padded.Stride+(x+r)*4+3]
			}
		}
	}
	return out
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
