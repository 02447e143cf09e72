package algorithms

import (
	"image"

	"gocv.io/x/gocv"

	"non-destructive-image-editor/internal/imageio"
	"non-destructive-image-editor/internal/raster"
)

// matOp runs fn on a BGRA Mat copy of src and converts fn's output back.
// An empty src, or any conversion or OpenCV failure, yields an unchanged
// copy of src.
func matOp(src *image.NRGBA, fn func(in gocv.Mat, out *gocv.Mat) error) *image.NRGBA {
	w, h := raster.Size(src)
	if w == 0 || h == 0 {
		return raster.Clone(src)
	}

	in, err := imageio.ToMat(src)
	if err != nil {
		return raster.Clone(src)
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()
	if err := fn(in, &out); err != nil {
		return raster.Clone(src)
	}

	img, err := imageio.FromMat(out)
	if err != nil {
		return raster.Clone(src)
	}
	return img
}

// planeOp splits a BGRA Mat into planes, lets fn replace them and merges
// the result into out.
func planeOp(in gocv.Mat, out *gocv.Mat, fn func(planes []gocv.Mat) ([]gocv.Mat, error)) error {
	planes := gocv.Split(in)
	defer closeMats(planes)

	merged, err := fn(planes)
	if err != nil {
		return err
	}
	gocv.Merge(merged, out)
	return nil
}

// colourPlanes applies fn to the blue, green and red planes in turn and
// keeps alpha.
func colourPlanes(src *image.NRGBA, fn func(plane gocv.Mat, dst *gocv.Mat)) *image.NRGBA {
	return matOp(src, func(in gocv.Mat, out *gocv.Mat) error {
		return planeOp(in, out, func(planes []gocv.Mat) ([]gocv.Mat, error) {
			for i := 0; i < 3; i++ {
				dst := gocv.NewMat()
				fn(planes[i], &dst)
				planes[i].Close()
				planes[i] = dst
			}
			return planes, nil
		})
	})
}

func closeMats(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
