// Image file reading and writing backed by OpenCV
package imageio

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// ImageLoader reads and writes rasters, choosing the file format by
// extension.
type ImageLoader struct {
	logger logrus.FieldLogger
}

// NewImageLoader creates a loader. A nil logger discards output.
func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &ImageLoader{
		logger: logger,
	}
}

var supportedFormats = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// formats that cannot carry an alpha channel
var opaqueFormats = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// IsSupported reports whether path has an extension the loader can read and write.
func IsSupported(path string) bool {
	return supportedFormats[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions lists the accepted file extensions.
func SupportedExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}
}

// Read decodes the image at path into a raster. Alpha is preserved when
// the file has it.
func (il *ImageLoader) Read(path string) (*image.NRGBA, error) {
	il.logger.WithField("path", path).Debug("Loading image")

	if !IsSupported(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to decode image: %s", path)
	}

	img, err := FromMat(mat)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}

	il.logger.WithFields(logrus.Fields{
		"path":     path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image loaded successfully")

	return img, nil
}

// Write encodes img to path. Formats without alpha drop the channel.
func (il *ImageLoader) Write(img *image.NRGBA, path string) error {
	il.logger.WithField("path", path).Debug("Saving image")

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedFormats[ext] {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	mat, err := ToMat(img)
	if err != nil {
		return err
	}
	defer mat.Close()

	out := mat
	if opaqueFormats[ext] {
		bgr := gocv.NewMat()
		defer bgr.Close()
		if err := gocv.CvtColor(mat, &bgr, gocv.ColorBGRAToBGR); err != nil {
			return fmt.Errorf("failed to drop alpha for %s: %w", path, err)
		}
		out = bgr
	}

	if ok := gocv.IMWrite(path, out); !ok {
		return fmt.Errorf("failed to save image: %s", path)
	}

	il.logger.WithFields(logrus.Fields{
		"path":     path,
		"width":    out.Cols(),
		"height":   out.Rows(),
		"channels": out.Channels(),
	}).Info("Image saved successfully")

	return nil
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img *image.NRGBA) ([]byte, error) {
	mat, err := ToMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	return data, nil
}
