package imageio

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"
)

// Export writes a flattened copy of img. A .pdf path produces a single
// page document sized to the image in points; any other supported
// extension is written as a plain image file.
func (il *ImageLoader) Export(img *image.NRGBA, path string) error {
	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		return il.ExportPDF(img, path)
	}
	return il.Write(img, path)
}

// ExportPDF embeds img as a lossless PNG on one page of a new PDF.
func (il *ImageLoader) ExportPDF(img *image.NRGBA, path string) error {
	data, err := EncodePNG(img)
	if err != nil {
		return err
	}

	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("raster", opts, bytes.NewReader(data))
	pdf.ImageOptions("raster", 0, 0, w, h, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}

	il.logger.WithFields(logrus.Fields{
		"path":   path,
		"width":  b.Dx(),
		"height": b.Dy(),
	}).Info("PDF exported")
	return nil
}
