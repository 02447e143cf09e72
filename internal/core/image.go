// Edit session holding the source image, the derived image and the edit logs
package core

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"non-destructive-image-editor/internal/algorithms"
	"non-destructive-image-editor/internal/raster"
)

// Codec reads and writes rasters, choosing the file format from the path.
type Codec interface {
	Read(path string) (*image.NRGBA, error)
	Write(img *image.NRGBA, path string) error
}

// Exporter is implemented by codecs that can write formats beyond the
// ones they read, such as PDF.
type Exporter interface {
	Export(img *image.NRGBA, path string) error
}

// ImageMetadata describes the loaded source image.
type ImageMetadata struct {
	Width  int
	Height int
	Format string
}

// EditableImage is one editing session. The original raster is set once
// by Open and never modified; the current raster is always the original
// with the applied log folded over it. An EditableImage belongs to a
// single goroutine.
type EditableImage struct {
	codec  Codec
	logger logrus.FieldLogger
	debug  *HistoryDebugger

	original *image.NRGBA
	current  *image.NRGBA

	ops      []algorithms.Operation
	redoOps  []algorithms.Operation
	macroOps []algorithms.Operation

	recording bool

	imagePath string
	opsPath   string
	metadata  ImageMetadata
}

// NewEditableImage creates an empty session. A nil logger discards output.
func NewEditableImage(codec Codec, logger logrus.FieldLogger) *EditableImage {
	if logger == nil {
		logger = discardLogger()
	}
	return &EditableImage{
		codec:  codec,
		logger: logger.WithField("component", "history"),
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetDebugger attaches a debugger that records timings of history
// operations. Pass nil to detach.
func (e *EditableImage) SetDebugger(d *HistoryDebugger) {
	e.debug = d
}

// HasImage reports whether an image has been opened.
func (e *EditableImage) HasImage() bool {
	return e.original != nil
}

// Current returns a copy of the current raster, or nil without an image.
func (e *EditableImage) Current() *image.NRGBA {
	if e.current == nil {
		return nil
	}
	return raster.Clone(e.current)
}

// Original returns a copy of the source raster, or nil without an image.
func (e *EditableImage) Original() *image.NRGBA {
	if e.original == nil {
		return nil
	}
	return raster.Clone(e.original)
}

// Ops returns a copy of the applied log, oldest first.
func (e *EditableImage) Ops() []algorithms.Operation { return copyOps(e.ops) }

// RedoOps returns a copy of the redo log; the next operation to redo is last.
func (e *EditableImage) RedoOps() []algorithms.Operation { return copyOps(e.redoOps) }

// MacroOps returns a copy of the recorded macro.
func (e *EditableImage) MacroOps() []algorithms.Operation { return copyOps(e.macroOps) }

func (e *EditableImage) CanUndo() bool { return len(e.ops) > 0 }
func (e *EditableImage) CanRedo() bool { return len(e.redoOps) > 0 }

// ImagePath returns the file backing the session.
func (e *EditableImage) ImagePath() string { return e.imagePath }

// OpsPath returns the sidecar log path of the backing file.
func (e *EditableImage) OpsPath() string { return e.opsPath }

// Metadata describes the source image.
func (e *EditableImage) Metadata() ImageMetadata { return e.metadata }

func copyOps(ops []algorithms.Operation) []algorithms.Operation {
	if len(ops) == 0 {
		return nil
	}
	out := make([]algorithms.Operation, len(ops))
	copy(out, ops)
	return out
}

// getFormatFromPath extracts the lower-case extension without the dot.
func getFormatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

// maxDimension bounds the side of an image accepted by Open.
const maxDimension = 16384

// ValidateImage checks a decoded raster for basic requirements.
func ValidateImage(img *image.NRGBA) error {
	if img == nil {
		return fmt.Errorf("image is empty")
	}
	w, h := raster.Size(img)
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid dimensions: %dx%d", w, h)
	}
	if w > maxDimension || h > maxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", w, h, maxDimension)
	}
	return nil
}
