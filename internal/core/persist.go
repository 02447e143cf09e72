package core

import (
	"errors"
	"io/fs"

	"github.com/sirupsen/logrus"

	"non-destructive-image-editor/internal/algorithms"
	"non-destructive-image-editor/internal/oplog"
	"non-destructive-image-editor/internal/raster"
)

// Open loads the image at path as a new original. The applied log is
// restored from the <path>.ops sidecar when one exists and is usable;
// otherwise the session starts with an empty log. Only a failure to read
// the image itself is returned, and it leaves the session unchanged.
func (e *EditableImage) Open(path string) error {
	log := e.logger.WithField("path", path)
	log.Info("HISTORY: Opening image")

	img, err := e.codec.Read(path)
	if err == nil {
		err = ValidateImage(img)
	}
	if err != nil {
		log.WithError(err).Error("HISTORY: Failed to load image")
		return &LoadError{Path: path, Err: err}
	}

	w, h := raster.Size(img)
	e.original = raster.Clone(img)
	e.imagePath = path
	e.opsPath = oplog.OpsPath(path)
	e.metadata = ImageMetadata{Width: w, Height: h, Format: getFormatFromPath(path)}
	e.redoOps = nil
	e.ops = e.loadSidecar()

	e.refresh()

	log.WithFields(logrus.Fields{
		"width":      w,
		"height":     h,
		"operations": len(e.ops),
	}).Info("HISTORY: Image opened")
	return nil
}

// loadSidecar reads the applied log stored next to the image. Any failure
// yields an empty log.
func (e *EditableImage) loadSidecar() []algorithms.Operation {
	log := e.logger.WithField("ops_path", e.opsPath)

	stored, err := oplog.ReadFile(e.opsPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("HISTORY: No operation log, starting fresh")
		return nil
	case err != nil:
		log.WithError(err).Warn("HISTORY: Ignoring unusable operation log")
		return nil
	}

	if len(stored.Skipped) > 0 {
		log.WithField("skipped", stored.Skipped).Warn("HISTORY: Skipped unknown operations in log")
	}
	return stored.Operations
}

// Save writes the original image and the applied log back to the file
// the session was opened from.
func (e *EditableImage) Save() error {
	if !e.HasImage() {
		return ErrNoImage
	}
	return e.SaveAs(e.imagePath)
}

// SaveAs writes the original image to path, in the format its extension
// names, and the applied log to <path>.ops. On success the session is
// backed by path.
func (e *EditableImage) SaveAs(path string) error {
	if !e.HasImage() {
		return ErrNoImage
	}
	log := e.logger.WithField("path", path)

	if err := e.codec.Write(e.original, path); err != nil {
		log.WithError(err).Error("HISTORY: Failed to save image")
		return &IOError{Op: "save image", Path: path, Err: err}
	}

	opsPath := oplog.OpsPath(path)
	if err := oplog.WriteFile(opsPath, e.ops); err != nil {
		log.WithError(err).Error("HISTORY: Failed to save operation log")
		return &IOError{Op: "save operation log", Path: opsPath, Err: err}
	}

	e.imagePath = path
	e.opsPath = opsPath
	e.metadata.Format = getFormatFromPath(path)

	log.WithField("operations", len(e.ops)).Info("HISTORY: Image saved")
	return nil
}

// Export writes the current raster to path without touching the history.
func (e *EditableImage) Export(path string) error {
	if !e.HasImage() {
		return ErrNoImage
	}
	log := e.logger.WithField("path", path)

	var err error
	if exporter, ok := e.codec.(Exporter); ok {
		err = exporter.Export(e.current, path)
	} else {
		err = e.codec.Write(e.current, path)
	}
	if err != nil {
		log.WithError(err).Error("HISTORY: Export failed")
		return &IOError{Op: "export", Path: path, Err: err}
	}

	log.Info("HISTORY: Image exported")
	return nil
}
