package core

import (
	"github.com/sirupsen/logrus"

	"non-destructive-image-editor/internal/oplog"
)

// StartRecording appends every later applied or redone operation to the
// macro. An existing macro is extended, not replaced.
func (e *EditableImage) StartRecording() {
	e.recording = true
	e.logger.WithField("macro_length", len(e.macroOps)).Info("MACRO: Recording started")
}

// StopRecording stops appending to the macro and keeps what was recorded.
func (e *EditableImage) StopRecording() {
	e.recording = false
	e.logger.WithField("macro_length", len(e.macroOps)).Info("MACRO: Recording stopped")
}

// Recording reports whether operations are being recorded.
func (e *EditableImage) Recording() bool { return e.recording }

// ClearMacro discards the recorded macro.
func (e *EditableImage) ClearMacro() {
	e.macroOps = nil
	e.logger.Debug("MACRO: Cleared")
}

// SaveMacro writes the recorded macro to path, adding the .macro
// extension when it is missing.
func (e *EditableImage) SaveMacro(path string) error {
	path = oplog.MacroPath(path)
	if err := oplog.WriteFile(path, e.macroOps); err != nil {
		e.logger.WithError(err).WithField("path", path).Error("MACRO: Failed to save")
		return &IOError{Op: "save macro", Path: path, Err: err}
	}

	e.logger.WithFields(logrus.Fields{
		"path":       path,
		"operations": len(e.macroOps),
	}).Info("MACRO: Saved")
	return nil
}

// OpenMacro loads a macro and replays it on a fresh copy of the original.
// The macro becomes the applied log, so its steps can be undone one at a
// time, and the redo log is cleared.
//
// If the file cannot be used the macro is emptied, the redo log cleared
// and the current image rebuilt from the unchanged applied log; the
// returned *LogCorruptError describes what went wrong.
func (e *EditableImage) OpenMacro(path string) error {
	if !e.HasImage() {
		return ErrNoImage
	}
	path = oplog.MacroPath(path)
	log := e.logger.WithField("path", path)

	stored, err := oplog.ReadFile(path)
	if err != nil {
		log.WithError(err).Warn("MACRO: Unusable macro file, macro cleared")
		e.macroOps = nil
		e.redoOps = nil
		e.refresh()
		return &LogCorruptError{Path: path, Err: err}
	}
	if len(stored.Skipped) > 0 {
		log.WithField("skipped", stored.Skipped).Warn("MACRO: Skipped unknown operations")
	}

	e.macroOps = stored.Operations
	e.redoOps = nil
	e.ops = copyOps(e.macroOps)
	e.refresh()

	log.WithField("operations", len(e.macroOps)).Info("MACRO: Opened and applied")
	return nil
}
