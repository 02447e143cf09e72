package core

import (
	"time"

	"github.com/sirupsen/logrus"

	"non-destructive-image-editor/internal/algorithms"
	"non-destructive-image-editor/internal/raster"
)

// Apply runs op on the current raster as a new user action. The
// operation is appended to the applied log, and to the macro when
// recording, and the redo log is discarded.
func (e *EditableImage) Apply(op algorithms.Operation) error {
	if !e.HasImage() {
		return ErrNoImage
	}
	if err := algorithms.Validate(op); err != nil {
		return err
	}

	e.apply(op, "apply")
	if len(e.redoOps) > 0 {
		e.logger.WithField("discarded", len(e.redoOps)).Debug("HISTORY: Redo log cleared")
	}
	e.redoOps = nil
	return nil
}

// apply is the shared path of Apply and Redo. It leaves the redo log
// alone.
func (e *EditableImage) apply(op algorithms.Operation, action string) {
	start := time.Now()
	e.current = op.Apply(e.current)
	e.ops = append(e.ops, op)
	if e.recording {
		e.macroOps = append(e.macroOps, op)
	}

	duration := time.Since(start)
	e.logger.WithFields(logrus.Fields{
		"action":      action,
		"operation":   algorithms.Name(op),
		"depth":       len(e.ops),
		"recording":   e.recording,
		"duration_ms": duration.Milliseconds(),
	}).Info("HISTORY: Operation applied")
	e.debug.LogOperation(action, true, duration, logrus.Fields{"operation": algorithms.Name(op)}, nil)
}

// Undo moves the most recent operation to the redo log and rebuilds the
// current raster from the original.
func (e *EditableImage) Undo() error {
	if len(e.ops) == 0 {
		e.debug.LogOperation("undo", false, 0, nil, ErrEmptyHistory)
		return ErrEmptyHistory
	}

	last := len(e.ops) - 1
	op := e.ops[last]
	e.ops[last] = nil
	e.ops = e.ops[:last]
	e.redoOps = append(e.redoOps, op)

	e.logger.WithFields(logrus.Fields{
		"operation": algorithms.Name(op),
		"depth":     len(e.ops),
		"redo":      len(e.redoOps),
	}).Info("HISTORY: Undo")

	e.refresh()
	return nil
}

// Redo re-applies the most recently undone operation. Further undone
// operations stay available for chained redos.
func (e *EditableImage) Redo() error {
	if len(e.redoOps) == 0 {
		e.debug.LogOperation("redo", false, 0, nil, ErrEmptyRedo)
		return ErrEmptyRedo
	}

	last := len(e.redoOps) - 1
	op := e.redoOps[last]
	e.redoOps[last] = nil
	e.redoOps = e.redoOps[:last]

	e.apply(op, "redo")
	return nil
}

// Repeat applies the most recent operation again as a new user action.
func (e *EditableImage) Repeat() error {
	if len(e.ops) == 0 {
		e.debug.LogOperation("repeat", false, 0, nil, ErrEmptyHistory)
		return ErrEmptyHistory
	}
	return e.Apply(e.ops[len(e.ops)-1])
}

// refresh recomputes the current raster by folding the applied log over
// a copy of the original.
func (e *EditableImage) refresh() {
	if e.original == nil {
		e.current = nil
		return
	}

	start := time.Now()
	current := raster.Clone(e.original)
	for i, op := range e.ops {
		current = op.Apply(current)
		e.logger.WithFields(logrus.Fields{
			"step":      i + 1,
			"operation": algorithms.Name(op),
		}).Debug("HISTORY: Replayed operation")
	}
	e.current = current

	duration := time.Since(start)
	e.logger.WithFields(logrus.Fields{
		"operations":  len(e.ops),
		"duration_ms": duration.Milliseconds(),
	}).Debug("HISTORY: Current image rebuilt")
	e.debug.LogOperation("replay", true, duration, logrus.Fields{"operations": len(e.ops)}, nil)
}
