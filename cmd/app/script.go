package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"non-destructive-image-editor/internal/algorithms"
	"non-destructive-image-editor/internal/core"
	"non-destructive-image-editor/internal/metrics"
	"non-destructive-image-editor/internal/oplog"
	"non-destructive-image-editor/internal/raster"
)

// Step is one editing action taken from the command line.
type Step struct {
	Action string // "op", "undo", "redo", "repeat", "record", "stop", "macro-save", "macro-open", "lucky"
	Arg    string
}

// Script collects steps from flags in the order they appear.
type Script struct {
	steps []Step
}

// Bind registers the editing flags on fs.
func (s *Script) Bind(fs *flag.FlagSet) {
	arg := func(action string) func(string) error {
		return func(v string) error {
			s.steps = append(s.steps, Step{Action: action, Arg: v})
			return nil
		}
	}
	bare := func(action string) func(string) error {
		return func(string) error {
			s.steps = append(s.steps, Step{Action: action})
			return nil
		}
	}

	fs.Func("op", "Apply an operation, e.g. 'gaussian {radius: 2}' (repeatable)", arg("op"))
	fs.BoolFunc("undo", "Undo the last operation", bare("undo"))
	fs.BoolFunc("redo", "Redo the last undone operation", bare("redo"))
	fs.BoolFunc("repeat", "Apply the last operation again", bare("repeat"))
	fs.BoolFunc("record", "Start recording a macro", bare("record"))
	fs.BoolFunc("stop", "Stop recording the macro", bare("stop"))
	fs.Func("macro-save", "Save the recorded macro", arg("macro-save"))
	fs.Func("macro-open", "Apply a saved macro", arg("macro-open"))
	fs.Func("lucky", "Apply N random operations", func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("lucky: expected a non-negative count, got %q", v)
		}
		s.steps = append(s.steps, Step{Action: "lucky", Arg: v})
		return nil
	})
}

// Steps returns the collected steps.
func (s *Script) Steps() []Step {
	return s.steps
}

// Editor runs steps against a session.
type Editor struct {
	Session *core.EditableImage
	Logger  logrus.FieldLogger
	RNG     *rand.Rand
}

func newRNG(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Execute runs the steps in order. Undo or redo with nothing to undo or
// redo only logs a warning; any other failure stops the script.
func (ed *Editor) Execute(steps []Step) error {
	for i, step := range steps {
		entry := ed.Logger.WithFields(logrus.Fields{
			"step":   i + 1,
			"action": step.Action,
			"arg":    step.Arg,
		})
		err := ed.execute(step)
		switch {
		case errors.Is(err, core.ErrEmptyHistory), errors.Is(err, core.ErrEmptyRedo):
			entry.WithError(err).Warn("Step skipped")
		case err != nil:
			return fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		default:
			entry.Debug("Step done")
		}
	}
	return nil
}

func (ed *Editor) execute(step Step) error {
	s := ed.Session
	switch step.Action {
	case "op":
		op, err := oplog.ParseOperation(step.Arg)
		if err != nil {
			return err
		}
		return s.Apply(op)
	case "undo":
		return s.Undo()
	case "redo":
		return s.Redo()
	case "repeat":
		return s.Repeat()
	case "record":
		s.StartRecording()
		return nil
	case "stop":
		s.StopRecording()
		return nil
	case "macro-save":
		return s.SaveMacro(step.Arg)
	case "macro-open":
		return s.OpenMacro(step.Arg)
	case "lucky":
		n, err := strconv.Atoi(step.Arg)
		if err != nil {
			return err
		}
		return ed.lucky(n)
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

// lucky applies n random operations sized to the current image.
func (ed *Editor) lucky(n int) error {
	for i := 0; i < n; i++ {
		w, h := raster.Size(ed.Session.Current())
		op := algorithms.RandomOperation(ed.RNG, w, h)
		ed.Logger.WithField("operation", oplog.FormatOperation(op)).Info("Feeling lucky")
		if err := ed.Session.Apply(op); err != nil {
			return err
		}
	}
	return nil
}

// Report writes a quality comparison of the current image against the
// original.
func (ed *Editor) Report(w io.Writer) error {
	evaluator := metrics.NewEvaluator()
	report, err := evaluator.GenerateReport(ed.Session.Original(), ed.Session.Current())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Quality: %s (%.1f%%)\n", report.QualityLevel, report.OverallScore)
	info := evaluator.GetMetricInfo()
	for _, name := range evaluator.Names() {
		if v, ok := report.Metrics[name]; ok {
			fmt.Fprintf(w, "  %-16s %10.4f\n", info[name].Name, v)
		}
	}
	return nil
}

// PrintLog writes the applied log, one operation per line.
func (ed *Editor) PrintLog(w io.Writer) {
	for i, op := range ed.Session.Ops() {
		fmt.Fprintf(w, "%3d  %s\n", i+1, oplog.FormatOperation(op))
	}
}

// exportPath gives path the default extension when it has none.
func exportPath(path, format string) string {
	if filepath.Ext(path) != "" {
		return path
	}
	return path + "." + format
}
