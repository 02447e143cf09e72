// History debugging and performance tracking
package core

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// HistoryDebugger records every history action with its duration. All
// methods are safe on a nil receiver, which records nothing.
type HistoryDebugger struct {
	logger  logrus.FieldLogger
	enabled bool

	operations []HistoryOperation

	// durations grouped by action
	applyTimes  []time.Duration
	replayTimes []time.Duration
}

// HistoryOperation is one recorded action.
type HistoryOperation struct {
	Timestamp time.Time
	Action    string // "apply", "redo", "undo", "repeat", "replay"
	Success   bool
	Duration  time.Duration
	Details   logrus.Fields
	Error     string
}

// NewHistoryDebugger creates an enabled debugger logging through logger.
func NewHistoryDebugger(logger logrus.FieldLogger) *HistoryDebugger {
	if logger == nil {
		logger = discardLogger()
	}
	return &HistoryDebugger{
		logger:  logger,
		enabled: true,
	}
}

// SetEnabled turns recording on or off.
func (hd *HistoryDebugger) SetEnabled(enabled bool) {
	if hd == nil {
		return
	}
	hd.enabled = enabled
}

// LogOperation records an action.
func (hd *HistoryDebugger) LogOperation(action string, success bool, duration time.Duration, details logrus.Fields, err error) {
	if hd == nil || !hd.enabled {
		return
	}

	errorStr := ""
	if err != nil {
		errorStr = err.Error()
	}

	hd.operations = append(hd.operations, HistoryOperation{
		Timestamp: time.Now(),
		Action:    action,
		Success:   success,
		Duration:  duration,
		Details:   details,
		Error:     errorStr,
	})

	switch action {
	case "apply", "redo":
		hd.applyTimes = append(hd.applyTimes, duration)
	case "replay":
		hd.replayTimes = append(hd.replayTimes, duration)
	}

	entry := hd.logger.WithFields(details).WithFields(logrus.Fields{
		"action":      action,
		"success":     success,
		"duration_ms": duration.Milliseconds(),
	})
	if success {
		entry.Debug("HISTORY Debug")
	} else {
		entry.WithField("error", errorStr).Warn("HISTORY Debug")
	}
}

// Operations returns the recorded actions, oldest first.
func (hd *HistoryDebugger) Operations() []HistoryOperation {
	if hd == nil {
		return nil
	}
	out := make([]HistoryOperation, len(hd.operations))
	copy(out, hd.operations)
	return out
}

// GetStats summarises the recorded actions.
func (hd *HistoryDebugger) GetStats() map[string]interface{} {
	if hd == nil || !hd.enabled {
		return nil
	}

	stats := map[string]interface{}{
		"total_operations": len(hd.operations),
	}

	successCount := 0
	for _, op := range hd.operations {
		if op.Success {
			successCount++
		}
	}
	if len(hd.operations) > 0 {
		stats["success_rate"] = float64(successCount) / float64(len(hd.operations))
	}
	if len(hd.applyTimes) > 0 {
		stats["avg_apply_time"] = averageDuration(hd.applyTimes)
	}
	if len(hd.replayTimes) > 0 {
		stats["avg_replay_time"] = averageDuration(hd.replayTimes)
	}
	return stats
}

// PrintStatus writes a human readable summary to w.
func (hd *HistoryDebugger) PrintStatus(w io.Writer) {
	if hd == nil || !hd.enabled {
		return
	}

	fmt.Fprintln(w, "\n=== HISTORY DEBUG STATUS ===")
	fmt.Fprintf(w, "Total Operations: %d\n", len(hd.operations))
	if len(hd.applyTimes) > 0 {
		fmt.Fprintf(w, "Average Apply Time: %v\n", averageDuration(hd.applyTimes))
	}
	if len(hd.replayTimes) > 0 {
		fmt.Fprintf(w, "Average Replay Time: %v\n", averageDuration(hd.replayTimes))
	}

	fmt.Fprintln(w, "\nRecent Operations:")
	recent := min(5, len(hd.operations))
	for _, op := range hd.operations[len(hd.operations)-recent:] {
		status := "SUCCESS"
		if !op.Success {
			status = "FAILED"
		}
		fmt.Fprintf(w, "  [%s] %s - %s (%v)\n",
			op.Timestamp.Format("15:04:05.000"),
			op.Action,
			status,
			op.Duration)
	}
}

func averageDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return total / time.Duration(len(durations))
}
