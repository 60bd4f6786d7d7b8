package cmdlog

import (
	"time"

	"tootaction/internal/logging"
	"tootaction/internal/metrics"
)

// Run executes f as command cmd and counts the outcome. Failures are only
// traced at debug level: the caller owns the single user-facing report.
func Run(cmd string, f func() error) error {
	metrics.IncCommandRun(cmd)
	start := time.Now()
	err := f()
	fields := map[string]any{"elapsed_ms": time.Since(start).Milliseconds()}
	if err != nil {
		metrics.IncCommandError(cmd)
		fields["error"] = err.Error()
		logging.Debug(cmd+"_failed", fields)
		return err
	}
	logging.Debug(cmd+"_ok", fields)
	return nil
}
