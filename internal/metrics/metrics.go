package metrics

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tootaction_command_runs_total",
		Help: "Total command runs",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tootaction_command_errors_total",
		Help: "Total failed command runs",
	}, []string{"command"})
	Published = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tootaction_publish_total",
		Help: "Statuses published, by visibility",
	}, []string{"visibility"})
	PublishErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tootaction_publish_errors_total",
		Help: "Failed publish attempts, by error kind",
	}, []string{"kind"})
	Truncated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tootaction_messages_truncated_total",
		Help: "Messages shortened to fit the character limit",
	})
	PublishDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tootaction_publish_duration_seconds",
		Help:    "Time spent logging in and creating the status",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(CommandRuns, CommandErrors, Published, PublishErrors, Truncated, PublishDuration)
}

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }

// ObservePublishDuration records the time since start.
func ObservePublishDuration(start time.Time) {
	PublishDuration.Observe(time.Since(start).Seconds())
}

// WriteTextfile dumps the default registry to path in the node-exporter
// textfile format. An empty path falls back to TOOT_METRICS_FILE; if that is
// unset too nothing is written.
func WriteTextfile(path string) error {
	if path == "" {
		path = os.Getenv("TOOT_METRICS_FILE")
	}
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
