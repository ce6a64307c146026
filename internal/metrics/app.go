package metrics

import (
	"time"

	"github.com/clibridge/clibridge/internal/observability"
)

// Application metric names following Prometheus conventions.
const (
	ConversionsTotal  = "bridge_conversions_total"
	CLIRunsTotal      = "cli_runs_total"
	CLIRunDuration    = "cli_run_duration_ms"
	StreamingRequests = "chat_streaming_requests_total"
)

// RecordConversion records one request conversion, labeled by the resolved
// model alias.
func RecordConversion(alias string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			ConversionsTotal,
			1,
			map[string]string{
				"model": alias,
			},
		)
	}
}

// RecordCLIRun records one invocation of the underlying CLI tool.
func RecordCLIRun(alias string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			CLIRunsTotal,
			1,
			map[string]string{
				"model":  alias,
				"status": status,
			},
		)

		_ = observability.TelemetrySystem.Histogram(
			CLIRunDuration,
			duration,
			map[string]string{
				"model": alias,
			},
		)
	}
}

// RecordStreamingRequest counts a chat completion served over SSE.
func RecordStreamingRequest() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			StreamingRequests,
			1,
			nil,
		)
	}
}
