package observability

import "log/slog"

// AppMode names the process shape the observability stack is running
// inside: a one-shot CLI invocation, a long-lived HTTP server, or an
// MCP-style tool host. It is surfaced as the "app.mode" resource attribute
// and injected into every log line.
type AppMode string

// The set of recognized application modes.
const (
	ModeCLI    AppMode = "cli"
	ModeServer AppMode = "server"
	ModeMCP    AppMode = "mcp"
)

// defaultShutdownTimeoutSec bounds how long Shutdown waits for exporters to
// flush pending telemetry before giving up.
const defaultShutdownTimeoutSec = 5

// Config controls how [Init] wires tracing, metrics, and logging. The zero
// value is not ready to use; start from [DefaultConfig].
type Config struct {
	// ServiceName identifies this process in exported telemetry
	// (OTel resource service.name, and the "service" log attribute).
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the OTLP/gRPC collector address. Empty selects
	// no-op tracer/meter providers with zero export overhead, which is
	// the default for a one-shot transform run with no collector handy.
	OTLPEndpoint string
	OTLPInsecure bool
	OTLPHeaders  map[string]string

	// SampleRatio is used when OTEL_TRACES_SAMPLER is unset; DebugTrace
	// forces always-on sampling and routes span-processor warnings to
	// stderr regardless of either setting.
	SampleRatio float64
	DebugTrace  bool
	TraceVerbose bool

	ShutdownTimeoutSec int

	LogLevel slog.Level
	LogJSON  bool
}

// DefaultConfig returns a Config suitable for a bare CLI invocation: no
// OTLP endpoint (no-op providers), info-level text logging, parent-based
// always-on sampling.
func DefaultConfig() Config {
	return Config{
		ServiceName:        "citetrail",
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
