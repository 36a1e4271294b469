package secondary

// Reporter receives the human-visible status events of a run. The core
// emits events; rendering (colors, destination) is an adapter concern.
// A failure's last successful checkpoint must be evident from the
// emitted sequence alone.
type Reporter interface {
	// Step announces a major step before it runs.
	Step(format string, args ...any)

	// Success reports a completed step.
	Success(format string, args ...any)

	// Warn reports a non-fatal anomaly; execution continues with a
	// deterministic fallback.
	Warn(format string, args ...any)

	// Info reports neutral detail, e.g. hints after a failure.
	Info(format string, args ...any)
}
