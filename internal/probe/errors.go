package probe

import "errors"

// Sentinel error kinds per spec.md §7. main.go reports every error it gets
// back, these and any other, as UNKNOWN (exit 3).
var (
	// ErrLogMissing: the configured current log is absent and a prior
	// cursor exists.
	ErrLogMissing = errors.New("probe: configured log is missing")

	// ErrSidecarUnwritable: the cursor could not be persisted after a
	// scan. The scan's severity is discarded; disposition is UNKNOWN.
	ErrSidecarUnwritable = errors.New("probe: could not persist cursor")

	// ErrLockContention: another invocation already holds the sidecar
	// lock for this target.
	ErrLockContention = errors.New("probe: sidecar is locked by another invocation")
)
