package btrfs

import "fmt"

// ValidationError reports an option value that violates one of the
// documented mkfs.btrfs constraints, or a conflicting combination of
// options detected at Build time. The caller can correct the option and
// rebuild.
type ValidationError struct {
	// Option is the offending flag name without the leading dashes,
	// e.g. "label".
	Option string
	// Reason describes the violated constraint.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Option, e.Reason)
}

// SpawnError reports that the wrapped mkfs.btrfs process could not be
// started at all. The subprocess exiting non-zero is not a SpawnError,
// that outcome is reported through Output.ExitCode.
type SpawnError struct {
	// Command is the binary the spawn was attempted with.
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("cannot spawn %s: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
