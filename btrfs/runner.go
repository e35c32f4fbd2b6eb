package btrfs

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Output is the captured result of a single subprocess invocation. A
// non-zero exit code is data, not an error: the wrapped tool's own
// success semantics belong to the caller.
type Output struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the subprocess exited with status zero.
func (o *Output) Success() bool {
	return o.ExitCode == 0
}

// Runner spawns a command and blocks until it exits, capturing stdout
// and stderr in full. The default Runner is backed by os/exec; tests
// substitute their own via WithRunner.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Output, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &SpawnError{Command: name, Err: err}
		}
		out.ExitCode = exitErr.ExitCode()
	}
	return out, nil
}
