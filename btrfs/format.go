package btrfs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"khetao.com/mkfs/log"
)

// DefaultCommand is the binary Format invokes unless WithCommand
// overrides it. It is resolved through the regular executable search
// path at spawn time.
const DefaultCommand = "mkfs.btrfs"

var scope = log.RegisterScope("format", "mkfs.btrfs invocations.", 0)

// Formatter invokes mkfs.btrfs with a validated option set. It holds no
// mutable state, so one Formatter may format any number of targets,
// concurrently if desired; every call owns its own subprocess and
// captured buffers.
type Formatter struct {
	opts    Options
	command string
	runner  Runner
	scope   *log.Scope
}

// FormatterOption adjusts how a Formatter invokes the wrapped tool.
type FormatterOption func(*Formatter) error

// WithCommand overrides the mkfs.btrfs binary, either a bare name
// resolved through the executable search path or an explicit path.
func WithCommand(path string) FormatterOption {
	return func(f *Formatter) error {
		if path == "" {
			return errors.New("command path cannot be empty")
		}
		f.command = path
		return nil
	}
}

// WithRunner substitutes the subprocess runner. Intended for tests.
func WithRunner(r Runner) FormatterOption {
	return func(f *Formatter) error {
		if r == nil {
			return errors.New("runner cannot be nil")
		}
		f.runner = r
		return nil
	}
}

// WithLogger routes the formatter's debug output through the given
// scope instead of the package-level one.
func WithLogger(s *log.Scope) FormatterOption {
	return func(f *Formatter) error {
		if s == nil {
			return errors.New("logger scope cannot be nil")
		}
		f.scope = s
		return nil
	}
}

// NewFormatter wraps a validated option set.
func NewFormatter(opts Options, fopts ...FormatterOption) (*Formatter, error) {
	f := &Formatter{
		opts:    opts,
		command: DefaultCommand,
		runner:  execRunner{},
		scope:   scope,
	}
	for _, o := range fopts {
		if err := o(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Args returns the argument vector Format will pass to the wrapped
// tool, without the trailing target.
func (f *Formatter) Args() []string {
	return f.opts.Args()
}

// Command returns the binary Format will invoke.
func (f *Formatter) Command() string {
	return f.command
}

// Format invokes the wrapped tool against target, blocking until it
// exits. The target passes through untouched as the final positional
// argument; mkfs.btrfs is the authority on whether it is usable.
//
// The captured Output is returned whenever the process ran, regardless
// of its exit status. The only error condition is the process failing
// to start, reported as a *SpawnError. There are no retries and no
// internal timeout; cancel through ctx if one is needed.
func (f *Formatter) Format(ctx context.Context, target string) (*Output, error) {
	args := append(f.opts.Args(), target)
	f.scope.Debugf("exec %s %s", f.command, strings.Join(args, " "))
	out, err := f.runner.Run(ctx, f.command, args...)
	if err != nil {
		return nil, err
	}
	f.scope.Debugf("%s exited with status %d", f.command, out.ExitCode)
	return out, nil
}

// ToolVersion reports the version line printed by the wrapped tool,
// e.g. "mkfs.btrfs, part of btrfs-progs v6.3.2". An empty command means
// DefaultCommand.
func ToolVersion(ctx context.Context, command string) (string, error) {
	if command == "" {
		command = DefaultCommand
	}
	out, err := execRunner{}.Run(ctx, command, "--version")
	if err != nil {
		return "", err
	}
	if !out.Success() {
		return "", fmt.Errorf("%s --version exited with status %d: %s", command, out.ExitCode, strings.TrimSpace(string(out.Stderr)))
	}
	return strings.TrimSpace(string(out.Stdout)), nil
}
