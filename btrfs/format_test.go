package btrfs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	out  *Output
	err  error
	name string
	runs [][]string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	r.name = name
	r.runs = append(r.runs, append([]string(nil), args...))
	if r.err != nil {
		return nil, r.err
	}
	return r.out, nil
}

func TestFormatAppendsTarget(t *testing.T) {
	opts, err := NewBuilder().Label("vol").Mixed().Build()
	require.NoError(t, err)

	runner := &fakeRunner{out: &Output{}}
	f, err := NewFormatter(opts, WithRunner(runner))
	require.NoError(t, err)

	_, err = f.Format(context.Background(), "/dev/sdxY")
	require.NoError(t, err)

	require.Len(t, runner.runs, 1)
	assert.Equal(t, DefaultCommand, runner.name)
	assert.Equal(t, []string{"--label", "vol", "--mixed", "/dev/sdxY"}, runner.runs[0])
}

func TestFormatIsRepeatable(t *testing.T) {
	opts, err := NewBuilder().Force().Label("vol").Build()
	require.NoError(t, err)

	runner := &fakeRunner{out: &Output{}}
	f, err := NewFormatter(opts, WithRunner(runner))
	require.NoError(t, err)

	_, err = f.Format(context.Background(), "/dev/sdxY")
	require.NoError(t, err)
	_, err = f.Format(context.Background(), "/dev/sdxY")
	require.NoError(t, err)

	require.Len(t, runner.runs, 2)
	assert.Equal(t, runner.runs[0], runner.runs[1])
}

func TestFormatNonZeroExitIsData(t *testing.T) {
	opts, err := NewBuilder().Build()
	require.NoError(t, err)

	runner := &fakeRunner{out: &Output{ExitCode: 1, Stderr: []byte("not a block device")}}
	f, err := NewFormatter(opts, WithRunner(runner))
	require.NoError(t, err)

	out, err := f.Format(context.Background(), "/dev/null")
	require.NoError(t, err)
	assert.False(t, out.Success())
	assert.Equal(t, 1, out.ExitCode)
	assert.Equal(t, "not a block device", string(out.Stderr))
}

func TestFormatSpawnError(t *testing.T) {
	opts, err := NewBuilder().Build()
	require.NoError(t, err)

	f, err := NewFormatter(opts, WithCommand("definitely-not-a-real-mkfs-binary"))
	require.NoError(t, err)

	out, err := f.Format(context.Background(), "/dev/null")
	assert.Nil(t, out)

	var serr *SpawnError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "definitely-not-a-real-mkfs-binary", serr.Command)
	assert.Error(t, serr.Unwrap())
}

func TestFormatTargetPassesThrough(t *testing.T) {
	opts, err := NewBuilder().Build()
	require.NoError(t, err)

	runner := &fakeRunner{out: &Output{}}
	f, err := NewFormatter(opts, WithRunner(runner))
	require.NoError(t, err)

	// no validation of the target, mkfs.btrfs is the authority
	_, err = f.Format(context.Background(), "not even a path")
	require.NoError(t, err)
	assert.Equal(t, []string{"not even a path"}, runner.runs[0])
}

func TestNewFormatterRejectsBadOptions(t *testing.T) {
	opts, err := NewBuilder().Build()
	require.NoError(t, err)

	_, err = NewFormatter(opts, WithCommand(""))
	require.Error(t, err)

	_, err = NewFormatter(opts, WithRunner(nil))
	require.Error(t, err)

	_, err = NewFormatter(opts, WithLogger(nil))
	require.Error(t, err)
}

func TestFormatterAccessors(t *testing.T) {
	opts, err := NewBuilder().Force().Build()
	require.NoError(t, err)

	f, err := NewFormatter(opts, WithCommand("/usr/local/sbin/mkfs.btrfs"))
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/sbin/mkfs.btrfs", f.Command())
	assert.Equal(t, []string{"--force"}, f.Args())
}

func TestExecRunnerCapturesOutput(t *testing.T) {
	out, err := execRunner{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.Equal(t, "out\n", string(out.Stdout))
	assert.Equal(t, "err\n", string(out.Stderr))
}
