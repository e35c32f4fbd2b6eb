package btrfs

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelLength(t *testing.T) {
	_, err := NewBuilder().Label(strings.Repeat("x", MaxLabelBytes)).Build()
	require.NoError(t, err)

	_, err = NewBuilder().Label(strings.Repeat("x", MaxLabelBytes+1)).Build()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "label", verr.Option)
}

func TestLabelByteLengthNotRuneLength(t *testing.T) {
	// 86 four-byte runes encode to 344 bytes.
	label := strings.Repeat("\U0001F600", 86)
	_, err := NewBuilder().Label(label).Build()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "label", verr.Option)
}

func TestLabelNewline(t *testing.T) {
	_, err := NewBuilder().Label("two\nlines").Build()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "label", verr.Option)
}

func TestSetterShortCircuit(t *testing.T) {
	b := NewBuilder().
		Label(strings.Repeat("x", MaxLabelBytes+1)).
		Force().
		Mixed()
	require.Error(t, b.Err())

	_, err := b.Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	// the first failure wins, later calls are no-ops
	assert.Equal(t, "label", verr.Option)
}

func TestCallOrderDoesNotAffectArgs(t *testing.T) {
	first, err := NewBuilder().
		Label("vol").
		Force().
		Checksum(XxHash).
		Nodesize(4096).
		Build()
	require.NoError(t, err)

	second, err := NewBuilder().
		Nodesize(4096).
		Checksum(XxHash).
		Force().
		Label("vol").
		Build()
	require.NoError(t, err)

	assert.Equal(t, first.Args(), second.Args())
	assert.Equal(t,
		[]string{"--checksum", "xxhash", "--force", "--label", "vol", "--nodesize", "4096"},
		first.Args())
}

func TestRoundTrip(t *testing.T) {
	opts, err := NewBuilder().
		Label("My Awesome New Partition").
		Mixed().
		Rootdir("/").
		Build()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"--label", "My Awesome New Partition", "--mixed", "--rootdir", "/"},
		opts.Args())
}

func TestFullSurfaceRender(t *testing.T) {
	dir := t.TempDir()
	opts, err := NewBuilder().
		ByteCount(536870912).
		Checksum(Crc32c).
		Data(Dup).
		Features("mixed-bg").
		Force().
		Label("label").
		Metadata(Dup).
		Mixed().
		NoDiscard().
		Nodesize(4096).
		Rootdir(dir).
		RuntimeFeatures("quota").
		Sectorsize(4096).
		Shrink().
		UUID("73e1b7e2-a3a8-49c2-b258-06f01a889bba").
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"--byte-count", "536870912",
		"--checksum", "crc32c",
		"--data", "dup",
		"--features", "mixed-bg",
		"--force",
		"--label", "label",
		"--metadata", "dup",
		"--mixed",
		"--nodiscard",
		"--nodesize", "4096",
		"--rootdir", dir,
		"--runtime-features", "quota",
		"--sectorsize", "4096",
		"--shrink",
		"--uuid", "73e1b7e2-a3a8-49c2-b258-06f01a889bba",
	}, opts.Args())
}

func TestArgsReturnsCopy(t *testing.T) {
	opts, err := NewBuilder().Label("vol").Build()
	require.NoError(t, err)

	args := opts.Args()
	args[0] = "mutated"
	assert.Equal(t, []string{"--label", "vol"}, opts.Args())
}

func TestNodesizeValidation(t *testing.T) {
	_, err := NewBuilder().Nodesize(4096).Build()
	require.NoError(t, err)

	for _, n := range []uint64{0, 3, 12345, 32768} {
		_, err := NewBuilder().Nodesize(n).Build()
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "nodesize %d should be rejected", n)
		assert.Equal(t, "nodesize", verr.Option)
	}
}

func TestSectorsizeValidation(t *testing.T) {
	_, err := NewBuilder().Sectorsize(4096).Build()
	require.NoError(t, err)

	_, err = NewBuilder().Sectorsize(4095).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "sectorsize", verr.Option)
}

func TestRootdirMustExist(t *testing.T) {
	_, err := NewBuilder().Rootdir("/definitely/not/a/real/path").Build()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "rootdir", verr.Option)
}

func TestRootdirNulByte(t *testing.T) {
	_, err := NewBuilder().Rootdir("/tmp/\x00dir").Build()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "rootdir", verr.Option)
}

func TestUUIDValidation(t *testing.T) {
	_, err := NewBuilder().UUID("73e1b7e2-a3a8-49c2-b258-06f01a889bba").Build()
	require.NoError(t, err)

	_, err = NewBuilder().UUID("not-a-uuid").Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "uuid", verr.Option)
}

func TestRuntimeFeatureValidation(t *testing.T) {
	_, err := NewBuilder().RuntimeFeatures("quota", "^free-space-tree").Build()
	require.NoError(t, err)

	_, err = NewBuilder().RuntimeFeatures("bogus").Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "runtime-features", verr.Option)
}

func TestFeaturesRejectEmptyEntries(t *testing.T) {
	_, err := NewBuilder().Features("mixed-bg", "^").Build()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "features", verr.Option)
}

func TestShrinkRequiresRootdir(t *testing.T) {
	_, err := NewBuilder().Shrink().Build()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "shrink", verr.Option)

	_, err = NewBuilder().Shrink().Rootdir(t.TempDir()).Build()
	require.NoError(t, err)
}

func TestMixedProfileConflict(t *testing.T) {
	// conflict surfaces at Build time whichever call came first
	_, err := NewBuilder().Mixed().Data(Dup).Metadata(Single).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "mixed", verr.Option)

	_, err = NewBuilder().Metadata(Single).Data(Dup).Mixed().Build()
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "mixed", verr.Option)

	_, err = NewBuilder().Mixed().Data(Dup).Metadata(Dup).Build()
	require.NoError(t, err)
}

func TestMixedBlockSizeConflict(t *testing.T) {
	_, err := NewBuilder().Mixed().Nodesize(8192).Sectorsize(4096).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "nodesize", verr.Option)

	_, err = NewBuilder().Mixed().Nodesize(4096).Sectorsize(4096).Build()
	require.NoError(t, err)
}

func TestNodesizeSmallerThanSectorsize(t *testing.T) {
	_, err := NewBuilder().Nodesize(4096).Sectorsize(8192).Build()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "nodesize", verr.Option)

	_, err = NewBuilder().Nodesize(16384).Sectorsize(4096).Build()
	require.NoError(t, err)
}
