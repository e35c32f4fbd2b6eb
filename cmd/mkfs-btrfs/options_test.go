package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseFlags(t *testing.T, args ...string) *formatOptions {
	t.Helper()
	opts := newFormatOptions()
	fs := pflag.NewFlagSet("mkfs-btrfs", pflag.ContinueOnError)
	opts.Flags(fs)
	require.NoError(t, fs.Parse(args))
	return opts
}

func TestFlagsMapToBuilder(t *testing.T) {
	opts := parseFlags(t, "--label", "vol", "--mixed", "--force", "--nodesize", "4096", "--sectorsize", "4096")
	require.Empty(t, opts.Validate())

	built, err := opts.builder().Build()
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"--force", "--label", "vol", "--mixed", "--nodesize", "4096", "--sectorsize", "4096"},
		built.Args())
}

func TestUnsetFlagsRenderNothing(t *testing.T) {
	opts := parseFlags(t)
	require.Empty(t, opts.Validate())

	built, err := opts.builder().Build()
	require.NoError(t, err)
	assert.Empty(t, built.Args())
}

func TestValidateRejectsUnknownNames(t *testing.T) {
	opts := parseFlags(t, "--checksum", "md5")
	assert.NotEmpty(t, opts.Validate())

	opts = parseFlags(t, "--data", "raid7")
	assert.NotEmpty(t, opts.Validate())

	opts = parseFlags(t, "--mkfs-path", "")
	assert.NotEmpty(t, opts.Validate())
}

func TestShortFlags(t *testing.T) {
	opts := parseFlags(t, "-f", "-L", "vol", "-d", "single", "-m", "single")
	require.Empty(t, opts.Validate())

	built, err := opts.builder().Build()
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"--data", "single", "--force", "--label", "vol", "--metadata", "single"},
		built.Args())
}
