package btrfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataProfile(t *testing.T) {
	for _, p := range DataProfiles() {
		parsed, err := ParseDataProfile(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	parsed, err := ParseDataProfile("RAID1C3")
	require.NoError(t, err)
	assert.Equal(t, Raid1C3, parsed)

	_, err = ParseDataProfile("raid7")
	require.Error(t, err)
}

func TestParseChecksumAlgorithm(t *testing.T) {
	for _, a := range ChecksumAlgorithms() {
		parsed, err := ParseChecksumAlgorithm(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	parsed, err := ParseChecksumAlgorithm("SHA256")
	require.NoError(t, err)
	assert.Equal(t, Sha256, parsed)

	_, err = ParseChecksumAlgorithm("md5")
	require.Error(t, err)
}
