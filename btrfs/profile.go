package btrfs

import (
	"fmt"
	"strings"
)

// DataProfile is a block group profile accepted by the --data and
// --metadata options of mkfs.btrfs.
type DataProfile string

const (
	Raid0   DataProfile = "raid0"
	Raid1   DataProfile = "raid1"
	Raid1C3 DataProfile = "raid1c3"
	Raid1C4 DataProfile = "raid1c4"
	Raid5   DataProfile = "raid5"
	Raid6   DataProfile = "raid6"
	Raid10  DataProfile = "raid10"
	Single  DataProfile = "single"
	Dup     DataProfile = "dup"
)

var dataProfiles = []DataProfile{Raid0, Raid1, Raid1C3, Raid1C4, Raid5, Raid6, Raid10, Single, Dup}

func (p DataProfile) String() string {
	return string(p)
}

func (p DataProfile) valid() bool {
	for _, known := range dataProfiles {
		if p == known {
			return true
		}
	}
	return false
}

// DataProfiles returns all block group profiles recognized by mkfs.btrfs.
func DataProfiles() []DataProfile {
	out := make([]DataProfile, len(dataProfiles))
	copy(out, dataProfiles)
	return out
}

// ParseDataProfile converts a profile name, as spelled on the mkfs.btrfs
// command line, into a DataProfile.
func ParseDataProfile(s string) (DataProfile, error) {
	p := DataProfile(strings.ToLower(s))
	if !p.valid() {
		return "", fmt.Errorf("unknown block group profile %q", s)
	}
	return p, nil
}

// ChecksumAlgorithm is a block checksum algorithm accepted by the
// --checksum option of mkfs.btrfs.
type ChecksumAlgorithm string

const (
	Crc32c ChecksumAlgorithm = "crc32c"
	XxHash ChecksumAlgorithm = "xxhash"
	Sha256 ChecksumAlgorithm = "sha256"
	Blake2 ChecksumAlgorithm = "blake2"
)

var checksumAlgorithms = []ChecksumAlgorithm{Crc32c, XxHash, Sha256, Blake2}

func (a ChecksumAlgorithm) String() string {
	return string(a)
}

func (a ChecksumAlgorithm) valid() bool {
	for _, known := range checksumAlgorithms {
		if a == known {
			return true
		}
	}
	return false
}

// ChecksumAlgorithms returns all checksum algorithms recognized by mkfs.btrfs.
func ChecksumAlgorithms() []ChecksumAlgorithm {
	out := make([]ChecksumAlgorithm, len(checksumAlgorithms))
	copy(out, checksumAlgorithms)
	return out
}

// ParseChecksumAlgorithm converts an algorithm name, as spelled on the
// mkfs.btrfs command line, into a ChecksumAlgorithm.
func ParseChecksumAlgorithm(s string) (ChecksumAlgorithm, error) {
	a := ChecksumAlgorithm(strings.ToLower(s))
	if !a.valid() {
		return "", fmt.Errorf("unknown checksum algorithm %q", s)
	}
	return a, nil
}

// KnownRuntimeFeatures lists the runtime features recognized by
// mkfs.btrfs. A feature may be disabled by prefixing it with '^'.
var KnownRuntimeFeatures = []string{"quota", "free-space-tree"}
