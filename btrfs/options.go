package btrfs

import (
	"fmt"
	"github.com/google/uuid"
	"os"
	"strconv"
	"strings"
)

// MaxLabelBytes is the hard limit mkfs.btrfs places on the encoded
// length of a filesystem label.
const MaxLabelBytes = 256

const maxNodesize = 16384

// Builder accumulates mkfs.btrfs options one fallible call at a time.
// Each setter validates its value immediately; the first failure is
// remembered and every later call becomes a no-op, so a chain
// short-circuits at the first bad option. Build surfaces the recorded
// error, applies the cross-option rules and freezes the accepted set
// into an immutable Options.
//
// Setters may be called in any order: the rendered argument vector is
// ordered by option identity, never by call order.
type Builder struct {
	byteCount       uint64
	hasByteCount    bool
	checksum        ChecksumAlgorithm
	data            DataProfile
	features        []string
	force           bool
	label           string
	hasLabel        bool
	metadata        DataProfile
	mixed           bool
	noDiscard       bool
	nodesize        uint64
	hasNodesize     bool
	rootdir         string
	runtimeFeatures []string
	sectorsize      uint64
	hasSectorsize   bool
	shrink          bool
	uuid            string

	err error
}

// NewBuilder starts an empty option set.
func NewBuilder() *Builder {
	return &Builder{}
}

// ByteCount sets --byte-count, the size of each device as seen by the
// filesystem.
func (b *Builder) ByteCount(n uint64) *Builder {
	if b.err != nil {
		return b
	}
	b.byteCount = n
	b.hasByteCount = true
	return b
}

// Checksum sets --checksum, the block checksum algorithm.
func (b *Builder) Checksum(algorithm ChecksumAlgorithm) *Builder {
	if b.err != nil {
		return b
	}
	if !algorithm.valid() {
		b.err = &ValidationError{Option: "checksum", Reason: fmt.Sprintf("unknown checksum algorithm %q", string(algorithm))}
		return b
	}
	b.checksum = algorithm
	return b
}

// Data sets --data, the profile for data block groups.
func (b *Builder) Data(profile DataProfile) *Builder {
	if b.err != nil {
		return b
	}
	if !profile.valid() {
		b.err = &ValidationError{Option: "data", Reason: fmt.Sprintf("unknown block group profile %q", string(profile))}
		return b
	}
	b.data = profile
	return b
}

// Features sets --features, the mkfs-time feature list. A feature may
// be disabled by prefixing it with '^'. mkfs.btrfs validates feature
// names itself, so only the shape of each entry is checked here.
func (b *Builder) Features(features ...string) *Builder {
	if b.err != nil {
		return b
	}
	for _, f := range features {
		if strings.TrimPrefix(f, "^") == "" {
			b.err = &ValidationError{Option: "features", Reason: "empty feature name"}
			return b
		}
	}
	b.features = append([]string(nil), features...)
	return b
}

// Force sets --force, formatting even if an existing filesystem is
// present on the target.
func (b *Builder) Force() *Builder {
	if b.err != nil {
		return b
	}
	b.force = true
	return b
}

// Label sets --label, the filesystem label. mkfs.btrfs limits labels to
// MaxLabelBytes encoded bytes and forbids embedded newlines.
func (b *Builder) Label(label string) *Builder {
	if b.err != nil {
		return b
	}
	if len(label) > MaxLabelBytes {
		b.err = &ValidationError{Option: "label", Reason: fmt.Sprintf("%d bytes long, the limit is %d", len(label), MaxLabelBytes)}
		return b
	}
	if strings.ContainsRune(label, '\n') {
		b.err = &ValidationError{Option: "label", Reason: "must not contain a newline"}
		return b
	}
	b.label = label
	b.hasLabel = true
	return b
}

// Metadata sets --metadata, the profile for metadata block groups.
func (b *Builder) Metadata(profile DataProfile) *Builder {
	if b.err != nil {
		return b
	}
	if !profile.valid() {
		b.err = &ValidationError{Option: "metadata", Reason: fmt.Sprintf("unknown block group profile %q", string(profile))}
		return b
	}
	b.metadata = profile
	return b
}

// Mixed sets --mixed, mixing data and metadata in the same block groups.
func (b *Builder) Mixed() *Builder {
	if b.err != nil {
		return b
	}
	b.mixed = true
	return b
}

// NoDiscard sets --nodiscard, skipping the implicit TRIM of the target.
func (b *Builder) NoDiscard() *Builder {
	if b.err != nil {
		return b
	}
	b.noDiscard = true
	return b
}

// Nodesize sets --nodesize, the b-tree node size. It must be a power of
// two no larger than 16384.
func (b *Builder) Nodesize(n uint64) *Builder {
	if b.err != nil {
		return b
	}
	if !powerOfTwo(n) || n > maxNodesize {
		b.err = &ValidationError{Option: "nodesize", Reason: fmt.Sprintf("%d is not a power of two no larger than %d", n, maxNodesize)}
		return b
	}
	b.nodesize = n
	b.hasNodesize = true
	return b
}

// Rootdir sets --rootdir, a directory whose contents are copied into
// the new filesystem. The directory must exist.
func (b *Builder) Rootdir(dir string) *Builder {
	if b.err != nil {
		return b
	}
	if strings.ContainsRune(dir, 0) {
		b.err = &ValidationError{Option: "rootdir", Reason: "path contains a NUL byte"}
		return b
	}
	if _, err := os.Stat(dir); err != nil {
		b.err = &ValidationError{Option: "rootdir", Reason: err.Error()}
		return b
	}
	b.rootdir = dir
	return b
}

// RuntimeFeatures sets --runtime-features. Each entry must be one of
// KnownRuntimeFeatures, optionally prefixed with '^' to disable it.
func (b *Builder) RuntimeFeatures(features ...string) *Builder {
	if b.err != nil {
		return b
	}
	for _, f := range features {
		if !knownRuntimeFeature(strings.TrimPrefix(f, "^")) {
			b.err = &ValidationError{Option: "runtime-features", Reason: fmt.Sprintf("unknown runtime feature %q, known features are %s", f, strings.Join(KnownRuntimeFeatures, ", "))}
			return b
		}
	}
	b.runtimeFeatures = append([]string(nil), features...)
	return b
}

// Sectorsize sets --sectorsize, the data block size. It must be a power
// of two. A size unsupported by the running kernel yields an unmountable
// filesystem, but that is for mkfs.btrfs to warn about.
func (b *Builder) Sectorsize(n uint64) *Builder {
	if b.err != nil {
		return b
	}
	if !powerOfTwo(n) {
		b.err = &ValidationError{Option: "sectorsize", Reason: fmt.Sprintf("%d is not a power of two", n)}
		return b
	}
	b.sectorsize = n
	b.hasSectorsize = true
	return b
}

// Shrink sets --shrink, shrinking a file target to the minimum required
// size. Only valid together with Rootdir, which Build enforces.
func (b *Builder) Shrink() *Builder {
	if b.err != nil {
		return b
	}
	b.shrink = true
	return b
}

// UUID sets --uuid, the filesystem UUID. The value must parse as an
// RFC 4122 UUID.
func (b *Builder) UUID(id string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := uuid.Parse(id); err != nil {
		b.err = &ValidationError{Option: "uuid", Reason: err.Error()}
		return b
	}
	b.uuid = id
	return b
}

// Err returns the first setter failure, if any. Build reports the same
// error; Err only exists for callers that want to bail out mid-chain.
func (b *Builder) Err() error {
	return b.err
}

// Build finalizes the accumulated options into an immutable Options.
// It fails with the first setter error if one was recorded, or with a
// ValidationError when the set violates one of the documented
// cross-option rules of mkfs.btrfs:
//
//   - --shrink requires --rootdir
//   - with --mixed, data and metadata profiles must match
//   - with --mixed, nodesize and sectorsize must be equal
//   - without --mixed, nodesize must not be smaller than sectorsize
func (b *Builder) Build() (Options, error) {
	if b.err != nil {
		return Options{}, b.err
	}
	if b.shrink && b.rootdir == "" {
		return Options{}, &ValidationError{Option: "shrink", Reason: "only valid together with rootdir"}
	}
	if b.mixed && b.data != "" && b.metadata != "" && b.data != b.metadata {
		return Options{}, &ValidationError{Option: "mixed", Reason: fmt.Sprintf("data profile %s and metadata profile %s must match when block groups are mixed", b.data, b.metadata)}
	}
	if b.hasNodesize && b.hasSectorsize {
		if b.mixed && b.nodesize != b.sectorsize {
			return Options{}, &ValidationError{Option: "nodesize", Reason: fmt.Sprintf("nodesize %d and sectorsize %d must be equal when block groups are mixed", b.nodesize, b.sectorsize)}
		}
		if !b.mixed && b.nodesize < b.sectorsize {
			return Options{}, &ValidationError{Option: "nodesize", Reason: fmt.Sprintf("nodesize %d must not be smaller than sectorsize %d", b.nodesize, b.sectorsize)}
		}
	}
	return Options{args: b.render()}, nil
}

// render produces the canonical argument vector. Options appear in
// declaration order, value options as a flag token followed by a value
// token, list options comma-joined.
func (b *Builder) render() []string {
	var args []string
	if b.hasByteCount {
		args = append(args, "--byte-count", strconv.FormatUint(b.byteCount, 10))
	}
	if b.checksum != "" {
		args = append(args, "--checksum", b.checksum.String())
	}
	if b.data != "" {
		args = append(args, "--data", b.data.String())
	}
	if len(b.features) > 0 {
		args = append(args, "--features", strings.Join(b.features, ","))
	}
	if b.force {
		args = append(args, "--force")
	}
	if b.hasLabel {
		args = append(args, "--label", b.label)
	}
	if b.metadata != "" {
		args = append(args, "--metadata", b.metadata.String())
	}
	if b.mixed {
		args = append(args, "--mixed")
	}
	if b.noDiscard {
		args = append(args, "--nodiscard")
	}
	if b.hasNodesize {
		args = append(args, "--nodesize", strconv.FormatUint(b.nodesize, 10))
	}
	if b.rootdir != "" {
		args = append(args, "--rootdir", b.rootdir)
	}
	if len(b.runtimeFeatures) > 0 {
		args = append(args, "--runtime-features", strings.Join(b.runtimeFeatures, ","))
	}
	if b.hasSectorsize {
		args = append(args, "--sectorsize", strconv.FormatUint(b.sectorsize, 10))
	}
	if b.shrink {
		args = append(args, "--shrink")
	}
	if b.uuid != "" {
		args = append(args, "--uuid", b.uuid)
	}
	return args
}

// Options is the immutable, validated option set produced by Build.
type Options struct {
	args []string
}

// Args returns the rendered argument vector, without the trailing
// target. The slice is a copy.
func (o Options) Args() []string {
	out := make([]string, len(o.args))
	copy(out, o.args)
	return out
}

func (o Options) String() string {
	return strings.Join(o.args, " ")
}

func powerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

func knownRuntimeFeature(name string) bool {
	for _, f := range KnownRuntimeFeatures {
		if name == f {
			return true
		}
	}
	return false
}
