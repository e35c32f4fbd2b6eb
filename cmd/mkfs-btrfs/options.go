package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"khetao.com/mkfs/btrfs"
)

// formatOptions is the flag surface of the root command, mirroring the
// option set of mkfs.btrfs one to one plus a couple of wrapper knobs.
type formatOptions struct {
	byteCount       uint64
	checksum        string
	data            string
	features        []string
	force           bool
	label           string
	metadata        string
	mixed           bool
	noDiscard       bool
	nodesize        uint64
	rootdir         string
	runtimeFeatures []string
	sectorsize      uint64
	shrink          bool
	uuid            string

	mkfsPath string
	dumpArgs bool

	fs *pflag.FlagSet
}

func newFormatOptions() *formatOptions {
	return &formatOptions{
		mkfsPath: btrfs.DefaultCommand,
	}
}

func (o *formatOptions) Flags(fs *pflag.FlagSet) {
	o.fs = fs

	fs.Uint64Var(&o.byteCount, "byte-count", 0, "Size of each device as seen by the filesystem")
	fs.StringVar(&o.checksum, "checksum", "", fmt.Sprintf("Checksum algorithm, one of [%s]", joinChecksums()))
	fs.StringVarP(&o.data, "data", "d", "", fmt.Sprintf("Profile for data block groups, one of [%s]", joinProfiles()))
	fs.StringSliceVar(&o.features, "features", nil, "Comma-separated mkfs-time features, prefix with '^' to disable")
	fs.BoolVarP(&o.force, "force", "f", false, "Format even if an existing filesystem is present")
	fs.StringVarP(&o.label, "label", "L", "", fmt.Sprintf("Filesystem label, at most %d bytes", btrfs.MaxLabelBytes))
	fs.StringVarP(&o.metadata, "metadata", "m", "", fmt.Sprintf("Profile for metadata block groups, one of [%s]", joinProfiles()))
	fs.BoolVar(&o.mixed, "mixed", false, "Mix data and metadata in the same block groups")
	fs.BoolVarP(&o.noDiscard, "nodiscard", "K", false, "Skip the implicit TRIM of the target")
	fs.Uint64Var(&o.nodesize, "nodesize", 0, "B-tree node size, a power of two no larger than 16384")
	fs.StringVarP(&o.rootdir, "rootdir", "r", "", "Directory whose contents are copied into the new filesystem")
	fs.StringSliceVar(&o.runtimeFeatures, "runtime-features", nil, fmt.Sprintf("Comma-separated runtime features, any of [%s]", strings.Join(btrfs.KnownRuntimeFeatures, ", ")))
	fs.Uint64Var(&o.sectorsize, "sectorsize", 0, "Data block size, a power of two")
	fs.BoolVar(&o.shrink, "shrink", false, "Shrink a file target to the minimum required size, needs --rootdir")
	fs.StringVarP(&o.uuid, "uuid", "U", "", "Filesystem UUID")

	fs.StringVar(&o.mkfsPath, "mkfs-path", o.mkfsPath, "Name or path of the mkfs.btrfs binary to invoke")
	fs.BoolVar(&o.dumpArgs, "dump-args", false, "Print the rendered mkfs.btrfs invocation instead of running it")
}

func (o *formatOptions) Validate() []error {
	var errs []error
	if o.checksum != "" {
		if _, err := btrfs.ParseChecksumAlgorithm(o.checksum); err != nil {
			errs = append(errs, err)
		}
	}
	if o.data != "" {
		if _, err := btrfs.ParseDataProfile(o.data); err != nil {
			errs = append(errs, err)
		}
	}
	if o.metadata != "" {
		if _, err := btrfs.ParseDataProfile(o.metadata); err != nil {
			errs = append(errs, err)
		}
	}
	if o.mkfsPath == "" {
		errs = append(errs, fmt.Errorf("--mkfs-path cannot be empty"))
	}
	return errs
}

func (o *formatOptions) String() string {
	return strings.Join(o.fs.Args(), " ")
}

// builder carries the parsed flags into the option builder. Validation
// beyond flag parsing is the builder's business.
func (o *formatOptions) builder() *btrfs.Builder {
	b := btrfs.NewBuilder()
	if o.fs.Changed("byte-count") {
		b.ByteCount(o.byteCount)
	}
	if o.checksum != "" {
		algorithm, _ := btrfs.ParseChecksumAlgorithm(o.checksum)
		b.Checksum(algorithm)
	}
	if o.data != "" {
		profile, _ := btrfs.ParseDataProfile(o.data)
		b.Data(profile)
	}
	if len(o.features) > 0 {
		b.Features(o.features...)
	}
	if o.force {
		b.Force()
	}
	if o.fs.Changed("label") {
		b.Label(o.label)
	}
	if o.metadata != "" {
		profile, _ := btrfs.ParseDataProfile(o.metadata)
		b.Metadata(profile)
	}
	if o.mixed {
		b.Mixed()
	}
	if o.noDiscard {
		b.NoDiscard()
	}
	if o.fs.Changed("nodesize") {
		b.Nodesize(o.nodesize)
	}
	if o.rootdir != "" {
		b.Rootdir(o.rootdir)
	}
	if len(o.runtimeFeatures) > 0 {
		b.RuntimeFeatures(o.runtimeFeatures...)
	}
	if o.fs.Changed("sectorsize") {
		b.Sectorsize(o.sectorsize)
	}
	if o.shrink {
		b.Shrink()
	}
	if o.uuid != "" {
		b.UUID(o.uuid)
	}
	return b
}

func joinProfiles() string {
	profiles := btrfs.DataProfiles()
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.String())
	}
	return strings.Join(names, ", ")
}

func joinChecksums() string {
	algorithms := btrfs.ChecksumAlgorithms()
	names := make([]string, 0, len(algorithms))
	for _, a := range algorithms {
		names = append(names, a.String())
	}
	return strings.Join(names, ", ")
}
