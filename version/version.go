package version

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	buildVersion     = "unknown"
	buildGitRevision = "unknown"
	buildStatus      = "unknown"
	buildTag         = "unknown"
)

// BuildInfo describes the build of this module, filled in at link time
// through -ldflags.
type BuildInfo struct {
	Version       string `json:"version"`
	GitRevision   string `json:"revision"`
	GolangVersion string `json:"golang_version"`
	BuildStatus   string `json:"status"`
	GitTag        string `json:"tag"`
}

// ToolInfo describes the version of the wrapped mkfs.btrfs binary, as
// reported by the binary itself.
type ToolInfo struct {
	Command string `json:"command"`
	Version string `json:"version"`
}

// NewToolInfo parses the single output line of `mkfs.btrfs --version`,
// e.g. "mkfs.btrfs, part of btrfs-progs v6.3.2".
func NewToolInfo(command, versionOutput string) ToolInfo {
	v := strings.TrimSpace(versionOutput)
	if i := strings.LastIndexByte(v, ' '); i >= 0 {
		v = v[i+1:]
	}
	return ToolInfo{Command: command, Version: v}
}

// Info exports the build version information.
var Info BuildInfo

func (b BuildInfo) String() string {
	return fmt.Sprintf("%v-%v-%v",
		b.Version,
		b.GitRevision,
		b.BuildStatus)
}

func (b BuildInfo) LongForm() string {
	return fmt.Sprintf("%#v", b)
}

func init() {
	Info = BuildInfo{
		Version:       buildVersion,
		GitRevision:   buildGitRevision,
		GolangVersion: runtime.Version(),
		BuildStatus:   buildStatus,
		GitTag:        buildTag,
	}
}
