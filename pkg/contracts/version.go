package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// APIVersion is the version of the HTTP API.
const APIVersion = "v1"

// Set with -ldflags "-X kscompare/pkg/contracts.Version=...". BuildTime and
// GitCommit fall back to the VCS stamp the go tool embeds in the binary.
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	Modified     bool   `json:"modified,omitempty"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	APIVersion   string `json:"api_version"`
}

var (
	vcsOnce     sync.Once
	vcsRevision string
	vcsTime     string
	vcsModified bool
)

func readVCS() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			vcsRevision = s.Value
		case "vcs.time":
			vcsTime = s.Value
		case "vcs.modified":
			vcsModified = s.Value == "true"
		}
	}
}

// GetVersionInfo returns the version of the running binary.
func GetVersionInfo() VersionInfo {
	vcsOnce.Do(readVCS)

	info := VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		Modified:     vcsModified,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		APIVersion:   APIVersion,
	}
	if info.GitCommit == "unknown" && vcsRevision != "" {
		info.GitCommit = vcsRevision
	}
	if info.BuildTime == "unknown" && vcsTime != "" {
		info.BuildTime = vcsTime
	}
	return info
}

// GetVersionString returns "kscompare v<version>".
func GetVersionString() string {
	return "kscompare v" + Version
}

// GetFullVersionString returns the version line printed by -version.
func GetFullVersionString() string {
	info := GetVersionInfo()
	commit := info.GitCommit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if info.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s)",
		GetVersionString(), commit, info.BuildTime, info.GoVersion, info.OS, info.Architecture)
}
