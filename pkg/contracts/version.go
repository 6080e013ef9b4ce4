package contracts

import (
	"runtime"
	"runtime/debug"
)

const (
	// Version is the current version of the application
	Version = "1.0.0"

	// DataFormatVersion is the version of the cleaned file layout
	DataFormatVersion = "v1"

	// APIVersion is the version of the JSON API and WebSocket events
	APIVersion = "v1"
)

// Overridable with -ldflags "-X moonlight/pkg/contracts.GitCommit=..."
var (
	BuildTime = ""
	GitCommit = ""
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	DataFormat   string `json:"data_format"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo returns version details. Commit and build time fall back to
// the VCS stamp embedded by the go command, then to "unknown".
func GetVersionInfo() VersionInfo {
	commit, built := GitCommit, BuildTime
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && commit == "":
				commit = s.Value
			case s.Key == "vcs.time" && built == "":
				built = s.Value
			}
		}
	}
	if commit == "" {
		commit = "unknown"
	}
	if built == "" {
		built = "unknown"
	}

	return VersionInfo{
		Version:      Version,
		BuildTime:    built,
		GitCommit:    commit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		DataFormat:   DataFormatVersion,
		APIVersion:   APIVersion,
	}
}
