package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
)

// Build metadata, overridable with -ldflags "-X".
var (
	Version   = "0.1.0"
	CommitSHA = "unknown"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	CommitSHA string `json:"commit_sha,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the build metadata for tool.
func GetVersionInfo(tool string) VersionInfo {
	info := VersionInfo{
		Tool:      tool,
		Version:   Version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if CommitSHA != "unknown" {
		info.CommitSHA = CommitSHA
	}
	return info
}

// String formats the info on one line, e.g. "ramen 0.1.0 (go1.23.0 linux/amd64)".
func (v VersionInfo) String() string {
	build := v.GoVersion + " " + v.Platform
	if v.CommitSHA != "" {
		build = v.CommitSHA + ", " + build
	}
	return fmt.Sprintf("%s %s (%s)", v.Tool, v.Version, build)
}

// WriteVersion prints the version of tool as one line or as JSON.
func WriteVersion(w io.Writer, tool string, asJSON bool) error {
	info := GetVersionInfo(tool)
	if !asJSON {
		_, err := fmt.Fprintln(w, info)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(info)
}
