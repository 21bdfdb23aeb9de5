// Package version exposes the build metadata stamped into the binary.
package version

import (
	"fmt"
	"runtime"
)

// Stamped at build time, for example:
//
//	go build -ldflags "-X promptpack/pkg/version.Version=0.3.0 -X promptpack/pkg/version.Commit=1a2b3c4"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info is a snapshot of the binary's build metadata.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the build metadata of the running binary, combining the
// stamped values with the Go runtime's own.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String renders the info on a single line, as printed by the version
// subcommand.
func (i Info) String() string {
	return fmt.Sprintf("promptpack %s (commit %s, built %s, %s, %s)",
		i.Version, i.GitCommit, i.BuildTime, i.GoVersion, i.Platform)
}
