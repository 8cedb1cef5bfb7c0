// SPDX-License-Identifier: MIT
//
// Package build holds the build metadata embedded with linker flags:
//
//	go build -ldflags "-X vocaltract/pkg/build.buildName=vocaltract \
//	    -X vocaltract/pkg/build.buildVersion=0.1.0 ..."
//
// Development builds run with the defaults.
package build

import "fmt"

// DefaultName is the program name used when no build name is linked in.
const DefaultName = "vocaltract"

// Info describes the running binary.
type Info struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// Package-level variables for build information, set with -ldflags -X.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = defaultInfo()
)

func defaultInfo() *Info {
	return &Info{
		Name:        DefaultName,
		Description: "Real-time vocal tract analysis: pitch, formants and tube areas from live or recorded speech",
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "dev",
	}
}

// Initialize validates and copies build information from ldflags variables.
// It returns an error if any required build flag is missing; the defaults
// stay in place in that case.
func Initialize() error {
	if buildName == "" {
		return fmt.Errorf("BuildName is required")
	}
	if buildTime == "" {
		return fmt.Errorf("BuildTime is required")
	}
	if buildCommit == "" {
		return fmt.Errorf("BuildCommit is required")
	}
	if buildVersion == "" {
		return fmt.Errorf("BuildVersion is required")
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion

	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *Info {
	return buildFlags
}

// String formats the version line shown by --version.
func (i *Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", i.Version, i.Commit, i.Time)
}
