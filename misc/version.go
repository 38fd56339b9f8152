// Package misc keeps build time information about the program.
package misc

import (
	"runtime/debug"
)

const appName = "lwcc"

// Set by linker.
var (
	version = "dev"
	githash = ""
)

// GetAppName returns program name used for logs and temporary files.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit the program was built from, falling back to
// VCS information recorded by the go toolchain.
func GetGitHash() string {
	if githash != "" {
		return githash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
