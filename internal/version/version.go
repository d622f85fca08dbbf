// Package version exposes the module version minisc was built with, so
// that `minisc version` and diagnostic logging can report something more
// useful than a hardcoded string to downstream users pinning a commit.
package version

import "runtime/debug"

// Default is reported when build info isn't available (e.g. `go run` from
// within this module itself, rather than a downstream `go install`).
const Default = "dev"

var minisc = Default

// GetMiniscVersion returns the version of minisc in use, read from the
// running binary's build info. It matches Default if minisc is the main
// module (running its own tests or cmd/minisc from within this repo)
// rather than a versioned dependency.
func GetMiniscVersion() string {
	// A non-default override (e.g. embedded by a release build's ldflags)
	// always wins over build info.
	if minisc != Default {
		return minisc
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Default
	}
	for _, dep := range info.Deps {
		if dep.Path == "github.com/minisc-rt/minisc" {
			return dep.Version
		}
	}
	return Default
}
