// Package version reports the version of the pianoroll binaries.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version can be set at build time:
// go build -ldflags "-X github.com/pianoroll-go/pianoroll/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision the binary was built from, with "-dirty"
// appended for modified work trees. Empty if the build has no VCS info.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return hashOf(info.Settings)
}()

func hashOf(settings []debug.BuildSetting) string {
	revision, modified := "", false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		revision += "-dirty"
	}
	return revision
}

// VersionOrHash is Version if set, Hash otherwise.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return Hash
}()

// String returns a one line description of the build, e.g. for --version.
func String(name string) string {
	if VersionOrHash == "" {
		return name + " (devel)"
	}
	return fmt.Sprintf("%s %s", name, VersionOrHash)
}
