// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Report the release tag or VCS revision the binary was built from.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at link time for release builds (-ldflags "-X .../version.Version=v1.2.3").
var Version = ""

// GetVersion returns the link-time version when set, otherwise the module version or
// the short VCS revision, suffixed with "(dirty)" for modified trees. It returns "dev"
// when nothing is known.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) string {
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
