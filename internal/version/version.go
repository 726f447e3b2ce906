package version

import (
	"fmt"
	"runtime/debug"
)

// Version is the release version, set at build time with
// -ldflags "-X github.com/ajaxify/esi/internal/version.Version=v1.2.3".
var Version = "0.1.0-dev"

// GitCommit is the commit the binary was built from, set at build time.
var GitCommit = ""

// Info returns the version line printed by "esi version".
func Info() string {
	commit := GitCommit
	if commit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					commit = s.Value
					break
				}
			}
		}
	}
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		return fmt.Sprintf("esi v%s", trimV(Version))
	}
	return fmt.Sprintf("esi v%s (%s)", trimV(Version), commit)
}

func trimV(v string) string {
	if len(v) > 0 && v[0] == 'v' {
		return v[1:]
	}
	return v
}
