package utils

import (
	"runtime/debug"
	"strings"
)

const (
	unknownVersion = "unknown"
	develVersion   = "(devel)"
)

// Version is stamped at build time with -ldflags "-X github.com/temirov/hokuspokus/internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion returns the stamped version, then the module version from build info, then "unknown".
func GetApplicationVersion() string {
	if trimmed := strings.TrimSpace(Version); trimmed != "" {
		return trimmed
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}
	return unknownVersion
}
