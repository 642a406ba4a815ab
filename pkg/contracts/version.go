package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the application.
	Version = "1.0.0"

	// WarehouseFormatVersion is the version stamped into the warehouse
	// bundle metadata.
	WarehouseFormatVersion = "1.0"
)

var (
	// BuildTime is set during build using ldflags.
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags.
	GitCommit = "unknown"
)

// VersionString returns a formatted version string for startup logs.
func VersionString() string {
	return fmt.Sprintf("salespipe v%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		Version, BuildTime, GitCommit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
