// Package version exposes the stockfix build version.
package version

// Version is the stockfix version string. Release builds override it via
// -ldflags "-X github.com/stockfix/stockfix/pkg/version.Version=v1.2.3".
var Version = "0.1.0-dev"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
