// Package tabletop provides the version information for tabletop.
package tabletop

// Version is the current version of tabletop.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
