// Package version carries build identification, settable at build time via
// ldflags.
package version

var (
	Version   = "0.0.1"
	BuildDate = "unknown"
)

// FullVersion is the version string shown by the CLI.
func FullVersion() string {
	return Version + " (built " + BuildDate + ")"
}
