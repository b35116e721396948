package oasforge

// version is the current oasforge release version.
// Updated as part of the release process.
const version = "0.3.0"

// Version returns the current oasforge version string.
func Version() string {
	return version
}
