// Package build holds build-time information about the obuild binary.
package build

// Version is the tool version. It defaults to "dev" and is overwritten by
// linker flags on release builds.
var Version = "dev"
