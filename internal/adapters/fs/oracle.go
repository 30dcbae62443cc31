// Package fs provides the filesystem adapters: the mtime staleness oracle
// and the glob expander.
package fs

import (
	"os"
	"time"
)

// Oracle implements ports.Staleness against the real filesystem.
type Oracle struct{}

// NewOracle creates a new Oracle.
func NewOracle() *Oracle {
	return &Oracle{}
}

// NeedsRun reports whether target must be rebuilt from deps. A missing
// target or a missing dep forces a run; a missing dep is not an error, an
// upstream rule is expected to materialise it. Equal mtimes are fresh.
func (o *Oracle) NeedsRun(target string, deps []string) bool {
	tts := mtime(target)
	if tts.IsZero() {
		return true
	}
	for _, dep := range deps {
		if !o.Exists(dep) {
			return true
		}
		if sts := mtime(dep); !sts.IsZero() && tts.Before(sts) {
			return true
		}
	}
	return false
}

// Exists reports whether path is a readable regular file.
func (o *Oracle) Exists(path string) bool {
	f, err := os.Open(path) //nolint:gosec // paths come from the build script
	if err != nil {
		return false
	}
	defer f.Close() //nolint:errcheck // read-only probe
	fi, err := f.Stat()
	return err == nil && fi.Mode().IsRegular()
}

// mtime returns the modification time of a regular file, or the zero time
// for anything else. Directories, FIFOs and dangling symlinks count as
// missing.
func mtime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return time.Time{}
	}
	return fi.ModTime()
}
