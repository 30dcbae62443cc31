package ports

// Staleness decides whether a target's body must run, by comparing the
// target file's mtime against its resolved dependencies.
//
//go:generate go run go.uber.org/mock/mockgen -source=staleness.go -destination=mocks/mock_staleness.go -package=mocks
type Staleness interface {
	// NeedsRun reports true when the target is missing, any dep is missing,
	// or any dep is strictly newer than the target.
	NeedsRun(target string, deps []string) bool

	// Exists reports whether path is a readable regular file.
	Exists(path string) bool
}
