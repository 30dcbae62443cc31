package ports

import "go.trai.ch/obuild/internal/core/domain"

// ConfigLoader reads the optional tool defaults file from a directory.
// A missing file yields zero-value defaults and no error.
type ConfigLoader interface {
	Load(dir string) (domain.Defaults, error)
}
