// Package config provides the loader for the optional tool defaults file.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/obuild/internal/core/domain"
	"go.trai.ch/obuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultsFilename is the well-known name of the tool defaults file,
// looked up in the directory passed to Load.
const DefaultsFilename = ".obuild.yaml"

// Loader implements ports.ConfigLoader using a YAML file. The defaults
// file is optional; flags given explicitly on the command line win over
// anything found here.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// fileDTO mirrors the defaults file schema.
type fileDTO struct {
	Jobs      *int    `yaml:"jobs"`
	File      *string `yaml:"file"`
	IgnoreEnv *bool   `yaml:"ignore_env"`
}

// Load reads the defaults file from dir. A missing file yields zero-value
// defaults; a malformed one is a configuration error.
func (l *Loader) Load(dir string) (domain.Defaults, error) {
	path := filepath.Join(dir, DefaultsFilename)
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the working directory
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Defaults{}, nil
		}
		return domain.Defaults{}, zerr.With(zerr.Wrap(err, "failed to read defaults file"), "path", path)
	}

	var dto fileDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return domain.Defaults{}, zerr.With(zerr.Wrap(err, "failed to parse defaults file"), "path", path)
	}

	if dto.Jobs != nil && *dto.Jobs < 0 {
		return domain.Defaults{}, zerr.With(zerr.New("jobs must not be negative"), "path", path)
	}

	return domain.Defaults{
		Jobs:      dto.Jobs,
		File:      dto.File,
		IgnoreEnv: dto.IgnoreEnv,
	}, nil
}
