package options

import (
	"github.com/BurntSushi/toml"
	tracererrors "github.com/iamNilotpal/memtracer/pkg/errors"
	"github.com/iamNilotpal/memtracer/pkg/filesys"
)

// Load reads a TOML configuration file and decodes it into an Options
// value, starting from the package defaults so a config file only needs to
// specify the fields it wants to override.
func Load(path string) (*Options, error) {
	opts := NewDefaultOptions()

	if exists, err := filesys.Exists(path); err != nil || !exists {
		return nil, tracererrors.NewValidationError(
			err, tracererrors.ErrorCodeInvalidInput, "options file does not exist",
		).WithField("path").WithDetail("path", path)
	}

	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return nil, tracererrors.NewValidationError(
			err, tracererrors.ErrorCodeInvalidInput, "failed to decode options file",
		).WithField("path").WithDetail("path", path)
	}

	return &opts, nil
}
