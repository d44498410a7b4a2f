package options_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tracererrors "github.com/iamNilotpal/memtracer/pkg/errors"
	"github.com/iamNilotpal/memtracer/pkg/options"
)

func TestLoad_MissingFileReturnsValidationError(t *testing.T) {
	_, err := options.Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.Error(t, err)
	assert.True(t, tracererrors.IsValidationError(err))
}

func TestLoad_OverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracer.toml")
	contents := "separator = \" -> \"\nmaxDepth = 12\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	opts, err := options.Load(path)
	require.NoError(t, err)

	assert.Equal(t, " -> ", opts.Separator)
	assert.Equal(t, 12, opts.MaxDepth)
	assert.Equal(t, options.DefaultMinSkip, opts.MinSkip, "unspecified fields keep their default")
	assert.Equal(t, options.DefaultFlushInterval, opts.FlushInterval)
}

func TestLoad_InvalidTomlReturnsValidationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracer.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid toml"), 0o644))

	_, err := options.Load(path)
	require.Error(t, err)
	assert.True(t, tracererrors.IsValidationError(err))
}
