package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOptionsOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sablec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("opt_level: 2\n"), 0o644))

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, 2, opts.OptLevel)
	require.Equal(t, SchedulerDefault, opts.Scheduler) // untouched, from Default()
	require.Equal(t, "on-stale", opts.SidecarRefresh)
}

func TestLoadOptionsRejectsInvalidOptLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sablec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("opt_level: 9\n"), 0o644))

	_, err := LoadOptions(path)
	require.Error(t, err)
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsUnknownScheduler(t *testing.T) {
	opts := Default()
	opts.Scheduler = "chaos"
	require.Error(t, opts.Validate())
}
