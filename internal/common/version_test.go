package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVersionFile_OnlyFillsDefaults(t *testing.T) {
	oldVersion, oldBuild, oldCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = oldVersion, oldBuild, oldCommit })

	Version, Build, GitCommit = "dev", "unknown", "1a2b3c"

	path := filepath.Join(t.TempDir(), ".version")
	require.NoError(t, os.WriteFile(path, []byte("# release\nversion: 1.4.0\nbuild: 2026-10-01\ncommit: ffffff\nnonsense\n"), 0o644))

	loadVersionFile(path)

	assert.Equal(t, "1.4.0", GetVersion())
	assert.Equal(t, "2026-10-01", GetBuild())
	assert.Equal(t, "1a2b3c", GetGitCommit())
	assert.Equal(t, "1.4.0 (build: 2026-10-01, commit: 1a2b3c)", GetFullVersion())
}

func TestLoadVersionFile_Missing(t *testing.T) {
	oldVersion := Version
	t.Cleanup(func() { Version = oldVersion })

	loadVersionFile(filepath.Join(t.TempDir(), "absent"))
	assert.Equal(t, oldVersion, Version)
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Build, info.Build)
	assert.Equal(t, GitCommit, info.Commit)
}
