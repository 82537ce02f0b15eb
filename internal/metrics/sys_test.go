package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSysHealth_StoredData(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "coach.db")
	require.NoError(t, os.WriteFile(dbPath, make([]byte, 1024), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", make([]byte, 1024), 0o644))

	profiles := filepath.Join(dir, "profiles")
	require.NoError(t, os.MkdirAll(filepath.Join(profiles, "archive"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(profiles, "userProfile.json"), make([]byte, 1500), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(profiles, "archive", "userProfile_42.json"), make([]byte, 548), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(profiles, "userProfile.json.tmp"), make([]byte, 100), 0o644))

	h := GetSysHealth(dbPath, profiles)
	assert.Equal(t, "2.0 KB", h.DatabaseSize)
	assert.Equal(t, 2, h.ProfileFiles)
	assert.Equal(t, "2.0 KB", h.ProfileSize)
	assert.Positive(t, h.Goroutines)
}

func TestGetSysHealth_MissingPaths(t *testing.T) {
	dir := t.TempDir()
	h := GetSysHealth(filepath.Join(dir, "none.db"), filepath.Join(dir, "none"))
	assert.Equal(t, "0 B", h.DatabaseSize)
	assert.Zero(t, h.ProfileFiles)
	assert.Equal(t, "0 B", h.ProfileSize)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 MB", formatBytes(3*512*1024))
	assert.Equal(t, "2.0 GB", formatBytes(2<<30))
}
