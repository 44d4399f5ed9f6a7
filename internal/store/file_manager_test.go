package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/models"
	"warden/internal/structures"
	"warden/internal/testutil"
)

func testFileManager(t *testing.T, retention int) (*FileManager, string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "warden.json")
	backupDir := filepath.Join(dir, "backups")

	conf := &structures.Config{
		Persistence: structures.Persistence{
			FilePath:        path,
			BackupDir:       backupDir,
			BackupRetention: retention,
		},
	}
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(comp.Close)

	return NewFileManager(conf, comp, &testutil.MockLogger{}), path, backupDir
}

func TestFileManager_Load_MissingFile(t *testing.T) {
	fm, _, _ := testFileManager(t, 3)

	doc, err := fm.Load()
	require.NoError(t, err)
	assert.Equal(t, models.DocumentVersion, doc.Version)
	assert.Empty(t, doc.Users)
}

func TestFileManager_SaveLoad_RoundTrip(t *testing.T) {
	fm, _, _ := testFileManager(t, 3)

	doc := models.NewDocument()
	doc.Users["u1"] = models.NewUserRecord()
	doc.Users["u1"].TotalOnline = 3600
	rec := models.NewMuteRecord("u1", "mod", "spam", 600, time.Unix(1700000000, 0).UTC())
	doc.Mutes[rec.ID] = rec
	doc.MuteIndex["u1"] = rec.ID

	require.NoError(t, fm.Save(doc))

	loaded, err := fm.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(3600), loaded.Users["u1"].TotalOnline)
	require.Contains(t, loaded.Mutes, rec.ID)
	assert.Equal(t, rec.Unmute.Unix(), loaded.Mutes[rec.ID].Unmute.Unix())
	assert.Equal(t, rec.ID, loaded.MuteIndex["u1"])
}

func TestFileManager_Load_CorruptMovedAside(t *testing.T) {
	fm, path, _ := testFileManager(t, 3)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	doc, err := fm.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Users)

	// Original bytes survive under a .corrupt-* name.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	aside, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, aside, 1)
	data, err := os.ReadFile(aside[0])
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestFileManager_Load_RebuildsIndexFromOldFormat(t *testing.T) {
	fm, path, _ := testFileManager(t, 3)
	rec := models.NewMuteRecord("u1", "mod", "", 600, time.Unix(1000, 0))

	old := map[string]interface{}{
		"version": 1,
		"mutes":   map[string]*models.MuteRecord{rec.ID: rec},
	}
	data, err := json.Marshal(old)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	doc, err := fm.Load()
	require.NoError(t, err)
	assert.Equal(t, rec.ID, doc.MuteIndex["u1"])
	assert.Equal(t, models.DocumentVersion, doc.Version)
}

func TestFileManager_Save_RotatesBackups(t *testing.T) {
	fm, _, backupDir := testFileManager(t, 3)
	doc := models.NewDocument()

	for i := 0; i < 5; i++ {
		require.NoError(t, fm.Save(doc))
		time.Sleep(5 * time.Millisecond) // distinct backup timestamps
	}

	files, err := filepath.Glob(filepath.Join(backupDir, backupPattern))
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestFileManager_RestoreBackup(t *testing.T) {
	fm, _, backupDir := testFileManager(t, 3)

	doc := models.NewDocument()
	doc.Users["u1"] = models.NewUserRecord()
	doc.Users["u1"].TotalOnline = 123
	require.NoError(t, fm.Save(doc))

	files, err := filepath.Glob(filepath.Join(backupDir, backupPattern))
	require.NoError(t, err)
	require.Len(t, files, 1)

	restored, err := fm.RestoreBackup(filepath.Base(files[0]))
	require.NoError(t, err)
	assert.Equal(t, int64(123), restored.Users["u1"].TotalOnline)
}

func TestFileManager_Save_NoStaleTmp(t *testing.T) {
	fm, path, _ := testFileManager(t, 3)
	require.NoError(t, fm.Save(models.NewDocument()))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
