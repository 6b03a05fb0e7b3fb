package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestBackupManager(t *testing.T) (*BackupManager, *SQLiteStorage) {
	t.Helper()
	store, cleanup := createTestStorage(t)
	t.Cleanup(cleanup)

	bm, err := store.NewBackupManager(filepath.Join(t.TempDir(), "backups"))
	require.NoError(t, err)
	return bm, store
}

func TestBackupCreateAndRead(t *testing.T) {
	bm, store := createTestBackupManager(t)
	ctx := context.Background()

	payload := []byte(`{"version":"1.0","data":{}}`)
	info, err := bm.Create(ctx, "pre-audit", "before the audit", payload, map[string]int{"trips": 3})
	require.NoError(t, err)

	assert.Equal(t, "pre-audit", info.ID)
	assert.Equal(t, "before the audit", info.Description)
	assert.Equal(t, int64(len(payload)), info.FileSize)
	assert.Equal(t, 3, info.RecordCounts["trips"])
	assert.FileExists(t, info.Path)
	assert.FileExists(t, filepath.Join(bm.Dir(), "pre-audit.meta.json"))

	data, err := bm.Read(ctx, "pre-audit")
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	var count int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM backup_metadata WHERE id = ?`, "pre-audit").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestBackupCreateGeneratesTag(t *testing.T) {
	bm, _ := createTestBackupManager(t)

	info, err := bm.Create(context.Background(), "", "", []byte(`{}`), nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.ID, "backup-"), "got %s", info.ID)
}

func TestBackupCreateDuplicate(t *testing.T) {
	bm, _ := createTestBackupManager(t)
	ctx := context.Background()

	_, err := bm.Create(ctx, "weekly", "", []byte(`{}`), nil)
	require.NoError(t, err)

	_, err = bm.Create(ctx, "weekly", "", []byte(`{}`), nil)
	assert.ErrorIs(t, err, ErrBackupExists)
}

func TestBackupCreateRejectsBadTag(t *testing.T) {
	bm, _ := createTestBackupManager(t)

	_, err := bm.Create(context.Background(), "../escape", "", []byte(`{}`), nil)
	assert.ErrorIs(t, err, ErrInvalidTag)
}

func TestBackupListNewestFirst(t *testing.T) {
	bm, _ := createTestBackupManager(t)
	ctx := context.Background()

	_, err := bm.Create(ctx, "first", "", []byte(`{}`), nil)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = bm.Create(ctx, "second", "", []byte(`{}`), nil)
	require.NoError(t, err)

	// Stray files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(bm.Dir(), "notes.txt"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(bm.Dir(), "broken.meta.json"), []byte("{"), 0600))

	backups, err := bm.List(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "second", backups[0].ID)
	assert.Equal(t, "first", backups[1].ID)
}

func TestBackupInfoAndDelete(t *testing.T) {
	bm, store := createTestBackupManager(t)
	ctx := context.Background()

	_, err := bm.Create(ctx, "monthly", "month end", []byte(`{}`), nil)
	require.NoError(t, err)

	info, err := bm.Info(ctx, "monthly")
	require.NoError(t, err)
	assert.Equal(t, "month end", info.Description)

	require.NoError(t, bm.Delete(ctx, "monthly"))
	assert.NoFileExists(t, info.Path)

	_, err = bm.Info(ctx, "monthly")
	assert.ErrorIs(t, err, ErrBackupNotFound)
	_, err = bm.Read(ctx, "monthly")
	assert.ErrorIs(t, err, ErrBackupNotFound)
	assert.ErrorIs(t, bm.Delete(ctx, "monthly"), ErrBackupNotFound)

	var count int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM backup_metadata`).Scan(&count))
	assert.Zero(t, count)
}

func TestBackupManagerWithoutDatabase(t *testing.T) {
	bm, err := NewBackupManager(nil, t.TempDir())
	require.NoError(t, err)

	info, err := bm.Create(context.Background(), "file-only", "", []byte(`{}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "file-only", info.ID)
}
