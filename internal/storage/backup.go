package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupManager writes full-snapshot backup files into a directory. Each backup
// is <tag>.json plus a <tag>.meta.json sidecar.
type BackupManager struct {
	db  *sql.DB
	dir string
}

// BackupMetadata is the sidecar written next to each backup file.
type BackupMetadata struct {
	CreatedAt    time.Time      `json:"created_at"`
	RecordCounts map[string]int `json:"record_counts"`
	ID           string         `json:"id"`
	Description  string         `json:"description"`
	FileSize     int64          `json:"file_size"`
}

// BackupInfo describes a backup for listing.
type BackupInfo struct {
	CreatedAt    time.Time
	RecordCounts map[string]int
	ID           string
	Description  string
	Path         string
	FileSize     int64
}

// Backup errors.
var (
	ErrBackupNotFound = errors.New("backup not found")
	ErrBackupExists   = errors.New("backup already exists")
)

// NewBackupManager creates a backup manager. db may be nil, in which case
// metadata is only kept in sidecar files.
func NewBackupManager(db *sql.DB, dir string) (*BackupManager, error) {
	if err := validateString(dir, "dir"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}

	return &BackupManager{db: db, dir: dir}, nil
}

// Dir returns the backup directory.
func (bm *BackupManager) Dir() string {
	return bm.dir
}

// Create writes payload as a new backup. An empty tag is generated from the
// current time.
func (bm *BackupManager) Create(ctx context.Context, tag, description string, payload []byte, counts map[string]int) (*BackupInfo, error) {
	if tag == "" {
		tag = fmt.Sprintf("backup-%s", time.Now().Format("2006-01-02-150405"))
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	backupPath := bm.backupPath(tag)
	if _, err := os.Stat(backupPath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, tag)
	}

	if err := os.WriteFile(backupPath, payload, 0600); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	metadata := BackupMetadata{
		ID:           tag,
		CreatedAt:    time.Now(),
		Description:  description,
		FileSize:     int64(len(payload)),
		RecordCounts: counts,
	}

	if err := bm.saveMetadata(metadata); err != nil {
		if rmErr := os.Remove(backupPath); rmErr != nil {
			slog.Error("failed to remove backup file after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	if err := bm.storeMetadataInDB(ctx, metadata); err != nil {
		// The sidecar is authoritative.
		slog.Warn("failed to store backup metadata in database", "error", err)
	}

	return bm.info(metadata), nil
}

// List returns all backups, newest first.
func (bm *BackupManager) List(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		metadata, err := bm.loadMetadata(filepath.Join(bm.dir, entry.Name()))
		if err != nil {
			slog.Debug("skipping unreadable backup metadata", "file", entry.Name(), "error", err)
			continue
		}
		backups = append(backups, *bm.info(*metadata))
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Info returns a single backup's metadata.
func (bm *BackupManager) Info(_ context.Context, tag string) (*BackupInfo, error) {
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	metadata, err := bm.loadMetadata(bm.metadataPath(tag))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, tag)
		}
		return nil, fmt.Errorf("failed to load backup metadata: %w", err)
	}

	return bm.info(*metadata), nil
}

// Read returns the raw backup document.
func (bm *BackupManager) Read(_ context.Context, tag string) ([]byte, error) {
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(bm.backupPath(tag))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, tag)
		}
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return data, nil
}

// Delete removes a backup and its metadata.
func (bm *BackupManager) Delete(ctx context.Context, tag string) error {
	if err := validateTag(tag); err != nil {
		return err
	}

	backupPath := bm.backupPath(tag)
	if _, err := os.Stat(backupPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, tag)
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		return fmt.Errorf("failed to remove backup file: %w", err)
	}

	if err := os.Remove(bm.metadataPath(tag)); err != nil {
		slog.Debug("failed to remove metadata file", "error", err, "tag", tag)
	}

	if bm.db != nil {
		if _, err := bm.db.ExecContext(ctx, "DELETE FROM backup_metadata WHERE id = ?", tag); err != nil {
			slog.Debug("failed to remove backup metadata from database", "error", err, "tag", tag)
		}
	}

	return nil
}

func (bm *BackupManager) backupPath(tag string) string {
	return filepath.Join(bm.dir, tag+".json")
}

func (bm *BackupManager) metadataPath(tag string) string {
	return filepath.Join(bm.dir, tag+".meta.json")
}

func (bm *BackupManager) info(metadata BackupMetadata) *BackupInfo {
	return &BackupInfo{
		ID:           metadata.ID,
		CreatedAt:    metadata.CreatedAt,
		Description:  metadata.Description,
		FileSize:     metadata.FileSize,
		RecordCounts: metadata.RecordCounts,
		Path:         bm.backupPath(metadata.ID),
	}
}

func (bm *BackupManager) saveMetadata(metadata BackupMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return os.WriteFile(bm.metadataPath(metadata.ID), data, 0600)
}

func (bm *BackupManager) loadMetadata(path string) (*BackupMetadata, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is built from a validated tag
	if err != nil {
		return nil, err
	}

	var metadata BackupMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &metadata, nil
}

func (bm *BackupManager) storeMetadataInDB(ctx context.Context, metadata BackupMetadata) error {
	if bm.db == nil {
		return nil
	}

	counts, err := json.Marshal(metadata.RecordCounts)
	if err != nil {
		return fmt.Errorf("failed to marshal record counts: %w", err)
	}

	_, err = bm.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO backup_metadata (id, created_at, description, file_size, record_counts)
		VALUES (?, ?, ?, ?, ?)`,
		metadata.ID, metadata.CreatedAt, metadata.Description, metadata.FileSize, string(counts))
	if err != nil {
		return fmt.Errorf("failed to insert backup metadata: %w", err)
	}
	return nil
}
