package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"warden/internal/models"
	"warden/internal/providers"
	"warden/internal/structures"
)

const backupPattern = "warden-*.json.zst"

// FileManager owns the on-disk layout: one plain JSON primary document plus a
// rotating set of zstd-compressed timestamped backups.
type FileManager struct {
	path       string
	backupDir  string
	retention  int
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileManager(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		path:       conf.Persistence.FilePath,
		backupDir:  conf.Persistence.BackupDir,
		retention:  conf.Persistence.BackupRetention,
		compressor: compressor,
		logger:     logger,
	}
}

// Load reads the primary document. A missing file yields a fresh default
// document. A corrupt file is renamed aside (never deleted) and a default
// document is returned, leaving recovery to the backup history.
func (f *FileManager) Load() (*models.Document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.NewDocument(), nil
		}
		return nil, err
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		aside := fmt.Sprintf("%s.corrupt-%s", f.path, time.Now().UTC().Format("20060102-150405"))
		if renameErr := os.Rename(f.path, aside); renameErr != nil {
			f.logger.Errorf(providers.TypeApp, "Failed to move corrupt document aside: %s", renameErr)
		} else {
			f.logger.Warnf(providers.TypeApp, "Corrupt document moved to %s, starting from defaults", aside)
		}
		return models.NewDocument(), nil
	}

	doc.Normalize()
	return &doc, nil
}

// Save writes a timestamped backup copy first, then atomically replaces the
// primary file, then prunes backups beyond the retention count, oldest first
// by filename sort.
func (f *FileManager) Save(doc *models.Document) error {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err := f.writeBackup(jsonData); err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(jsonData)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, f.path); err != nil {
		return err
	}

	return f.pruneBackups()
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

func (f *FileManager) writeBackup(jsonData []byte) error {
	if err := os.MkdirAll(f.backupDir, 0755); err != nil {
		return err
	}

	compressed, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("warden-%s.json.zst", time.Now().UTC().Format("20060102-150405.000"))
	return os.WriteFile(filepath.Join(f.backupDir, name), compressed, 0644)
}

func (f *FileManager) pruneBackups() error {
	files, err := filepath.Glob(filepath.Join(f.backupDir, backupPattern))
	if err != nil {
		return err
	}
	if len(files) <= f.retention {
		return nil
	}

	// Timestamped names sort chronologically.
	sort.Strings(files)
	for _, old := range files[:len(files)-f.retention] {
		if err := os.Remove(old); err != nil {
			f.logger.Warnf(providers.TypeApp, "Failed to prune backup %s: %s", old, err)
		}
	}
	return nil
}

// RestoreBackup decompresses a single backup file, used by operators and the
// file manager tests; the daemon itself never reads backups.
func (f *FileManager) RestoreBackup(name string) (*models.Document, error) {
	data, err := os.ReadFile(filepath.Join(f.backupDir, name))
	if err != nil {
		return nil, err
	}
	jsonData, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, err
	}
	var doc models.Document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, err
	}
	doc.Normalize()
	return &doc, nil
}
