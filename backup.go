package mdx

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// BackupManager guards generated output files against accidental
// overwrite by copying an existing file aside before we write over it.
type BackupManager struct{}

func NewBackupManager() *BackupManager {
	return &BackupManager{}
}

// CreateBackupOf copies path to a timestamped sibling if it already
// exists. Returns the backup path, or an empty string if no backup was
// needed.
func (bm *BackupManager) CreateBackupOf(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("checking file existence: %w", err)
	}

	backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102_150405"))

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading original file: %w", err)
	}
	if err := os.WriteFile(backupPath, content, 0644); err != nil {
		return "", fmt.Errorf("creating backup: %w", err)
	}

	slog.Debug("output file already existed, created a backup", "backup", backupPath, "output", path)
	return backupPath, nil
}
