package mdx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackupManager(t *testing.T) {
	dir := t.TempDir()
	bm := NewBackupManager()

	t.Run("no backup for missing file", func(t *testing.T) {
		backupPath, err := bm.CreateBackupOf(filepath.Join(dir, "missing.jsx"))
		require.NoError(t, err)
		require.Empty(t, backupPath)
	})

	t.Run("existing file is copied aside", func(t *testing.T) {
		target := filepath.Join(dir, "page.jsx")
		require.NoError(t, os.WriteFile(target, []byte("old content"), 0644))

		backupPath, err := bm.CreateBackupOf(target)
		require.NoError(t, err)
		require.NotEmpty(t, backupPath)

		content, err := os.ReadFile(backupPath)
		require.NoError(t, err)
		require.Equal(t, "old content", string(content))
	})
}
