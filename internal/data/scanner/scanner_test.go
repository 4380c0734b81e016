package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("{}"), 0o644))
	}
}

func TestFileScannerScanEmptyDirectory(t *testing.T) {
	files, err := NewFileScanner(t.TempDir()).Scan()

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFileScannerScanNonExistentDirectory(t *testing.T) {
	files, err := NewFileScanner("/path/that/does/not/exist").Scan()

	require.NoError(t, err, "Scanner should handle non-existent directory gracefully")
	assert.Empty(t, files)
}

func TestFileScannerScanMixedFileTypes(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir,
		"p12s/fight-3.json",
		"p12s/fight-1.JSON",
		"top/nested/fight-9.json",
		"notes.txt",
		"fight.json.bak",
		".pull-condenser.json",
		"events.jsonl",
	)

	files, err := NewFileScanner(tempDir).Scan()

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tempDir, "p12s/fight-1.JSON"),
		filepath.Join(tempDir, "p12s/fight-3.json"),
		filepath.Join(tempDir, "top/nested/fight-9.json"),
	}, files)
}

func TestIsFightFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"fight.json", true},
		{"/a/b/Fight.JSON", true},
		{"fight.jsonl", false},
		{".hidden.json", false},
		{"fight.json.swp", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsFightFile(tt.path))
		})
	}
}

func TestExpand(t *testing.T) {
	tempDir := t.TempDir()
	createFiles(t, tempDir, "dir/a.json", "dir/b.json", "single.txt")

	files, err := Expand([]string{filepath.Join(tempDir, "single.txt"), filepath.Join(tempDir, "dir")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tempDir, "single.txt"),
		filepath.Join(tempDir, "dir/a.json"),
		filepath.Join(tempDir, "dir/b.json"),
	}, files)

	_, err = Expand([]string{filepath.Join(tempDir, "missing")})
	assert.Error(t, err)
}
