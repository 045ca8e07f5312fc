package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTree(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()
	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
	return tempDir
}

func paths(root string, files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		rel, _ := filepath.Rel(root, f.Path)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}

func TestProjectScanner(t *testing.T) {
	t.Parallel()

	tempDir := createTree(t, map[string]string{
		"file1.py":          "# -- a",
		"file2.SH":          "# -- b",
		"file3.txt":         "This is a text file",
		"subdir/file4.py":   "x = 1",
		".git/hooks/pre.py": "x = 2",
	})

	scannedFiles, err := New(tempDir, ".py", ".sh").Scan()
	require.NoError(t, err)

	assert.Equal(t, []string{"file1.py", "file2.SH", "subdir/file4.py"}, paths(tempDir, scannedFiles))
	for _, file := range scannedFiles {
		assert.Greater(t, file.Size, int64(0), "File size should be greater than 0")
	}
}

func TestScannerOptions(t *testing.T) {
	t.Parallel()

	tempDir := createTree(t, map[string]string{
		"a.py":          "a",
		"vendor/b.py":   "b",
		".hidden/c.py":  "c",
		"pkg/d_test.py": "d",
	})

	files, err := New(tempDir, ".py").
		IncludeHidden().
		Skip(func(path string) bool {
			return filepath.Base(path) == "vendor" || strings.HasSuffix(path, "_test.py")
		}).
		Scan()
	require.NoError(t, err)
	assert.Equal(t, []string{".hidden/c.py", "a.py"}, paths(tempDir, files))

	all, err := New(tempDir).Scan()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestScanSingleFile(t *testing.T) {
	t.Parallel()

	tempDir := createTree(t, map[string]string{"a.py": "a"})
	file := filepath.Join(tempDir, "a.py")

	files, err := New(file, ".py").Scan()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, file, files[0].Path)

	assert.True(t, IsDir(tempDir))
	assert.False(t, IsDir(file))

	_, err = New(filepath.Join(tempDir, "missing")).Scan()
	assert.Error(t, err)
}
