package filestorage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	ls, err := NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)
	return ls
}

func TestGetFullPath(t *testing.T) {
	ls := newTestStorage(t)

	full := ls.GetFullPath("/files/classrooms/3/tasks/7/doc.pdf")
	assert.Equal(t, filepath.Join(ls.basePath, "classrooms/3/tasks/7/doc.pdf"), full)

	// Bare relative path resolves the same way
	assert.Equal(t, full, ls.GetFullPath("classrooms/3/tasks/7/doc.pdf"))
}

func TestGetFullPath_RejectsTraversal(t *testing.T) {
	ls := newTestStorage(t)

	assert.Empty(t, ls.GetFullPath("../etc/passwd"))
	assert.Empty(t, ls.GetFullPath("/files/../../etc/passwd"))
	assert.Empty(t, ls.GetFullPath(""))
}

func TestDeleteFile(t *testing.T) {
	ls := newTestStorage(t)

	path := filepath.Join(ls.basePath, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))

	require.NoError(t, ls.DeleteFile("/files/doc.txt"))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op
	assert.NoError(t, ls.DeleteFile("/files/doc.txt"))
}
