package storage_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"olympiad.xdoubleu.com/apps/olympiad/internal/storage"
)

func TestIsAllowed(t *testing.T) {
	assert.True(t, storage.IsAllowed(storage.KindFile, "notes.PDF"))
	assert.True(t, storage.IsAllowed(storage.KindFile, "archive.tar.zip"))
	assert.False(t, storage.IsAllowed(storage.KindFile, "clip.mp4"))
	assert.False(t, storage.IsAllowed(storage.KindFile, "noextension"))
	assert.True(t, storage.IsAllowed(storage.KindVideo, "clip.MOV"))
	assert.False(t, storage.IsAllowed(storage.KindVideo, "notes.pdf"))
}

func TestSaveOpenDelete(t *testing.T) {
	root := t.TempDir()

	s, err := storage.New(root)
	require.NoError(t, err)

	relative, err := s.Save(storage.KindFile, "Теория.PDF", strings.NewReader("content"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relative, "files/"))
	assert.True(t, strings.HasSuffix(relative, ".pdf"))

	file, err := s.Open(relative)
	require.NoError(t, err)
	content, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, "content", string(content))

	require.NoError(t, s.Delete(relative))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(relative)))
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.NoError(t, s.Delete(relative))
	assert.NoError(t, s.Delete(""))
}

func TestFailedSaveLeavesNoFile(t *testing.T) {
	root := t.TempDir()

	s, err := storage.New(root)
	require.NoError(t, err)

	broken := io.MultiReader(
		strings.NewReader("partial"),
		iotest.ErrReader(io.ErrUnexpectedEOF),
	)

	relative, err := s.Save(storage.KindVideo, "clip.mp4", broken)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Empty(t, relative)

	entries, err := os.ReadDir(filepath.Join(root, string(storage.KindVideo)))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRejectsEscapingPaths(t *testing.T) {
	s, err := storage.New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Open("../secret")
	assert.ErrorIs(t, err, storage.ErrInvalidPath)

	assert.ErrorIs(t, s.Delete("files/../../secret"), storage.ErrInvalidPath)
}
