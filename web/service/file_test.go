package service

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/amoskalev/notepanel/util/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFiles(t *testing.T) (*FileService, string) {
	root := t.TempDir()
	return NewFileService(sandbox.New(root)), root
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestFileManagerScenario(t *testing.T) {
	svc, root := newTestFiles(t)

	require.NoError(t, svc.CreateFolder("", "reports"))
	require.NoError(t, svc.Upload("reports", "q1.txt", b64("revenue")))

	listing, err := svc.List("reports")
	require.NoError(t, err)
	require.Len(t, listing.Entries, 1)
	assert.Equal(t, "q1.txt", listing.Entries[0].Name)
	assert.False(t, listing.Entries[0].IsDir)
	assert.EqualValues(t, len("revenue"), listing.Entries[0].Size)

	data, err := os.ReadFile(filepath.Join(root, "reports", "q1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "revenue", string(data))

	assert.ErrorIs(t, svc.Delete("reports"), ErrDirNotEmpty)
	require.NoError(t, svc.Delete("reports/q1.txt"))
	require.NoError(t, svc.Delete("reports"))

	listing, err = svc.List("")
	require.NoError(t, err)
	assert.Empty(t, listing.Entries)
}

func TestFileManagerRejectsEscapes(t *testing.T) {
	svc, root := newTestFiles(t)
	outside := filepath.Dir(root)

	for _, p := range []string{"../../etc/passwd", "a/../../b", ".."} {
		_, err := svc.List(p)
		assert.ErrorIs(t, err, ErrInvalidPath, p)
		assert.ErrorIs(t, svc.Delete(p), ErrInvalidPath, p)
		assert.ErrorIs(t, svc.Upload(p, "x.txt", b64("x")), ErrInvalidPath, p)
		assert.ErrorIs(t, svc.CreateFolder(p, "x"), ErrInvalidPath, p)
	}
	assert.ErrorIs(t, svc.Upload("", "../escape.txt", b64("x")), ErrInvalidPath)
	assert.ErrorIs(t, svc.CreateFolder("", "../escape"), ErrInvalidPath)
	assert.NoFileExists(t, filepath.Join(outside, "escape.txt"))
	assert.NoDirExists(t, filepath.Join(outside, "escape"))
}

func TestFileManagerRootIsProtected(t *testing.T) {
	svc, root := newTestFiles(t)

	for _, p := range []string{"", "/", ".", "a/.."} {
		assert.ErrorIs(t, svc.Delete(p), ErrInvalidPath, p)
	}
	assert.DirExists(t, root)
}

func TestFileManagerLeadingSlashStaysInside(t *testing.T) {
	svc, root := newTestFiles(t)

	require.NoError(t, svc.Upload("/docs", "a.txt", b64("a")))
	assert.FileExists(t, filepath.Join(root, "docs", "a.txt"))
}

func TestUploadValidation(t *testing.T) {
	svc, _ := newTestFiles(t)
	require.NoError(t, svc.CreateFolder("", "dir"))

	assert.ErrorIs(t, svc.Upload("", "", b64("x")), ErrNameAndContentRequired)
	assert.ErrorIs(t, svc.Upload("", "a.txt", ""), ErrNameAndContentRequired)
	assert.ErrorIs(t, svc.Upload("", "a.txt", "***"), ErrInvalidContent)
	assert.ErrorIs(t, svc.Upload("", "dir", b64("x")), ErrPathIsDirectory)
}

func TestUploadOverwrites(t *testing.T) {
	svc, root := newTestFiles(t)

	require.NoError(t, svc.Upload("", "a.txt", b64("one")))
	require.NoError(t, svc.Upload("", "a.txt", b64("two")))

	data, err := os.ReadFile(filepath.Join(root, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileManagerMissingPaths(t *testing.T) {
	svc, _ := newTestFiles(t)

	listing, err := svc.List("not/yet")
	require.NoError(t, err)
	assert.Empty(t, listing.Entries)
	assert.Equal(t, "not/yet", listing.Path)

	assert.ErrorIs(t, svc.Delete("ghost.txt"), ErrNotFound)
	assert.ErrorIs(t, svc.CreateFolder("", "  "), ErrNameRequired)
}

func TestListFileIsNotADirectory(t *testing.T) {
	svc, _ := newTestFiles(t)
	require.NoError(t, svc.Upload("", "a.txt", b64("a")))

	_, err := svc.List("a.txt")
	assert.ErrorIs(t, err, ErrNotADirectory)
}

func TestDiskUsage(t *testing.T) {
	svc, _ := newTestFiles(t)

	usage, err := svc.Usage()
	require.NoError(t, err)
	assert.Positive(t, usage.Total)
	assert.NotEmpty(t, usage.TotalHuman)
}
