package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipart を組み立てて FileHeader を得る
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalImageStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	name, err := s.Save(fileHeader(t, "photo.PNG", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))

	got, err := os.ReadFile(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), got)
}

func TestSave_Rejects(t *testing.T) {
	s, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(fileHeader(t, "script.sh", []byte("echo")))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	big := fileHeader(t, "big.jpg", []byte("x"))
	big.Size = MaxImageBytes + 1
	_, err = s.Save(big)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestRemove(t *testing.T) {
	s, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	name, err := s.Save(fileHeader(t, "photo.jpg", []byte("jpg")))
	require.NoError(t, err)

	require.NoError(t, s.Remove(name))
	_, err = os.Stat(filepath.Join(s.Dir(), name))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// 2回目は何もしない
	assert.NoError(t, s.Remove(name))
	assert.Error(t, s.Remove("../etc/passwd"))
	assert.Error(t, s.Remove(""))
}
