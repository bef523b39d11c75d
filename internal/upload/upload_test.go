package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/logger"
)

// multipartRequest builds a request carrying one file in the mp3file
// field, the way the browser form submits it.
func multipartRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(FieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func openUpload(t *testing.T, req *http.Request) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	require.NoError(t, req.ParseMultipartForm(1<<20))
	file, header, err := req.FormFile(FieldName)
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir, logger.NewNop())
	require.NoError(t, err)

	content := []byte("ID3 fake mp3 bytes")
	file, header := openUpload(t, multipartRequest(t, "My Song.mp3", content))

	saved, err := svc.Save(file, header)
	require.NoError(t, err)
	assert.Equal(t, "My Song.mp3", saved.OriginalName)
	assert.True(t, strings.HasPrefix(saved.FilePath, "/uploads/"), "FilePath = %q", saved.FilePath)
	assert.True(t, strings.HasSuffix(saved.FilePath, "My_Song.mp3"), "FilePath = %q", saved.FilePath)

	// The bytes landed on disk under the served name.
	onDisk := filepath.Join(dir, strings.TrimPrefix(saved.FilePath, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestSaveUniqueNames(t *testing.T) {
	svc, err := NewService(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	file1, header1 := openUpload(t, multipartRequest(t, "song.mp3", []byte("a")))
	file2, header2 := openUpload(t, multipartRequest(t, "song.mp3", []byte("b")))

	first, err := svc.Save(file1, header1)
	require.NoError(t, err)
	second, err := svc.Save(file2, header2)
	require.NoError(t, err)

	assert.NotEqual(t, first.FilePath, second.FilePath, "same original name must not collide")
}

func TestSaveRejectsNonMP3(t *testing.T) {
	svc, err := NewService(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	file, header := openUpload(t, multipartRequest(t, "script.sh", []byte("#!/bin/sh")))

	_, err = svc.Save(file, header)
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, FieldName, vErr.Field)
}

func TestSaveStripsPathComponents(t *testing.T) {
	svc, err := NewService(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	file, header := openUpload(t, multipartRequest(t, "../../etc/evil.mp3", []byte("x")))

	saved, err := svc.Save(file, header)
	require.NoError(t, err)
	assert.Equal(t, "evil.mp3", saved.OriginalName, "directory components must be dropped")
	assert.NotContains(t, saved.FilePath, "..")
}
