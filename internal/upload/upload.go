// Package upload stores user-provided MP3 files and hands back the
// served path a playlist entry references as its filePath.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/logger"
	"github.com/medleyhq/medley/internal/utils"
)

// FieldName is the multipart form field carrying the file.
const FieldName = "mp3file"

// MaxFileSize caps uploads at 50 MiB.
const MaxFileSize = 50 << 20

// Saved describes a stored upload. FilePath is the URL path the file
// is served under, not a filesystem path.
type Saved struct {
	FilePath     string `json:"filePath"`
	OriginalName string `json:"originalName"`
}

// Service writes uploads into a directory served under /uploads/.
type Service struct {
	dir    string
	logger logger.Logger
}

// NewService builds the upload service, creating the directory if
// needed.
func NewService(dir string, log logger.Logger) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Service{dir: dir, logger: log}, nil
}

// Dir returns the directory uploads land in, for static serving.
func (s *Service) Dir() string { return s.dir }

// Save stores one uploaded file under a unique name and returns its
// served path with the original name. Only .mp3 files are accepted.
func (s *Service) Save(file multipart.File, header *multipart.FileHeader) (Saved, error) {
	original := filepath.Base(header.Filename)
	if original == "" || original == "." {
		return Saved{}, &domain.ValidationError{Field: FieldName, Reason: "missing file name"}
	}
	if !strings.EqualFold(filepath.Ext(original), ".mp3") {
		return Saved{}, &domain.ValidationError{Field: FieldName, Reason: "only mp3 files are accepted"}
	}
	if header.Size > MaxFileSize {
		return Saved{}, &domain.ValidationError{Field: FieldName, Reason: "file too large"}
	}

	// Unique prefix keeps repeated uploads of the same file apart.
	name := uuid.NewString()[:8] + "-" + sanitize(original)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return Saved{}, fmt.Errorf("creating upload file: %w", err)
	}
	defer utils.MustClose(dst)

	if _, err := io.Copy(dst, io.LimitReader(file, MaxFileSize)); err != nil {
		os.Remove(dst.Name())
		return Saved{}, fmt.Errorf("writing upload: %w", err)
	}

	s.logger.Info("stored upload",
		logger.String("file", name),
		logger.String("original", original))

	return Saved{
		FilePath:     "/uploads/" + name,
		OriginalName: original,
	}, nil
}

// sanitize strips characters that would break the served URL or the
// filesystem name.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
