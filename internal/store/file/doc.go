// Package file implements the file-backed playlist locations: the
// standalone username→playlists mapping document and the user
// registry document with embedded playlists. Both are JSON arrays on
// disk, written whole on every save with two-space indentation, the
// same layout the original data files used.
package file

import (
	"encoding/json"
	"os"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/store"
)

// readArrayDoc loads a JSON document expected to be an array of
// records. A missing file maps to store.ErrNoData; a document that
// fails to parse or is not an array maps to *domain.StorageParseError.
func readArrayDoc(path string, location store.Tag) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNoData
		}
		return nil, &domain.StorageParseError{Location: string(location), Err: err}
	}

	var doc []map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &domain.StorageParseError{Location: string(location), Err: err}
	}
	return doc, nil
}

// writeArrayDoc replaces the document on disk. Indented output keeps
// the files hand-inspectable.
func writeArrayDoc(path string, doc []map[string]any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// recordUsername extracts the username key of a record, empty when
// absent or not a string.
func recordUsername(rec map[string]any) string {
	s, _ := rec["username"].(string)
	return s
}
