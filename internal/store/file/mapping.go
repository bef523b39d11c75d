package file

import (
	"context"
	"strings"
	"sync"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/store"
)

// Mapping is the standalone playlists document: a JSON array of
// {username, playlists} entries (playlists.json). This is the
// fallback write location for users no other location anchors.
type Mapping struct {
	mu   sync.Mutex
	path string
}

// NewMapping creates a mapping location backed by the given path.
func NewMapping(path string) *Mapping {
	return &Mapping{path: path}
}

func (m *Mapping) Tag() store.Tag { return store.TagMapping }

// Load returns the raw playlists value of the user's entry. Usernames
// compare case-insensitively, like the registry.
func (m *Mapping) Load(ctx context.Context, username string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := readArrayDoc(m.path, m.Tag())
	if err != nil {
		return nil, err
	}
	for _, rec := range doc {
		if strings.EqualFold(recordUsername(rec), username) {
			if pls, exists := rec["playlists"]; exists {
				return pls, nil
			}
			return nil, store.ErrNoData
		}
	}
	return nil, store.ErrNoData
}

// Save upserts the user's entry and rewrites the whole document,
// leaving every other user's entry untouched. A missing or unreadable
// document starts fresh, matching how the original server recovered
// from a corrupt playlists file.
func (m *Mapping) Save(ctx context.Context, username string, playlists []domain.Playlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := readArrayDoc(m.path, m.Tag())
	if err != nil {
		doc = []map[string]any{}
	}

	replaced := false
	for _, rec := range doc {
		if strings.EqualFold(recordUsername(rec), username) {
			rec["playlists"] = playlists
			replaced = true
			break
		}
	}
	if !replaced {
		doc = append(doc, map[string]any{
			"username":  username,
			"playlists": playlists,
		})
	}

	return writeArrayDoc(m.path, doc)
}
