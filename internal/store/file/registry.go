package file

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/store"
)

// Registry is the user registry document (users.json): a JSON array
// of user records where each record optionally embeds a playlists
// array. Older client builds kept playlists here; the location stays
// readable and writable for those deployments.
//
// The registry is shared with the credential service, so a save must
// only ever touch the playlists key of the one matching record.
type Registry struct {
	mu   sync.Mutex
	path string
}

// NewRegistry creates a registry location backed by the given path.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

func (r *Registry) Tag() store.Tag { return store.TagRegistry }

// Load returns the raw embedded playlists value of the user's record.
// Usernames compare case-insensitively, consistent with registration.
func (r *Registry) Load(ctx context.Context, username string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := readArrayDoc(r.path, r.Tag())
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

// Save replaces the embedded playlists of the user's record. Every
// other field of the record (credentials, profile) and every other
// record stay byte-identical. The registry never fabricates user
// records: a save for an unknown user reports store.ErrNoData so the
// resolver can fall back to the default location.
func (r *Registry) Save(ctx context.Context, username string, playlists []domain.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := readArrayDoc(r.path, r.Tag())
	if err != nil {
		if errors.Is(err, store.ErrNoData) {
			return store.ErrNoData
		}
		return err
	}

	for _, rec := range doc {
		if strings.EqualFold(recordUsername(rec), username) {
			rec["playlists"] = playlists
			return writeArrayDoc(r.path, doc)
		}
	}
	return store.ErrNoData
}
