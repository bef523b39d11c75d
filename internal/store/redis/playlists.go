package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/store"
)

// Location is the remote playlist location: one redis key per user
// holding that user's playlist array as JSON. Deployments that share
// collections between hosts enable it in the storage layout.
type Location struct {
	client *goredis.Client
}

// NewLocation creates a redis-backed playlist location.
func NewLocation(client *goredis.Client) *Location {
	return &Location{client: client}
}

func (l *Location) Tag() store.Tag { return store.TagRemote }

// Load fetches and decodes the user's playlist array.
func (l *Location) Load(ctx context.Context, username string) (any, error) {
	data, err := l.client.Get(ctx, PlaylistsKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, store.ErrNoData
		}
		return nil, &domain.StorageParseError{Location: string(l.Tag()), Err: err}
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &domain.StorageParseError{Location: string(l.Tag()), Err: err}
	}
	return raw, nil
}

// Save replaces the user's playlist array and tracks the username in
// the shared set. Keys are per-user, so other users' data is
// untouched by construction.
func (l *Location) Save(ctx context.Context, username string, playlists []domain.Playlist) error {
	data, err := json.Marshal(playlists)
	if err != nil {
		return fmt.Errorf("failed to marshal playlists: %w", err)
	}

	pipe := l.client.Pipeline()
	pipe.Set(ctx, PlaylistsKey(username), data, 0)
	pipe.SAdd(ctx, AllUsersKey(), username)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save playlists: %w", err)
	}
	return nil
}

// Usernames lists all users with remote playlist data.
func (l *Location) Usernames(ctx context.Context) ([]string, error) {
	names, err := l.client.SMembers(ctx, AllUsersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list usernames: %w", err)
	}
	return names, nil
}
