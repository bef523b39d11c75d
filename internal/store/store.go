package store

import (
	"context"
	"errors"

	"github.com/medleyhq/medley/internal/domain"
)

// Tag identifies the storage location a user's playlists were loaded
// from. It is opaque to callers and must be handed back unchanged on
// save so writes land where reads came from (write-location affinity).
type Tag string

const (
	// TagMapping is the standalone document mapping usernames to
	// playlist arrays (playlists.json).
	TagMapping Tag = "mapping"

	// TagRegistry is the user registry document where each user record
	// optionally embeds a playlists array (users.json).
	TagRegistry Tag = "registry"

	// TagRemote is the remote redis mapping.
	TagRemote Tag = "remote"
)

// ErrNoData reports that a location holds no entry for the user. The
// resolver treats it as "keep probing"; it is not a failure.
var ErrNoData = errors.New("no playlist data for user")

// Location is one place a deployment may keep a user's playlists.
type Location interface {
	// Tag returns the location's identity for write-back affinity.
	Tag() Tag

	// Load returns the user's raw playlist value as decoded JSON
	// (whatever shape the location holds; the resolver normalizes).
	// Returns ErrNoData when the location has no entry for the user,
	// and *domain.StorageParseError when the stored document is
	// unreadable.
	Load(ctx context.Context, username string) (any, error)

	// Save replaces the user's playlists with the given canonical
	// collection, in this location's expected shape. Sibling data in
	// shared documents (other users' records and fields) must be left
	// untouched. Returns ErrNoData when the location cannot accept the
	// write because the user's anchor record is gone.
	Save(ctx context.Context, username string, playlists []domain.Playlist) error
}
