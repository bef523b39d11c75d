package store

import (
	"context"
	"errors"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/logger"
)

// Resolver probes the configured storage locations in a fixed order
// and remembers nothing itself: it returns the winning location's tag
// alongside the normalized collection, and callers hand that tag back
// on save.
//
// The first location containing a syntactically valid, array-shaped
// entry for the user wins. A location with malformed data (failed
// parse, or a non-array value) is treated as absent and probing
// continues; nothing here ever raises to the caller.
type Resolver struct {
	locations []Location
	logger    logger.Logger
}

// NewResolver builds a resolver over the given locations, probed in
// argument order. The first location is also the default write target
// when nothing was found on load.
func NewResolver(log logger.Logger, locations ...Location) *Resolver {
	return &Resolver{locations: locations, logger: log}
}

// DefaultTag is the tag used when no location held data for a user.
func (r *Resolver) DefaultTag() Tag {
	return r.locations[0].Tag()
}

// Resolve locates the user's playlists and returns them normalized,
// together with the source tag for later write-back.
func (r *Resolver) Resolve(ctx context.Context, username string) (Tag, []domain.Playlist) {
	for _, loc := range r.locations {
		raw, err := loc.Load(ctx, username)
		if err != nil {
			if !errors.Is(err, ErrNoData) {
				r.logger.Warn("skipping unreadable playlist location",
					logger.String("location", string(loc.Tag())),
					logger.String("username", username),
					logger.Error(err))
			}
			continue
		}

		playlists, ok := domain.CanonicalizeList(raw)
		if !ok {
			r.logger.Warn("playlist entry is not array-shaped, treating location as absent",
				logger.String("location", string(loc.Tag())),
				logger.String("username", username))
			continue
		}

		r.logger.Debug("resolved playlist collection",
			logger.String("location", string(loc.Tag())),
			logger.String("username", username),
			logger.Int("playlists", len(playlists)))
		return loc.Tag(), playlists
	}

	return r.DefaultTag(), []domain.Playlist{}
}

// SaveTo writes the full normalized collection back to the location
// named by tag. An unknown tag falls back to the default location; a
// location that can no longer anchor the user (ErrNoData) also falls
// back, matching how older builds recovered when a registry record
// vanished between load and save.
func (r *Resolver) SaveTo(ctx context.Context, tag Tag, username string, playlists []domain.Playlist) error {
	loc := r.locationFor(tag)

	err := loc.Save(ctx, username, playlists)
	if errors.Is(err, ErrNoData) && loc.Tag() != r.DefaultTag() {
		r.logger.Warn("write target lost its anchor record, falling back to default location",
			logger.String("location", string(tag)),
			logger.String("username", username))
		loc = r.locations[0]
		err = loc.Save(ctx, username, playlists)
	}
	if err != nil {
		return &domain.PersistenceWriteError{Location: string(loc.Tag()), Err: err}
	}
	return nil
}

func (r *Resolver) locationFor(tag Tag) Location {
	for _, loc := range r.locations {
		if loc.Tag() == tag {
			return loc
		}
	}
	return r.locations[0]
}
