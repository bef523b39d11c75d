package playlists

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/index"
	"github.com/medleyhq/medley/internal/logger"
	"github.com/medleyhq/medley/internal/store"
)

// Service implements the playlist core boundary: loading a user's
// collection through the resolver and applying mutations as
// normalize-then-persist cycles.
//
// Every mutation persists synchronously through the resolver before
// returning, so a caller observing success has a durability
// guarantee. There is no optimistic concurrency control: two sessions
// mutating the same user concurrently are last-writer-wins, and the
// earlier write is lost. That is an accepted, documented limitation
// of the storage model, not something the core papers over.
type Service struct {
	resolver    *store.Resolver
	cache       *index.CollectionCache
	logger      logger.Logger
	saveTimeout time.Duration

	// Serializes mutations per user within this process. The UI
	// already prevents overlapping mutations in one session; this
	// keeps overlapping requests from racing on shared state.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewService builds the playlist service. saveTimeout bounds each
// persistence write so a hung storage backend surfaces as a write
// failure instead of a stuck request.
func NewService(resolver *store.Resolver, cache *index.CollectionCache, log logger.Logger, saveTimeout time.Duration) *Service {
	if saveTimeout <= 0 {
		saveTimeout = 5 * time.Second
	}
	return &Service{
		resolver:    resolver,
		cache:       cache,
		logger:      log,
		saveTimeout: saveTimeout,
		userLocks:   make(map[string]*sync.Mutex),
	}
}

// lockUser serializes on the case-folded username: every casing of
// one user contends on the same lock, matching cache identity.
func (s *Service) lockUser(username string) func() {
	key := strings.ToLower(username)

	s.mu.Lock()
	l, ok := s.userLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[key] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// LoadCollection returns the user's collection, resolving it from
// storage on first access and caching it (with its source tag) for
// subsequent calls. A collection always exists: a user with no stored
// data gets an empty one tagged with the default location.
func (s *Service) LoadCollection(ctx context.Context, username string) *index.Collection {
	unlock := s.lockUser(username)
	defer unlock()
	return s.loadLocked(ctx, username)
}

func (s *Service) loadLocked(ctx context.Context, username string) *index.Collection {
	if col, ok := s.cache.Get(username); ok {
		return col
	}

	tag, playlists := s.resolver.Resolve(ctx, username)
	col := &index.Collection{
		Username:  username,
		Source:    tag,
		Playlists: playlists,
		LoadedAt:  time.Now(),
	}
	if len(playlists) > 0 {
		col.ActiveID = playlists[0].ID
	}
	s.cache.Put(col)

	s.logger.Info("loaded playlist collection",
		logger.String("username", username),
		logger.String("source", string(tag)),
		logger.Int("playlists", len(playlists)))
	return col
}

// CreatePlaylist adds a new empty playlist at the front of the
// collection and makes it active. The name must not trim to empty and
// must be unique (case-insensitive) within the collection.
func (s *Service) CreatePlaylist(ctx context.Context, username, name string) (domain.Playlist, error) {
	unlock := s.lockUser(username)
	defer unlock()

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return domain.Playlist{}, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	col := s.loadLocked(ctx, username)
	if findByName(col.Playlists, trimmed) >= 0 {
		return domain.Playlist{}, &domain.DuplicateNameError{Name: trimmed}
	}

	pl := domain.Playlist{
		ID:        domain.NewPlaylistID(),
		Name:      trimmed,
		CreatedAt: time.Now().UnixMilli(),
		Videos:    []domain.VideoEntry{},
	}

	next := append([]domain.Playlist{pl}, col.Playlists...)
	if err := s.persist(ctx, col, next); err != nil {
		return domain.Playlist{}, err
	}
	col.ActiveID = pl.ID

	s.logger.Info("created playlist",
		logger.String("username", username),
		logger.String("playlist_id", pl.ID),
		logger.String("name", pl.Name))
	return pl, nil
}

// RenamePlaylist changes a playlist's name in place; the id is stable
// across renames. Renaming a missing playlist is a no-op returning
// nil. Name validation matches CreatePlaylist.
func (s *Service) RenamePlaylist(ctx context.Context, username, id, name string) (*domain.Playlist, error) {
	unlock := s.lockUser(username)
	defer unlock()

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}

	col := s.loadLocked(ctx, username)
	pos := findByID(col.Playlists, id)
	if pos < 0 {
		s.logger.Warn("rename of unknown playlist ignored",
			logger.String("username", username),
			logger.String("playlist_id", id))
		return nil, nil
	}
	if dup := findByName(col.Playlists, trimmed); dup >= 0 && dup != pos {
		return nil, &domain.DuplicateNameError{Name: trimmed}
	}

	next := clonePlaylists(col.Playlists)
	next[pos].Name = trimmed
	if err := s.persist(ctx, col, next); err != nil {
		return nil, err
	}

	renamed := col.Playlists[pos]
	return &renamed, nil
}

// DeletePlaylist removes a playlist. Deleting an unknown id is a
// silent no-op. confirmed is the caller's confirmation signal (a
// UI-level gate the core exposes as a hook): an unconfirmed delete is
// rejected before anything is touched. When the deleted playlist was
// active, the next-active selection falls to the first remaining
// playlist, or to none if the collection is now empty.
func (s *Service) DeletePlaylist(ctx context.Context, username, id string, confirmed bool) error {
	if !confirmed {
		return &domain.ValidationError{Field: "confirm", Reason: "deletion requires confirmation"}
	}

	unlock := s.lockUser(username)
	defer unlock()

	col := s.loadLocked(ctx, username)
	pos := findByID(col.Playlists, id)
	if pos < 0 {
		return nil
	}

	next := make([]domain.Playlist, 0, len(col.Playlists)-1)
	next = append(next, col.Playlists[:pos]...)
	next = append(next, col.Playlists[pos+1:]...)

	if err := s.persist(ctx, col, next); err != nil {
		return err
	}

	if col.ActiveID == id {
		if len(next) > 0 {
			col.ActiveID = next[0].ID
		} else {
			col.ActiveID = ""
		}
	}

	s.logger.Info("deleted playlist",
		logger.String("username", username),
		logger.String("playlist_id", id),
		logger.String("next_active", col.ActiveID))
	return nil
}

// AddVideo normalizes the raw record and appends it to the playlist.
// A videoId already present in the playlist makes the call a no-op
// reporting DuplicateVideoError; the stored entry count for that id
// stays exactly one. Adding to an unknown playlist is absorbed as a
// no-op returning nil, like RenamePlaylist.
func (s *Service) AddVideo(ctx context.Context, username, playlistID string, raw map[string]any) (*domain.VideoEntry, error) {
	unlock := s.lockUser(username)
	defer unlock()

	col := s.loadLocked(ctx, username)
	pos := findByID(col.Playlists, playlistID)
	if pos < 0 {
		s.logger.Warn("add to unknown playlist ignored",
			logger.String("username", username),
			logger.String("playlist_id", playlistID))
		return nil, nil
	}

	entry := domain.NormalizeVideo(raw)
	if col.Playlists[pos].ContainsVideo(entry.VideoID) {
		return nil, &domain.DuplicateVideoError{VideoID: entry.VideoID}
	}

	next := clonePlaylists(col.Playlists)
	next[pos].Videos = append(next[pos].Videos, entry)
	if err := s.persist(ctx, col, next); err != nil {
		return nil, err
	}

	s.logger.Info("added video",
		logger.String("username", username),
		logger.String("playlist_id", playlistID),
		logger.String("video_id", entry.VideoID),
		logger.Bool("local", entry.IsLocal))
	return &entry, nil
}

// RemoveVideo removes every entry matching videoId from the playlist.
// Missing playlist or video are harmless no-ops.
func (s *Service) RemoveVideo(ctx context.Context, username, playlistID, videoID string) error {
	unlock := s.lockUser(username)
	defer unlock()

	col := s.loadLocked(ctx, username)
	pos := findByID(col.Playlists, playlistID)
	if pos < 0 {
		return nil
	}

	kept := make([]domain.VideoEntry, 0, len(col.Playlists[pos].Videos))
	for _, v := range col.Playlists[pos].Videos {
		if v.VideoID != videoID {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(col.Playlists[pos].Videos) {
		return nil
	}

	next := clonePlaylists(col.Playlists)
	next[pos].Videos = kept
	return s.persist(ctx, col, next)
}

// SetActive switches the active playlist selection. Selection is
// session state, not stored data: it lives in the cached collection
// and is never persisted. Unknown ids report NotFoundError so the
// caller can clear its reference.
func (s *Service) SetActive(ctx context.Context, username, id string) error {
	unlock := s.lockUser(username)
	defer unlock()

	col := s.loadLocked(ctx, username)
	if findByID(col.Playlists, id) < 0 {
		return &domain.NotFoundError{Kind: "playlist", ID: id}
	}
	col.ActiveID = id
	return nil
}

// RenderView is the pure read projection of the core boundary:
// filter and sort one playlist's videos for display without touching
// stored order. Unknown playlist ids surface NotFoundError (reads,
// unlike mutations, do report missing references).
func (s *Service) RenderView(ctx context.Context, username, playlistID string, view domain.View) ([]domain.VideoEntry, error) {
	unlock := s.lockUser(username)
	defer unlock()

	col := s.loadLocked(ctx, username)
	pos := findByID(col.Playlists, playlistID)
	if pos < 0 {
		return nil, &domain.NotFoundError{Kind: "playlist", ID: playlistID}
	}
	return domain.RenderView(col.Playlists[pos], view), nil
}

// persist writes the candidate collection through the resolver under
// the save timeout, committing it to the cached collection only on
// success. On failure the in-memory state keeps its pre-mutation
// value, so a failed mutation leaves nothing half-applied.
func (s *Service) persist(ctx context.Context, col *index.Collection, next []domain.Playlist) error {
	ctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	if err := s.resolver.SaveTo(ctx, col.Source, col.Username, next); err != nil {
		s.logger.Error("playlist persistence failed",
			logger.String("username", col.Username),
			logger.String("source", string(col.Source)),
			logger.Error(err))
		return err
	}
	col.Playlists = next
	return nil
}

func findByID(playlists []domain.Playlist, id string) int {
	for i := range playlists {
		if playlists[i].ID == id {
			return i
		}
	}
	return -1
}

func findByName(playlists []domain.Playlist, name string) int {
	for i := range playlists {
		if strings.EqualFold(playlists[i].Name, name) {
			return i
		}
	}
	return -1
}

// clonePlaylists copies the slice and each playlist's videos slice so
// a candidate mutation never aliases the committed state.
func clonePlaylists(playlists []domain.Playlist) []domain.Playlist {
	next := make([]domain.Playlist, len(playlists))
	copy(next, playlists)
	for i := range next {
		vids := make([]domain.VideoEntry, len(next[i].Videos))
		copy(vids, next[i].Videos)
		next[i].Videos = vids
	}
	return next
}
