package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medleyhq/medley/internal/auth"
	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/httpserver/deps"
	"github.com/medleyhq/medley/internal/httpserver/routes"
	"github.com/medleyhq/medley/internal/index"
	"github.com/medleyhq/medley/internal/logger"
	"github.com/medleyhq/medley/internal/playlists"
	"github.com/medleyhq/medley/internal/search"
	"github.com/medleyhq/medley/internal/store"
	"github.com/medleyhq/medley/internal/store/file"
	"github.com/medleyhq/medley/internal/upload"
)

// newTestRouter wires the whole API against temp-dir storage.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	log := logger.NewNop()

	registry := file.NewRegistry(filepath.Join(dir, "users.json"))
	mapping := file.NewMapping(filepath.Join(dir, "playlists.json"))
	resolver := store.NewResolver(log, mapping, registry)
	cache := index.NewCollectionCache()

	tokens := auth.NewTokenIssuer("handlers-test-secret", time.Hour)
	uploads, err := upload.NewService(filepath.Join(dir, "uploads"), log)
	require.NoError(t, err)

	d := deps.Deps{
		Logger:         log,
		StartTime:      time.Now(),
		Auth:           auth.NewService(registry, tokens, log),
		Tokens:         tokens,
		Playlists:      playlists.NewService(resolver, cache, log, time.Second),
		Search:         search.NewClient(search.Config{}, log),
		Uploads:        uploads,
		Cache:          cache,
		AuthRatePerMin: 600,
		AuthRateBurst:  100,
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

type session struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func registerUser(t *testing.T, h http.Handler, username string) session {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"username": username, "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[session](t, rec)
}

func TestAuthEndpoints(t *testing.T) {
	h := newTestRouter(t)

	sess := registerUser(t, h, "alice")
	assert.Equal(t, "alice", sess.User.Username)
	assert.NotEmpty(t, sess.Token)

	// Duplicate registration conflicts.
	rec := doJSON(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"username": "ALICE", "password": "whatever99",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Login with wrong password is a 401.
	rec = doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice", "password": "hunter22",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlaylistEndpointsRequireAuth(t *testing.T) {
	h := newTestRouter(t)
	alice := registerUser(t, h, "alice")
	registerUser(t, h, "bob")

	// No token.
	rec := doJSON(t, h, http.MethodGet, "/api/playlists/alice/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Alice's token cannot touch Bob's collection.
	rec = doJSON(t, h, http.MethodGet, "/api/playlists/bob/", alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type collectionResp struct {
	Playlists []domain.Playlist `json:"playlists"`
	ActiveID  string            `json:"activeId"`
	Source    string            `json:"source"`
}

func TestPlaylistLifecycle(t *testing.T) {
	h := newTestRouter(t)
	sess := registerUser(t, h, "alice")
	token := sess.Token

	// Registration seeds an empty playlists array in users.json, so a
	// fresh account's collection anchors at the registry.
	rec := doJSON(t, h, http.MethodGet, "/api/playlists/alice/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	col := decode[collectionResp](t, rec)
	assert.Empty(t, col.Playlists)
	assert.Equal(t, "registry", col.Source)

	// Create.
	rec = doJSON(t, h, http.MethodPost, "/api/playlists/alice/", token, map[string]string{"name": "Road Trip"})
	require.Equal(t, http.StatusCreated, rec.Code)
	pl := decode[domain.Playlist](t, rec)
	assert.NotEmpty(t, pl.ID)

	// Blank name rejected, duplicate name conflicts.
	rec = doJSON(t, h, http.MethodPost, "/api/playlists/alice/", token, map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/api/playlists/alice/", token, map[string]string{"name": "road trip"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Add a video, in legacy field names to exercise normalization.
	rec = doJSON(t, h, http.MethodPost, "/api/playlists/alice/"+pl.ID+"/videos", token, map[string]any{
		"youtubeId": "v1", "videoTitle": "Song A", "thumb": "a.jpg",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	entry := decode[domain.VideoEntry](t, rec)
	assert.Equal(t, "v1", entry.VideoID)
	assert.Equal(t, "Song A", entry.Title)

	// Duplicate videoId conflicts.
	rec = doJSON(t, h, http.MethodPost, "/api/playlists/alice/"+pl.ID+"/videos", token, map[string]any{
		"videoId": "v1", "title": "Song A again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Adding into an unknown playlist is absorbed, not a create.
	rec = doJSON(t, h, http.MethodPost, "/api/playlists/alice/pl_missing/videos", token, map[string]any{
		"videoId": "vx", "title": "Nowhere",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	noop := decode[map[string]bool](t, rec)
	assert.True(t, noop["ok"], "no-op add must answer the ok shape, body: %s", rec.Body.String())

	// Rename keeps the id.
	rec = doJSON(t, h, http.MethodPut, "/api/playlists/alice/"+pl.ID+"/", token, map[string]string{"name": "Long Drive"})
	require.Equal(t, http.StatusOK, rec.Code)
	renamed := decode[domain.Playlist](t, rec)
	assert.Equal(t, pl.ID, renamed.ID)
	assert.Equal(t, "Long Drive", renamed.Name)

	// Unconfirmed delete is rejected and removes nothing.
	rec = doJSON(t, h, http.MethodDelete, "/api/playlists/alice/"+pl.ID+"/", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/playlists/alice/"+pl.ID+"/?confirm=true", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/playlists/alice/", token, nil)
	col = decode[collectionResp](t, rec)
	assert.Empty(t, col.Playlists)
}

func TestPlaylistUsernameCaseFolding(t *testing.T) {
	h := newTestRouter(t)
	sess := registerUser(t, h, "Alice")
	token := sess.Token

	// Warm the collection under a different casing first.
	rec := doJSON(t, h, http.MethodGet, "/api/playlists/ALICE/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/playlists/Alice/", token, map[string]string{"name": "Road Trip"})
	require.Equal(t, http.StatusCreated, rec.Code)
	pl := decode[domain.Playlist](t, rec)

	// Every casing of the path is the same collection, so the
	// duplicate-name check still holds.
	rec = doJSON(t, h, http.MethodPost, "/api/playlists/ALICE/", token, map[string]string{"name": "Road Trip"})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/playlists/alice/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	col := decode[collectionResp](t, rec)
	require.Len(t, col.Playlists, 1, "one user must hold exactly one collection")
	assert.Equal(t, pl.ID, col.Playlists[0].ID)
}

type viewResp struct {
	Videos []domain.VideoEntry `json:"videos"`
	Total  int                 `json:"total"`
}

func TestPlaylistViewEndpoint(t *testing.T) {
	h := newTestRouter(t)
	sess := registerUser(t, h, "alice")
	token := sess.Token

	rec := doJSON(t, h, http.MethodPost, "/api/playlists/alice/", token, map[string]string{"name": "Mix"})
	require.Equal(t, http.StatusCreated, rec.Code)
	pl := decode[domain.Playlist](t, rec)

	for i, title := range []string{"Bravo", "Alpha", "Charlie"} {
		rec = doJSON(t, h, http.MethodPost, "/api/playlists/alice/"+pl.ID+"/videos", token, map[string]any{
			"videoId": fmt.Sprintf("v%d", i), "title": title,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// Sorted view.
	rec = doJSON(t, h, http.MethodGet, "/api/playlists/alice/"+pl.ID+"/view?sort=az", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[viewResp](t, rec)
	require.Equal(t, 3, view.Total)
	assert.Equal(t, "Alpha", view.Videos[0].Title)

	// Filtered view.
	rec = doJSON(t, h, http.MethodGet, "/api/playlists/alice/"+pl.ID+"/view?filter=ha", token, nil)
	view = decode[viewResp](t, rec)
	assert.Equal(t, 2, view.Total, "Alpha and Charlie contain 'ha'")

	// The stored order is untouched after sorted/filtered views.
	rec = doJSON(t, h, http.MethodGet, "/api/playlists/alice/", token, nil)
	col := decode[collectionResp](t, rec)
	require.Len(t, col.Playlists, 1)
	assert.Equal(t, "Bravo", col.Playlists[0].Videos[0].Title)

	// Unknown playlist is a 404 on reads.
	rec = doJSON(t, h, http.MethodGet, "/api/playlists/alice/pl_missing/view", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchEndpointWithoutKey(t *testing.T) {
	h := newTestRouter(t)
	sess := registerUser(t, h, "alice")

	rec := doJSON(t, h, http.MethodGet, "/api/search?q=some+song", sess.Token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "text search needs an API key")

	rec = doJSON(t, h, http.MethodGet, "/api/search?q=", sess.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadEndpoint(t *testing.T) {
	h := newTestRouter(t)
	sess := registerUser(t, h, "alice")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(upload.FieldName, "tune.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("ID3 bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[upload.Saved](t, rec)
	assert.Equal(t, "tune.mp3", saved.OriginalName)

	// The uploaded file is served back under its filePath.
	getReq := httptest.NewRequest(http.MethodGet, saved.FilePath, nil)
	getRec := httptest.NewRecorder()
	h.ServeHTTP(getRec, getReq)
	assert.Equal(t, http.StatusOK, getRec.Code)
	assert.Equal(t, "ID3 bytes", getRec.Body.String())
}

func TestInfraEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
