package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Alias precedence per canonical field, primary name first. Older
// client builds of the app wrote records under these alternate keys;
// resolution happens once here so the rest of the system only ever
// sees the canonical schema.
var (
	playlistIDAliases = []string{"id", "playlistId"}
	videoIDAliases    = []string{"videoId", "id", "youtubeId"}
	titleAliases      = []string{"title", "videoTitle"}
	thumbnailAliases  = []string{"thumbnail", "thumb", "image"}
	durationAliases   = []string{"duration", "videoDuration"}
	viewsAliases      = []string{"views", "viewCount"}
	addedAtAliases    = []string{"addedAt", "savedAt", "createdAt"}
)

// Defaults applied when no alias carries a usable value.
const (
	DefaultPlaylistName = "Unnamed Playlist"
	DefaultVideoTitle   = "Untitled"
)

// Hooks for tests; production code never overrides these.
var (
	nowMillis = func() int64 { return time.Now().UnixMilli() }
	newID     = func() string { return "pl_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12] }
)

// NewPlaylistID returns a fresh opaque playlist id.
func NewPlaylistID() string { return newID() }

// NormalizePlaylist canonicalizes a raw playlist record of unknown
// shape. It never fails: malformed fields coerce to their documented
// defaults, a missing id gets a freshly generated one, and a missing
// createdAt gets the current time. Normalizing an already-canonical
// record yields an identical record.
func NormalizePlaylist(raw map[string]any) Playlist {
	p := Playlist{
		ID:        coerceString(pick(raw, playlistIDAliases)),
		Name:      coerceString(raw["name"]),
		CreatedAt: coerceMillis(raw["createdAt"]),
		Videos:    []VideoEntry{},
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Name == "" {
		p.Name = DefaultPlaylistName
	}
	if p.CreatedAt <= 0 {
		p.CreatedAt = nowMillis()
	}

	if vids, ok := raw["videos"].([]any); ok {
		p.Videos = make([]VideoEntry, 0, len(vids))
		for _, v := range vids {
			if m, ok := asRecord(v); ok {
				p.Videos = append(p.Videos, NormalizeVideo(m))
			}
		}
	}
	return p
}

// NormalizeVideo canonicalizes a raw video record. Same guarantees as
// NormalizePlaylist: total, default-filling, idempotent.
func NormalizeVideo(raw map[string]any) VideoEntry {
	v := VideoEntry{
		VideoID:   coerceString(pick(raw, videoIDAliases)),
		Title:     coerceString(pick(raw, titleAliases)),
		Thumbnail: coerceString(pick(raw, thumbnailAliases)),
		Duration:  coerceString(pick(raw, durationAliases)),
		Views:     coerceString(pick(raw, viewsAliases)),
		Rating:    coerceFloat(raw["rating"]),
		AddedAt:   coerceMillis(pick(raw, addedAtAliases)),
		IsLocal:   coerceBool(raw["isLocal"]),
	}
	if v.Title == "" {
		v.Title = DefaultVideoTitle
	}
	if v.AddedAt <= 0 {
		v.AddedAt = nowMillis()
	}
	// filePath only makes sense for uploaded entries.
	if v.IsLocal {
		v.FilePath = coerceString(raw["filePath"])
	}
	return v
}

// CanonicalizeList normalizes a decoded JSON value expected to be an
// array of playlist records. ok is false when the value is not
// array-shaped; the resolver treats that location as absent.
func CanonicalizeList(raw any) (playlists []Playlist, ok bool) {
	arr, isArr := raw.([]any)
	if !isArr {
		return nil, false
	}
	playlists = make([]Playlist, 0, len(arr))
	for _, item := range arr {
		if m, isRec := asRecord(item); isRec {
			playlists = append(playlists, NormalizePlaylist(m))
		}
	}
	return playlists, true
}

// pick returns the first alias whose value is present and non-empty.
func pick(raw map[string]any, aliases []string) any {
	for _, key := range aliases {
		if v, exists := raw[key]; exists && !isEmpty(v) {
			return v
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}

func asRecord(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// coerceString renders text-ish values as strings. Numbers are
// formatted (JSON decodes them as float64, so integral values drop
// the fraction); anything else coerces to the empty string.
func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

// coerceFloat parses numeric input, including numeric strings.
// Non-numeric or missing input coerces to 0; it never fails.
func coerceFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return 0
}

// coerceMillis parses a timestamp as Unix milliseconds. Accepts
// numbers, numeric strings and RFC3339 strings (older builds stored
// createdAt as an ISO string). Unusable input yields 0, which the
// callers treat as missing.
func coerceMillis(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts.UnixMilli()
		}
	}
	return 0
}

// coerceBool accepts booleans and their common string/number spellings.
func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	case float64:
		return t != 0
	}
	return false
}
