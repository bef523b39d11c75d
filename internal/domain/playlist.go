package domain

// Playlist is the canonical runtime truth of one named playlist.
//
// It is NOT tied to any storage location or client build. All inputs
// (standalone mapping documents, user-registry documents, remote
// store) are normalized into this structure before anything else in
// the system touches them.
//
// A Playlist is uniquely identified by its ID within one user's
// collection. The ID is immutable once assigned and never reused
// after deletion.
type Playlist struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, stable across renames.
	// Example: pl_9f8a3c21
	ID string `json:"id"`

	// ─────────────────────────────
	// Functional description
	// ─────────────────────────────

	// Name is the user-chosen display name. Non-empty; unique
	// (case-insensitive) among one user's playlists.
	Name string `json:"name"`

	// CreatedAt is the creation time in Unix milliseconds.
	CreatedAt int64 `json:"createdAt"`

	// Videos holds the entries in insertion order. Insertion order is
	// the canonical base order; any display ordering is derived by the
	// view engine and never written back.
	Videos []VideoEntry `json:"videos"`
}

// VideoEntry is one saved item inside a playlist: either a remote
// video identified by its source-specific id, or a locally uploaded
// audio file.
type VideoEntry struct {
	// VideoID is the source-specific identifier. Unique within a
	// single playlist, not globally.
	VideoID string `json:"videoId"`

	// Title is the display title.
	Title string `json:"title"`

	// Thumbnail is a thumbnail URL, possibly empty.
	Thumbnail string `json:"thumbnail"`

	// Duration is a display string like "3:42". Optional.
	Duration string `json:"duration"`

	// Views is a display string like "1,024,555". Optional.
	Views string `json:"views"`

	// Rating is a numeric rating, 0 when unrated.
	Rating float64 `json:"rating"`

	// AddedAt is the time the entry was added, Unix milliseconds.
	AddedAt int64 `json:"addedAt"`

	// IsLocal marks an uploaded-audio entry as opposed to a remote
	// video entry.
	IsLocal bool `json:"isLocal,omitempty"`

	// FilePath is the served path of the uploaded file. Present only
	// when IsLocal is true.
	FilePath string `json:"filePath,omitempty"`
}

// User is the profile shape the playlist core sees. Credentials are
// owned by the auth service; the core treats Username purely as a
// foreign key for collection ownership.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Account couples a user profile with its stored credential hash.
// Only the auth service handles this shape; everything else works
// with User.
type Account struct {
	User         User
	PasswordHash string
}

// ContainsVideo reports whether the playlist already holds an entry
// with the given videoId.
func (p *Playlist) ContainsVideo(videoID string) bool {
	for i := range p.Videos {
		if p.Videos[i].VideoID == videoID {
			return true
		}
	}
	return false
}
