package domain

import "fmt"

// ValidationError reports invalid user input (e.g. an empty playlist
// name). Recoverable: the caller should surface it for re-entry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DuplicateNameError reports a playlist name that already exists
// (case-insensitive) in the same collection.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("playlist name already exists: %q", e.Name)
}

// DuplicateVideoError reports an add of a videoId already present in
// the target playlist. The add is a no-op; this error carries the
// "already present" message to the caller.
type DuplicateVideoError struct {
	VideoID string
}

func (e *DuplicateVideoError) Error() string {
	return fmt.Sprintf("video already in playlist: %s", e.VideoID)
}

// NotFoundError reports a missing playlist or video reference.
// Mutations absorb it as a harmless no-op; it only surfaces on reads.
type NotFoundError struct {
	Kind string // "playlist" | "video" | "user"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// StorageParseError reports malformed persisted data at one probed
// location. The resolver recovers locally by falling through to the
// next location; it never propagates to callers.
type StorageParseError struct {
	Location string
	Err      error
}

func (e *StorageParseError) Error() string {
	return fmt.Sprintf("malformed data at %s: %v", e.Location, e.Err)
}

func (e *StorageParseError) Unwrap() error { return e.Err }

// PersistenceWriteError reports a failed write-back. Fatal to the
// triggering operation: a mutation returning success guarantees the
// new state is durable, so this error must never be swallowed.
type PersistenceWriteError struct {
	Location string
	Err      error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("failed to persist to %s: %v", e.Location, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Err }
