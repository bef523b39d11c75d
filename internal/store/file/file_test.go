package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
}

func samplePlaylists() []domain.Playlist {
	return []domain.Playlist{
		{ID: "p1", Name: "Road Trip", CreatedAt: 1, Videos: []domain.VideoEntry{
			{VideoID: "v1", Title: "Song A", AddedAt: 2},
		}},
	}
}

func TestMappingLoad(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		wantErr error
		wantArr bool
	}{
		{
			name:    "entry present",
			content: `[{"username":"alice","playlists":[{"id":"p1","name":"x"}]}]`,
			wantArr: true,
		},
		{
			name:    "user absent",
			content: `[{"username":"bob","playlists":[]}]`,
			wantErr: store.ErrNoData,
		},
		{
			name:    "entry without playlists key",
			content: `[{"username":"alice"}]`,
			wantErr: store.ErrNoData,
		},
		{
			name:    "corrupt document",
			content: `{not json`,
			wantErr: &domain.StorageParseError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "playlists.json")
			writeFile(t, path, tt.content)

			raw, err := NewMapping(path).Load(ctx, "alice")
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("Load() error = %v", err)
				}
				if _, ok := raw.([]any); ok != tt.wantArr {
					t.Errorf("raw shape = %T, want array %v", raw, tt.wantArr)
				}
			case *domain.StorageParseError:
				var parseErr *domain.StorageParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("error = %v, want StorageParseError", err)
				}
			default:
				if err != want {
					t.Fatalf("error = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestMappingLoadMissingFile(t *testing.T) {
	m := NewMapping(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := m.Load(context.Background(), "alice"); err != store.ErrNoData {
		t.Errorf("error = %v, want ErrNoData", err)
	}
}

func TestMappingSavePreservesSiblings(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "playlists.json")
	writeFile(t, path, `[{"username":"bob","playlists":[{"id":"pb","name":"Bobs"}]}]`)

	m := NewMapping(path)
	if err := m.Save(ctx, "alice", samplePlaylists()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	var doc []map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document unreadable after save: %v", err)
	}
	if len(doc) != 2 {
		t.Fatalf("document has %d entries, want 2", len(doc))
	}

	// Bob's entry is untouched.
	for _, rec := range doc {
		if rec["username"] == "bob" {
			pls, _ := rec["playlists"].([]any)
			if len(pls) != 1 {
				t.Errorf("sibling entry disturbed: %v", rec)
			}
		}
	}

	// Alice's entry round-trips through load+canonicalize.
	raw, err := m.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load() after Save() error = %v", err)
	}
	got, ok := domain.CanonicalizeList(raw)
	if !ok || len(got) != 1 || got[0].Name != "Road Trip" {
		t.Errorf("round-trip = %+v ok=%v, want the saved playlist", got, ok)
	}
}

func TestMappingUsernameCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "playlists.json")
	writeFile(t, path, `[{"username":"Alice","playlists":[{"id":"p1","name":"x"}]}]`)

	m := NewMapping(path)
	if _, err := m.Load(ctx, "ALICE"); err != nil {
		t.Fatalf("Load() with different casing error = %v", err)
	}

	// A save under another casing updates the record, never forks it.
	if err := m.Save(ctx, "aLiCe", samplePlaylists()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	var doc []map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document unreadable after save: %v", err)
	}
	if len(doc) != 1 {
		t.Fatalf("document has %d entries, want 1", len(doc))
	}
	if doc[0]["username"] != "Alice" {
		t.Errorf("stored casing = %v, want the original record's", doc[0]["username"])
	}
}

func TestMappingSaveStartsFreshOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlists.json")
	m := NewMapping(path)

	if err := m.Save(context.Background(), "alice", samplePlaylists()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := m.Load(context.Background(), "alice"); err != nil {
		t.Errorf("Load() after first save error = %v", err)
	}
}

func TestRegistryLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	writeFile(t, path, `[
		{"username":"Alice","password":"$2a$hash","firstName":"Alice","playlists":[{"id":"p1","name":"x"}]},
		{"username":"bob","password":"$2a$hash2"}
	]`)

	r := NewRegistry(path)

	// Case-insensitive username match.
	raw, err := r.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := raw.([]any); !ok {
		t.Errorf("raw shape = %T, want array", raw)
	}

	// User exists but carries no playlists key.
	if _, err := r.Load(ctx, "bob"); err != store.ErrNoData {
		t.Errorf("error = %v, want ErrNoData for record without playlists", err)
	}
}

func TestRegistrySaveTouchesOnlyPlaylists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	writeFile(t, path, `[
		{"username":"alice","password":"secret-hash","firstName":"Alice","imageUrl":"a.png","playlists":[]},
		{"username":"bob","password":"other-hash"}
	]`)

	r := NewRegistry(path)
	if err := r.Save(ctx, "alice", samplePlaylists()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	var doc []map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document unreadable after save: %v", err)
	}

	for _, rec := range doc {
		switch rec["username"] {
		case "alice":
			if rec["password"] != "secret-hash" || rec["firstName"] != "Alice" || rec["imageUrl"] != "a.png" {
				t.Errorf("credential/profile fields disturbed: %v", rec)
			}
			pls, _ := rec["playlists"].([]any)
			if len(pls) != 1 {
				t.Errorf("playlists not replaced: %v", rec["playlists"])
			}
		case "bob":
			if rec["password"] != "other-hash" {
				t.Errorf("sibling record disturbed: %v", rec)
			}
			if _, exists := rec["playlists"]; exists {
				t.Errorf("sibling record gained a playlists key: %v", rec)
			}
		}
	}
}

func TestRegistrySaveUnknownUser(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	writeFile(t, path, `[{"username":"bob","password":"h"}]`)

	r := NewRegistry(path)
	if err := r.Save(context.Background(), "alice", samplePlaylists()); err != store.ErrNoData {
		t.Errorf("error = %v, want ErrNoData (registry never fabricates users)", err)
	}
}
