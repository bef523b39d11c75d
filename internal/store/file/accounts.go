package file

import (
	"context"
	"errors"
	"strings"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/store"
)

// ErrAccountExists is returned by CreateAccount when a record with the
// same username (case-insensitive) is already present.
var ErrAccountExists = errors.New("account already exists")

// FindAccount returns the account of the matching user record, or
// store.ErrNoData when no record matches. Usernames compare
// case-insensitively.
func (r *Registry) FindAccount(ctx context.Context, username string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := readArrayDoc(r.path, r.Tag())
	if err != nil {
		return domain.Account{}, err
	}
	for _, rec := range doc {
		if strings.EqualFold(recordUsername(rec), username) {
			return accountFromRecord(rec), nil
		}
	}
	return domain.Account{}, store.ErrNoData
}

// CreateAccount appends a new user record to the registry document.
// The record is created with an empty playlists array so the playlist
// resolver immediately finds an anchor for registry-affine writes.
// Existing records are never touched.
func (r *Registry) CreateAccount(ctx context.Context, acct domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := readArrayDoc(r.path, r.Tag())
	if err != nil {
		if !errors.Is(err, store.ErrNoData) {
			return err
		}
		doc = []map[string]any{}
	}

	for _, rec := range doc {
		if strings.EqualFold(recordUsername(rec), acct.User.Username) {
			return ErrAccountExists
		}
	}

	rec := map[string]any{
		"username":  acct.User.Username,
		"password":  acct.PasswordHash,
		"playlists": []any{},
	}
	if acct.User.FirstName != "" {
		rec["firstName"] = acct.User.FirstName
	}
	if acct.User.ImageURL != "" {
		rec["imageUrl"] = acct.User.ImageURL
	}

	return writeArrayDoc(r.path, append(doc, rec))
}

func accountFromRecord(rec map[string]any) domain.Account {
	str := func(key string) string {
		s, _ := rec[key].(string)
		return s
	}
	return domain.Account{
		User: domain.User{
			Username:  str("username"),
			FirstName: str("firstName"),
			ImageURL:  str("imageUrl"),
		},
		PasswordHash: str("password"),
	}
}
