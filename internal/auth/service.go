package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/logger"
	"github.com/medleyhq/medley/internal/store"
	"github.com/medleyhq/medley/internal/store/file"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

var (
	// ErrUsernameTaken reports a registration against an existing
	// username (case-insensitive).
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords, deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AccountStore is the slice of the user registry the auth service
// needs. *file.Registry satisfies it.
type AccountStore interface {
	FindAccount(ctx context.Context, username string) (domain.Account, error)
	CreateAccount(ctx context.Context, acct domain.Account) error
}

var _ AccountStore = (*file.Registry)(nil)

// Service handles registration and login against the user registry
// and hands out session tokens.
type Service struct {
	accounts AccountStore
	tokens   *TokenIssuer
	logger   logger.Logger
}

// NewService builds the auth service.
func NewService(accounts AccountStore, tokens *TokenIssuer, log logger.Logger) *Service {
	return &Service{accounts: accounts, tokens: tokens, logger: log}
}

// Register creates a user account and returns the profile with a
// fresh session token. Usernames are unique case-insensitively; the
// stored record keeps the caller's original casing.
func (s *Service) Register(ctx context.Context, username, password, firstName, imageURL string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, "", &domain.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(password) < MinPasswordLen {
		return domain.User{}, "", &domain.ValidationError{Field: "password", Reason: "too short"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, "", err
	}

	acct := domain.Account{
		User: domain.User{
			Username:  username,
			FirstName: strings.TrimSpace(firstName),
			ImageURL:  strings.TrimSpace(imageURL),
		},
		PasswordHash: string(hash),
	}
	if err := s.accounts.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, file.ErrAccountExists) {
			return domain.User{}, "", ErrUsernameTaken
		}
		return domain.User{}, "", err
	}

	token, err := s.tokens.Issue(acct.User.Username)
	if err != nil {
		return domain.User{}, "", err
	}

	s.logger.Info("registered user", logger.String("username", acct.User.Username))
	return acct.User, token, nil
}

// Login checks credentials and returns the profile with a fresh
// session token.
func (s *Service) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}

	acct, err := s.accounts.FindAccount(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNoData) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if acct.PasswordHash == "" {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(acct.User.Username)
	if err != nil {
		return domain.User{}, "", err
	}

	s.logger.Info("user logged in", logger.String("username", acct.User.Username))
	return acct.User, token, nil
}
