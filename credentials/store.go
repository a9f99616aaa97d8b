// Package credentials holds the client's durable credential state: the
// access token, the refresh token, and the cached user profile. It is a
// pure storage abstraction with no network access and no token validation.
package credentials

import (
	"encoding/json"

	"github.com/jrsteele09/go-skillgap-client/users"
	"github.com/pkg/errors"
)

// Store wraps a Repo with typed accessors for the three credential fields.
// It is injected into the transport and session layers by construction so
// tests can substitute a fake repo.
type Store struct {
	repo Repo
}

// NewStore creates a Store backed by the given repo.
func NewStore(repo Repo) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] repo is required")
	}
	return &Store{repo: repo}, nil
}

// AccessToken returns the stored access token, or "" if none is stored.
// Storage read failures are treated as absence.
func (s *Store) AccessToken() string {
	return s.get(KeyAccessToken)
}

// RefreshToken returns the stored refresh token, or "" if none is stored.
func (s *Store) RefreshToken() string {
	return s.get(KeyRefreshToken)
}

// SetAccessToken overwrites the stored access token.
func (s *Store) SetAccessToken(token string) error {
	return errors.Wrap(s.repo.Set(KeyAccessToken, token), "[Store.SetAccessToken] repo.Set")
}

// SetRefreshToken overwrites the stored refresh token.
func (s *Store) SetRefreshToken(token string) error {
	return errors.Wrap(s.repo.Set(KeyRefreshToken, token), "[Store.SetRefreshToken] repo.Set")
}

// SetTokens persists an access token and, when the server rotated it, the
// refresh token. An empty refreshToken leaves the stored one in place.
func (s *Store) SetTokens(accessToken, refreshToken string) error {
	if err := s.SetAccessToken(accessToken); err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}
	return s.SetRefreshToken(refreshToken)
}

// User returns the cached profile, or nil if none is stored or the cached
// payload cannot be decoded.
func (s *Store) User() *users.Profile {
	raw := s.get(KeyUserProfile)
	if raw == "" {
		return nil
	}
	var profile users.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil
	}
	return &profile
}

// SetUser caches the given profile as JSON.
func (s *Store) SetUser(profile *users.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "[Store.SetUser] marshal profile")
	}
	return errors.Wrap(s.repo.Set(KeyUserProfile, string(raw)), "[Store.SetUser] repo.Set")
}

// ClearAll removes all three credential fields atomically: no reader going
// through this store can observe a partially cleared state.
func (s *Store) ClearAll() error {
	return errors.Wrap(s.repo.DeleteAll(Keys...), "[Store.ClearAll] repo.DeleteAll")
}

// Close releases the underlying repo.
func (s *Store) Close() error {
	return s.repo.Close()
}

func (s *Store) get(key string) string {
	value, found, err := s.repo.Get(key)
	if err != nil || !found {
		return ""
	}
	return value
}
