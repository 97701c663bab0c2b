// Package credentials implements the persisted credential store: durable,
// origin-scoped storage for the bearer token and the last-known user profile.
//
// The store keeps one file for the token and one for the JSON-serialized
// profile snapshot under <dir>/<origin-slug>/. The cached profile is
// advisory only (it lets the session hydrate without a network round trip);
// the server remains the source of truth for token validity, so no expiry
// metadata is kept locally.
package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"distream/internal/models"
)

const (
	tokenFile   = "access_token"
	profileFile = "user.json"
)

// Store persists a bearer token and profile snapshot for a single API origin.
//
// Load never fails: malformed or missing data reads as absent. Clear is
// idempotent. Safe for concurrent use; the token may be read by in-flight
// requests while a login or a 401 handler mutates the store.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates a store rooted at dir, scoped to the given API origin.
func NewStore(dir, origin string) *Store {
	return &Store{dir: filepath.Join(dir, originSlug(origin))}
}

// originSlug converts an origin URL into a filesystem-safe directory name.
func originSlug(origin string) string {
	s := strings.TrimPrefix(origin, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.Trim(s, "/")
	replacer := strings.NewReplacer("/", "_", ":", "_", "?", "_", "&", "_")
	s = replacer.Replace(s)
	if s == "" {
		return "default"
	}
	return s
}

// Save durably writes the token and profile snapshot.
func (s *Store) Save(token string, profile models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0600); err != nil {
		return err
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.dir, profileFile), data, 0600)
}

// SaveToken replaces only the stored bearer token, leaving the cached
// profile untouched. Used when importing a token captured elsewhere.
func (s *Store) SaveToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0600)
}

// SaveProfile replaces only the cached profile snapshot, leaving the token
// untouched. Used after a local profile update.
func (s *Store) SaveProfile(profile models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.dir, profileFile), data, 0600)
}

// Load reads the stored token and profile. Either value may be absent; a
// stored profile that fails to parse reads as absent rather than as an
// error.
func (s *Store) Load() (string, *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadToken(), s.loadProfile()
}

// Token returns the stored bearer token, or "" when none is stored.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadToken()
}

// Clear removes the stored token and profile. Calling Clear on an empty
// store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	os.Remove(filepath.Join(s.dir, tokenFile))
	os.Remove(filepath.Join(s.dir, profileFile))
}

func (s *Store) loadToken() string {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *Store) loadProfile() *models.User {
	data, err := os.ReadFile(filepath.Join(s.dir, profileFile))
	if err != nil {
		return nil
	}

	var profile models.User
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil
	}
	return &profile
}
