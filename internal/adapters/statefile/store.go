// Package statefile persists run state and the portal cookie jar as
// JSON files in the renewbot directory.
package statefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/renewbot/internal/config"
	"github.com/example/renewbot/internal/models"
	"github.com/example/renewbot/internal/ports/secondary"
)

// Store implements secondary.StateStore on top of the config file. The
// checkpoint fields live next to the credentials in config.json, so
// saving rewrites the whole file with the credentials preserved.
type Store struct {
	dir string
}

// NewStore creates a state store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the checkpoint fields. A missing config file yields zero
// state, not an error.
func (s *Store) Load(ctx context.Context) (*models.PersistedState, error) {
	cfg, err := config.Load(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return &models.PersistedState{}, nil
	}
	if err != nil {
		return nil, err
	}
	st := cfg.PersistedState
	return &st, nil
}

// Save rewrites the config file with the new checkpoint fields.
func (s *Store) Save(ctx context.Context, state *models.PersistedState) error {
	cfg, err := config.Load(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		cfg = &config.Config{}
	} else if err != nil {
		return err
	}
	cfg.PersistedState = *state
	return config.Save(s.dir, cfg)
}

// CookieFile implements secondary.CookieStore as a JSON file.
type CookieFile struct {
	path string
}

// NewCookieFile creates a cookie store at dir/cookies.json.
func NewCookieFile(dir string) *CookieFile {
	return &CookieFile{path: filepath.Join(dir, "cookies.json")}
}

// Load reads the stored cookie jar. A missing file yields an empty jar.
func (c *CookieFile) Load(ctx context.Context) ([]models.Cookie, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cookie file: %w", err)
	}

	var cookies []models.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("failed to parse cookie file: %w", err)
	}
	return cookies, nil
}

// Save writes the cookie jar, creating the directory if needed.
func (c *CookieFile) Save(ctx context.Context, cookies []models.Cookie) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cookie dir: %w", err)
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

// Ensure the adapters implement their interfaces
var (
	_ secondary.StateStore  = (*Store)(nil)
	_ secondary.CookieStore = (*CookieFile)(nil)
)
