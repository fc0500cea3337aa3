package storage

import (
	"context"
	"strings"
	"time"
)

// LocalStore implements ImageStore for files served by a static file host
// (nginx, CDN origin, dev file server) under a fixed base URL.
type LocalStore struct {
	baseURL string
}

// LocalConfig holds configuration for local storage.
type LocalConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// NewLocalStore creates a new LocalStore instance.
func NewLocalStore(cfg LocalConfig) *LocalStore {
	return &LocalStore{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// URL joins the key onto the configured base URL. The expires parameter is
// ignored; statically served files do not expire.
func (s *LocalStore) URL(_ context.Context, key string, _ time.Duration) (string, error) {
	if key == "" {
		return "", nil
	}
	if isAbsoluteURL(key) {
		return key, nil
	}
	return s.baseURL + "/" + strings.TrimPrefix(key, "/"), nil
}

func isAbsoluteURL(key string) bool {
	return strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://")
}

// Ensure interface is satisfied at compile time.
var _ ImageStore = (*LocalStore)(nil)
