package commands

import (
	"fmt"

	"github.com/careerdeck/careerdeck/internal/api"
	"github.com/careerdeck/careerdeck/internal/session"
)

type Globals struct {
	Debug   bool
	Version string
}

func openSession(dir string) (*session.Store, error) {
	store, err := session.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	return store, nil
}

// newClient builds an API client whose bearer token follows the session
// store. A nil store yields an anonymous client.
func newClient(server, cacheDir string, store *session.Store) *api.Client {
	config := api.DefaultConfig()
	if server != "" {
		config.ServerURL = server
	}
	config.CacheDir = cacheDir

	var token api.TokenSource
	if store != nil {
		token = func() string {
			t, err := store.Token()
			if err != nil {
				return ""
			}
			return t
		}
	}

	return api.NewClient(config, token)
}

func roleToString(role session.Role) string {
	if role == "" {
		return "unknown"
	}
	return string(role)
}
