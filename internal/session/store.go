package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// ErrNoSession is returned when no token is stored.
var ErrNoSession = errors.New("no active session")

// state is the on-disk session file. It holds the two values written at
// login: the opaque bearer token and the role the server reported.
type state struct {
	Version  int    `json:"version"`
	Token    string `json:"token,omitempty"`
	UserRole string `json:"user_role,omitempty"`
}

// Store persists the session on the local filesystem and derives
// identity from the stored token without contacting the server.
type Store struct {
	baseDir string
}

// NewStore creates a new session store.
// If baseDir is empty, uses ~/.careerdeck/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".careerdeck")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	store := &Store{baseDir: baseDir}

	if err := store.ensureState(); err != nil {
		return nil, err
	}

	log.Debug().Str("baseDir", baseDir).Msg("session store initialized")

	return store, nil
}

// Set stores the token and role returned by a successful login.
// The token is not validated at write time; reads reflect the new
// values as soon as Set returns.
func (s *Store) Set(token string, role Role) error {
	st := &state{
		Version:  1,
		Token:    token,
		UserRole: string(role),
	}

	if err := s.saveState(st); err != nil {
		return err
	}

	log.Info().Str("role", string(role)).Msg("session stored")

	return nil
}

// Token returns the stored bearer token.
// Returns ErrNoSession when nothing is stored.
func (s *Store) Token() (string, error) {
	st, err := s.loadState()
	if err != nil {
		return "", err
	}

	if st.Token == "" {
		return "", ErrNoSession
	}

	return st.Token, nil
}

// Active reports whether a token is stored.
func (s *Store) Active() bool {
	_, err := s.Token()
	return err == nil
}

// Clear removes the stored token and role. Clearing an empty store is
// a no-op, not an error.
func (s *Store) Clear() error {
	if err := s.saveState(&state{Version: 1}); err != nil {
		return err
	}

	log.Info().Msg("session cleared")

	return nil
}

// Role returns the role of the current session. The token claims win
// when they carry a known role; the role stored at login time is the
// fallback. Any decode failure degrades to the empty role, which
// callers treat as unauthenticated.
func (s *Store) Role() Role {
	st, err := s.loadState()
	if err != nil || st.Token == "" {
		return ""
	}

	claims, err := DecodeClaims(st.Token)
	if err != nil {
		log.Debug().Err(err).Msg("token decode failed")
		return ParseRole(st.UserRole)
	}

	if role := ParseRole(string(claims.Role)); role != "" {
		return role
	}

	return ParseRole(st.UserRole)
}

// DisplayName returns the name encoded in the token claims. It never
// fails: a missing session, an undecodable token, or an absent name
// claim all yield UnknownName.
func (s *Store) DisplayName() string {
	st, err := s.loadState()
	if err != nil || st.Token == "" {
		return UnknownName
	}

	claims, err := DecodeClaims(st.Token)
	if err != nil {
		log.Debug().Err(err).Msg("token decode failed")
		return UnknownName
	}

	if claims.Name == "" {
		return UnknownName
	}

	return claims.Name
}

// ensureState creates an empty session file if it doesn't exist.
func (s *Store) ensureState() error {
	statePath := filepath.Join(s.baseDir, "session.json")

	if _, err := os.Stat(statePath); err == nil {
		return nil
	}

	return s.saveState(&state{Version: 1})
}

// loadState reads the session file.
func (s *Store) loadState() (*state, error) {
	statePath := filepath.Join(s.baseDir, "session.json")

	data, err := os.ReadFile(statePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	return &st, nil
}

// saveState writes the session file atomically.
func (s *Store) saveState(st *state) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	statePath := filepath.Join(s.baseDir, "session.json")
	tempPath := statePath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tempPath, statePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
