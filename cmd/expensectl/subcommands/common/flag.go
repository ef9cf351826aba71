package common

import (
	"encoding/json"
	"os"
	"path/filepath"

	"expensems/pkg/client"
)

// CommonFlags are shared by every expensectl subcommand.
type CommonFlags struct {
	Server  string `flag:"server" metavar:"URL" help:"base URL of the expense management API"`
	Session string `flag:"session" metavar:"PATH" help:"path to the stored session file"`
}

// DefaultFlags resolves the server URL (EXPENSEMS_URL, falling back to
// localhost) and the default session file location.
func DefaultFlags() CommonFlags {
	server := os.Getenv("EXPENSEMS_URL")
	if server == "" {
		server = "http://localhost:8080"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return CommonFlags{
		Server:  server,
		Session: filepath.Join(home, ".expensectl", "session.json"),
	}
}

type storedSession struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// SessionStore persists the token pair between invocations.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Restore loads the stored tokens into the client's session, if any.
func (s *SessionStore) Restore(c *client.Client) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var stored storedSession
	if json.Unmarshal(raw, &stored) != nil || stored.Token == "" {
		return
	}
	c.Session().Restore(stored.Token, stored.RefreshToken)
}

// Save writes the client's current tokens to disk.
func (s *SessionStore) Save(c *client.Client) error {
	raw, err := json.Marshal(storedSession{
		Token:        c.Session().Token(),
		RefreshToken: c.Session().RefreshToken(),
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// Drop removes the stored session file.
func (s *SessionStore) Drop() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
