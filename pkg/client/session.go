package client

import (
	"sync"

	"expensems/pkg/api"
)

// Session holds the current credentials and user profile. It is owned by
// the Client: populated by Login/Register/Refresh, cleared by Logout and by
// any 401 response. Mutex-guarded so requests may run from any goroutine.
type Session struct {
	mu           sync.RWMutex
	token        string
	refreshToken string
	user         *api.UserProfile
}

// Token returns the current access token, or "" when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// RefreshToken returns the current refresh token, or "".
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns a copy of the current profile, or nil when unauthenticated.
func (s *Session) User() *api.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Restore installs previously saved tokens, e.g. from a config file.
// The profile stays empty until the next Login or Me call.
func (s *Session) Restore(token, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.refreshToken = refreshToken
	s.user = nil
}

// Clear drops all credentials and the profile.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.refreshToken = ""
	s.user = nil
}

func (s *Session) set(auth *api.AuthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = auth.Token
	s.refreshToken = auth.RefreshToken
	user := auth.User
	s.user = &user
}
