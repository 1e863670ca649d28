// Package session owns the client's authentication state: the access token
// and the profile of the logged-in user.
//
// The store maintains one invariant at all times: token and user are set
// and cleared together, never one without the other. All mutation funnels
// through Login and Logout; readers get snapshots and never observe a
// half-updated state.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dimasprakoso/siakad-cli/internal/client/models"
	"github.com/dimasprakoso/siakad-cli/internal/client/repositories/metadata"
	"github.com/dimasprakoso/siakad-cli/internal/common"
	"github.com/dimasprakoso/siakad-cli/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Snapshot is an immutable view of the session at one instant.
// User is non-nil iff Token is non-empty.
type Snapshot struct {
	Token string
	User  *models.UserProfile
}

// Authenticated reports whether the snapshot carries a logged-in user.
func (s Snapshot) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Store is the single owner of the session. It persists state through the
// metadata repository so a restart resumes the previous session; it never
// performs network calls and never enforces token expiry itself (expiry is
// observed as 401 responses from the backend).
type Store struct {
	mu    sync.RWMutex
	token string
	user  *models.UserProfile
	repo  metadata.Repository
	log   logging.Logger
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log}
}

// Initialize hydrates the in-memory state from persisted storage. It runs
// once per process lifetime, before any other call. Malformed data, a
// profile without a role, or a token/user pair with one side missing all
// clear both keys and start the session unauthenticated.
func (s *Store) Initialize(ctx context.Context) error {
	tokenRaw, err := s.repo.Get(ctx, common.SessionTokenKey)
	if err != nil {
		return fmt.Errorf("reading persisted token: %w", err)
	}
	userRaw, err := s.repo.Get(ctx, common.SessionUserKey)
	if err != nil {
		return fmt.Errorf("reading persisted user: %w", err)
	}

	if len(tokenRaw) == 0 && len(userRaw) == 0 {
		return nil
	}

	if len(tokenRaw) == 0 || len(userRaw) == 0 {
		s.log.Warn(ctx, "persisted session is unpaired, clearing", "have_token", len(tokenRaw) > 0)
		return s.clearPersisted(ctx)
	}

	var user models.UserProfile
	if err := json.Unmarshal(userRaw, &user); err != nil {
		s.log.Warn(ctx, "persisted user profile is malformed, clearing", "error", err)
		return s.clearPersisted(ctx)
	}
	if user.Role == "" {
		s.log.Warn(ctx, "persisted user profile has no role, clearing")
		return s.clearPersisted(ctx)
	}

	s.mu.Lock()
	s.token = string(tokenRaw)
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Login atomically persists and installs the new session. The profile must
// carry a role; otherwise the call fails with common.ErrValidation and the
// session is left untouched.
func (s *Store) Login(ctx context.Context, token string, user models.UserProfile) error {
	if user.Role == "" {
		return fmt.Errorf("%w: user profile has no role", common.ErrValidation)
	}
	if token == "" {
		return fmt.Errorf("%w: empty access token", common.ErrValidation)
	}

	userRaw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("serializing user profile: %w", err)
	}

	err = s.repo.SetMany(ctx, map[string][]byte{
		common.SessionTokenKey: []byte(token),
		common.SessionUserKey:  userRaw,
	})
	if err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}

	s.mu.Lock()
	s.token = token
	u := user
	s.user = &u
	s.mu.Unlock()
	return nil
}

// Logout atomically clears persisted and in-memory state. Calling it on an
// unauthenticated session is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	return s.clearPersisted(ctx)
}

func (s *Store) clearPersisted(ctx context.Context) error {
	if err := s.repo.DeleteMany(ctx, common.SessionTokenKey, common.SessionUserKey); err != nil {
		return fmt.Errorf("clearing persisted session: %w", err)
	}
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	return nil
}

// CurrentToken returns the access token, or "" when unauthenticated.
// Never errors; safe to call from any goroutine.
func (s *Store) CurrentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns a copy of the logged-in profile, or nil.
func (s *Store) CurrentUser() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Snapshot returns a consistent view of token and user together.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Token: s.token}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().Authenticated()
}

// TokenExpiry returns the expiry claim of the current access token when the
// token is a JWS carrying one. The signature is not verified: expiry is
// informational (status line display), never an access decision; the
// backend's 401 remains authoritative.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.CurrentToken()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
