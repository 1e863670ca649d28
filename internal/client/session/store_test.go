package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dimasprakoso/siakad-cli/internal/client/models"
	"github.com/dimasprakoso/siakad-cli/internal/common"
	"github.com/dimasprakoso/siakad-cli/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory metadata.Repository for session tests.
type memRepo struct {
	data map[string][]byte
}

func newMemRepo() *memRepo {
	return &memRepo{data: make(map[string][]byte)}
}

func (m *memRepo) Get(ctx context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memRepo) Set(ctx context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memRepo) SetMany(ctx context.Context, pairs map[string][]byte) error {
	for k, v := range pairs {
		m.data[k] = v
	}
	return nil
}

func (m *memRepo) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memRepo) DeleteMany(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memRepo) Clear(ctx context.Context) error {
	m.data = make(map[string][]byte)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func adminProfile() models.UserProfile {
	return models.UserProfile{ID: 1, Username: "budi", Email: "budi@kampus.ac.id", Role: models.RoleAdmin}
}

func TestStore_LoginLogoutCycle(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	s := NewStore(repo, testLogger())
	require.NoError(t, s.Initialize(ctx))

	require.False(t, s.IsAuthenticated())
	require.Empty(t, s.CurrentToken())
	require.Nil(t, s.CurrentUser())

	require.NoError(t, s.Login(ctx, "tok-1", adminProfile()))
	require.True(t, s.IsAuthenticated())
	require.Equal(t, "tok-1", s.CurrentToken())
	require.Equal(t, "budi", s.CurrentUser().Username)

	// Persisted pair is written together.
	require.NotEmpty(t, repo.data[common.SessionTokenKey])
	require.NotEmpty(t, repo.data[common.SessionUserKey])

	require.NoError(t, s.Logout(ctx))
	require.False(t, s.IsAuthenticated())
	require.Empty(t, repo.data[common.SessionTokenKey])
	require.Empty(t, repo.data[common.SessionUserKey])
}

func TestStore_SnapshotPairing(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemRepo(), testLogger())

	// After any sequence of operations the snapshot is all-or-nothing.
	check := func() {
		snap := s.Snapshot()
		require.Equal(t, snap.Token != "", snap.User != nil,
			"token and user must be set together or not at all")
	}

	check()
	require.NoError(t, s.Login(ctx, "tok", adminProfile()))
	check()
	require.NoError(t, s.Logout(ctx))
	check()
	require.NoError(t, s.Logout(ctx)) // double logout is a no-op
	check()
}

func TestStore_LoginRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemRepo(), testLogger())

	noRole := adminProfile()
	noRole.Role = ""
	err := s.Login(ctx, "tok", noRole)
	require.ErrorIs(t, err, common.ErrValidation)

	err = s.Login(ctx, "", adminProfile())
	require.ErrorIs(t, err, common.ErrValidation)

	require.False(t, s.IsAuthenticated(), "failed login must leave the session untouched")
}

func TestStore_InitializeRestoresSession(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()

	first := NewStore(repo, testLogger())
	require.NoError(t, first.Login(ctx, "tok-1", adminProfile()))

	// A new process reads the same storage.
	second := NewStore(repo, testLogger())
	require.NoError(t, second.Initialize(ctx))
	require.True(t, second.IsAuthenticated())
	require.Equal(t, "tok-1", second.CurrentToken())
	require.Equal(t, models.RoleAdmin, second.CurrentUser().Role)
}

func TestStore_InitializeClearsCorruptState(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		seed map[string][]byte
	}{
		{"token without user", map[string][]byte{common.SessionTokenKey: []byte("tok")}},
		{"user without token", map[string][]byte{common.SessionUserKey: []byte(`{"id":1,"role":"admin"}`)}},
		{"malformed user json", map[string][]byte{
			common.SessionTokenKey: []byte("tok"),
			common.SessionUserKey:  []byte("{not json"),
		}},
		{"user without role", map[string][]byte{
			common.SessionTokenKey: []byte("tok"),
			common.SessionUserKey:  []byte(`{"id":1,"username":"budi"}`),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemRepo()
			for k, v := range tc.seed {
				repo.data[k] = v
			}

			s := NewStore(repo, testLogger())
			require.NoError(t, s.Initialize(ctx))
			require.False(t, s.IsAuthenticated())

			// Both keys are cleared, never one side left behind.
			require.Empty(t, repo.data[common.SessionTokenKey])
			require.Empty(t, repo.data[common.SessionUserKey])
		})
	}
}

func TestStore_CurrentUserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemRepo(), testLogger())
	require.NoError(t, s.Login(ctx, "tok", adminProfile()))

	u := s.CurrentUser()
	u.Username = "mutated"
	require.Equal(t, "budi", s.CurrentUser().Username)
}

func TestStore_TokenExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemRepo(), testLogger())

	_, ok := s.TokenExpiry()
	require.False(t, ok, "no token, no expiry")

	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)

	require.NoError(t, s.Login(ctx, signed, adminProfile()))
	got, ok := s.TokenExpiry()
	require.True(t, ok)
	require.True(t, got.Equal(exp))

	// Opaque tokens carry no readable expiry but remain valid sessions.
	require.NoError(t, s.Login(ctx, "opaque-token", adminProfile()))
	_, ok = s.TokenExpiry()
	require.False(t, ok)
	require.True(t, s.IsAuthenticated())
}
