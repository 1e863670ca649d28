package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dimasprakoso/siakad-cli/internal/client/api"
	"github.com/dimasprakoso/siakad-cli/internal/client/models"
	"github.com/dimasprakoso/siakad-cli/internal/client/session"
	"github.com/dimasprakoso/siakad-cli/internal/logging"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	data map[string][]byte
}

func newMemRepo() *memRepo { return &memRepo{data: make(map[string][]byte)} }

func (m *memRepo) Get(ctx context.Context, key string) ([]byte, error) { return m.data[key], nil }
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

// fakeAuth implements services.AuthService for REPL tests.
type fakeAuth struct {
	sessions  *session.Store
	loginErr  error
	loginUser models.UserProfile

	gotEmail, gotUsername, gotPassword string
	registerErr                        error
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*models.UserProfile, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if err := f.sessions.Login(ctx, "tok", f.loginUser); err != nil {
		return nil, err
	}
	u := f.loginUser
	return &u, nil
}

func (f *fakeAuth) Register(ctx context.Context, email, username, password string) error {
	f.gotEmail, f.gotUsername, f.gotPassword = email, username, password
	return f.registerErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	return f.sessions.Logout(ctx)
}

func newTestApp(t *testing.T) (*App, *fakeAuth, *bytes.Buffer) {
	t.Helper()
	sessions := session.NewStore(newMemRepo(), testLogger())
	auth := &fakeAuth{
		sessions:  sessions,
		loginUser: models.UserProfile{ID: 1, Username: "budi", Email: "budi@kampus.ac.id", Role: models.RoleAdmin},
	}
	out := &bytes.Buffer{}
	a := &App{
		log:      testLogger(),
		sessions: sessions,
		auth:     auth,
		reader:   bufio.NewReader(strings.NewReader("")),
		out:      out,
	}
	return a, auth, out
}

func stubPrompts(t *testing.T, text, password string) {
	t.Helper()
	origText, origPassword := getSimpleText, getPassword
	getSimpleText = func(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
		return text, nil
	}
	getPassword = func(w io.Writer) (string, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText, getPassword = origText, origPassword
	})
}

func TestLogin_Success(t *testing.T) {
	a, auth, out := newTestApp(t)
	stubPrompts(t, "budi@kampus.ac.id", "rahasia")

	require.NoError(t, a.Login(context.Background()))
	require.Equal(t, "budi@kampus.ac.id", auth.gotEmail)
	require.Equal(t, "rahasia", auth.gotPassword)
	require.True(t, a.isLoggedIn())
	require.Contains(t, out.String(), "Selamat datang, budi")
}

func TestLogin_BackendRejection(t *testing.T) {
	a, auth, out := newTestApp(t)
	auth.loginErr = fmt.Errorf("login error: %w", &api.Error{StatusCode: 401, Message: "Email atau password salah"})
	stubPrompts(t, "budi@kampus.ac.id", "salah")

	require.Error(t, a.Login(context.Background()))
	require.False(t, a.isLoggedIn())
	require.Contains(t, out.String(), "Login gagal: Email atau password salah")
}

func TestLogin_ServerUnreachable(t *testing.T) {
	a, auth, out := newTestApp(t)
	auth.loginErr = fmt.Errorf("login error: %w", fmt.Errorf("%w: connection refused", api.ErrTransport))
	stubPrompts(t, "budi@kampus.ac.id", "rahasia")

	require.Error(t, a.Login(context.Background()))
	require.Contains(t, out.String(), "server tidak dapat dihubungi")
}

func TestRegister(t *testing.T) {
	a, auth, out := newTestApp(t)
	stubPrompts(t, "siti@kampus.ac.id", "rahasia")

	require.NoError(t, a.Register(context.Background()))
	require.Equal(t, "rahasia", auth.gotPassword)
	require.Contains(t, out.String(), "Registrasi berhasil")
	require.False(t, a.isLoggedIn(), "registration never logs in")
}

func TestLogout_ClearsSessionAndActiveList(t *testing.T) {
	a, _, out := newTestApp(t)
	stubPrompts(t, "budi@kampus.ac.id", "rahasia")
	require.NoError(t, a.Login(context.Background()))

	a.active = &listScreen{}
	require.NoError(t, a.Logout(context.Background()))
	require.False(t, a.isLoggedIn())
	require.Nil(t, a.active)
	require.Contains(t, out.String(), "Anda telah logout.")
}

func TestWhoami(t *testing.T) {
	a, _, out := newTestApp(t)

	a.Whoami()
	require.Contains(t, out.String(), "Belum login.")

	stubPrompts(t, "budi@kampus.ac.id", "rahasia")
	require.NoError(t, a.Login(context.Background()))
	out.Reset()

	a.Whoami()
	require.Contains(t, out.String(), "budi")
	require.Contains(t, out.String(), "admin")
}

func TestGetStatus(t *testing.T) {
	a, _, _ := newTestApp(t)
	require.Empty(t, a.getStatus(), "anonymous prompt has no status")

	stubPrompts(t, "budi@kampus.ac.id", "rahasia")
	require.NoError(t, a.Login(context.Background()))
	require.Equal(t, "(budi/admin)", a.getStatus(), "opaque token shows no expiry")
}

func TestRequireLogin(t *testing.T) {
	a, _, out := newTestApp(t)

	require.False(t, a.requireLogin("list"))
	require.Contains(t, out.String(), "Anda harus login untuk mengakses halaman ini.")

	stubPrompts(t, "budi@kampus.ac.id", "rahasia")
	require.NoError(t, a.Login(context.Background()))
	out.Reset()
	require.True(t, a.requireLogin("list"))
	require.Empty(t, out.String())
}
