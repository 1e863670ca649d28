package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimasprakoso/siakad-cli/internal/client/api"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates against the backend. On
// success the session store holds the token and profile; on failure the
// backend's message is shown and the session is left untouched.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, email, password)
	if err != nil {
		var apiErr *api.Error
		switch {
		case errors.As(err, &apiErr):
			fmt.Fprintf(a.out, "Login gagal: %s\n", apiErr.Message)
		case errors.Is(err, api.ErrTransport):
			fmt.Fprintln(a.out, "Login gagal: server tidak dapat dihubungi.")
		default:
			fmt.Fprintf(a.out, "Login gagal: %v\n", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "Login berhasil! Selamat datang, %s.\n", user.Username)
	return nil
}

// Register prompts for a new account's details and creates it. The user
// logs in separately afterwards.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.auth.Register(ctx, email, username, password); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			fmt.Fprintf(a.out, "Registrasi gagal: %s\n", apiErr.Message)
		} else {
			fmt.Fprintf(a.out, "Registrasi gagal: %v\n", err)
		}
		return err
	}

	fmt.Fprintln(a.out, "Registrasi berhasil! Silakan login.")
	return nil
}

// Logout clears the session and drops the active list screen.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.active = nil
	fmt.Fprintln(a.out, "Anda telah logout.")
	return nil
}

// Whoami prints the current session.
func (a *App) Whoami() {
	user := a.sessions.CurrentUser()
	if user == nil {
		fmt.Fprintln(a.out, "Belum login.")
		return
	}
	fmt.Fprintf(a.out, "#%d %s <%s> role=%s\n", user.ID, user.Username, user.Email, user.Role)
}
