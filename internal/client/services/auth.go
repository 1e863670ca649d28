// Package services contains the application services of the client. This
// file defines authentication: login, registration, and logout against the
// backend auth endpoints, with the session store as the single owner of the
// resulting state.
package services

import (
	"context"
	"fmt"

	"github.com/dimasprakoso/siakad-cli/internal/client/api"
	"github.com/dimasprakoso/siakad-cli/internal/client/models"
	"github.com/dimasprakoso/siakad-cli/internal/client/session"
	"github.com/dimasprakoso/siakad-cli/internal/common"
)

// AuthService defines the authentication operations of the CLI.
//
// Contract:
//   - Login: authenticate against the backend and install the session.
//   - Register: create a new account; does not log in.
//   - Logout: clear the persisted and in-memory session.
//
// All methods honor context cancellation.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.UserProfile, error)
	Register(ctx context.Context, email, username, password string) error
	Logout(ctx context.Context) error
}

type authService struct {
	client   *api.Client
	sessions *session.Store
}

func NewAuthService(client *api.Client, sessions *session.Store) AuthService {
	return &authService{client: client, sessions: sessions}
}

// Login posts the credentials and, when the response carries both a token
// and a role-bearing profile, installs them in the session store
// atomically. An incomplete response is a validation failure: the session
// is left untouched.
func (a *authService) Login(ctx context.Context, email, password string) (*models.UserProfile, error) {
	body := map[string]string{"email": email, "password": password}

	var resp models.LoginResponse
	if err := a.client.Post(ctx, "/api/auth/login", body, &resp, false); err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	if resp.AccessToken == "" || resp.User.Role == "" {
		return nil, fmt.Errorf("%w: login response incomplete", common.ErrValidation)
	}

	if err := a.sessions.Login(ctx, resp.AccessToken, resp.User); err != nil {
		return nil, fmt.Errorf("installing session: %w", err)
	}

	user := resp.User
	return &user, nil
}

// Register creates the account. The user logs in separately afterwards,
// matching the backend flow.
func (a *authService) Register(ctx context.Context, email, username, password string) error {
	body := map[string]string{"email": email, "username": username, "password": password}
	if err := a.client.Post(ctx, "/api/auth/register", body, nil, false); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Logout clears the session. No backend call is involved: the token is
// simply discarded and expires server-side on its own.
func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Logout(ctx)
}
