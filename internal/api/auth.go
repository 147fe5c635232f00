package api

import (
	"context"
	"net/http"

	"github.com/hoyo-tech/hoyo-client/internal/model/account"
)

// AuthAPI groups the authentication endpoints.
type AuthAPI struct {
	c *Client
}

// Credentials is the login/registration response: a fresh token plus the user
// it belongs to.
type Credentials struct {
	Token string       `json:"token"`
	User  account.User `json:"user"`
}

// Register creates an account and returns its first credentials.
func (a *AuthAPI) Register(ctx context.Context, username, email, password string) (Credentials, error) {
	raw, err := a.c.Do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Credentials{}, err
	}
	var creds Credentials
	if err := decodeInto(raw, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Login exchanges email and password for credentials.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (Credentials, error) {
	raw, err := a.c.Do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Credentials{}, err
	}
	var creds Credentials
	if err := decodeInto(raw, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Logout asks the backend to invalidate the current token. The auth
// controller clears sessions client-side without calling this; it is exposed
// for callers that want server-side invalidation as well.
func (a *AuthAPI) Logout(ctx context.Context) error {
	_, err := a.c.Do(ctx, http.MethodPost, "/auth/logout", nil)
	return err
}

// CurrentUser fetches the user record for the stored token.
func (a *AuthAPI) CurrentUser(ctx context.Context) (account.User, error) {
	raw, err := a.c.Do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return account.User{}, err
	}
	var user account.User
	if err := decodeInto(raw, &user); err != nil {
		return account.User{}, err
	}
	return user, nil
}
