package services

import (
	"context"
	"fmt"
	"net/http"

	"distream/internal/api"
	"distream/internal/models"
)

// Auth implements the authentication and user-management endpoints. It
// satisfies [distream/internal/session.Authenticator]; persistence of the
// returned credential is the session controller's job, not this service's.
type Auth struct {
	client *api.Client
}

// NewAuth creates an Auth service backed by the given client.
func NewAuth(client *api.Client) *Auth {
	return &Auth{client: client}
}

// Login exchanges an email/password pair for a bearer token and profile.
func (a *Auth) Login(ctx context.Context, input models.LoginInput) (*models.Credential, error) {
	var cred models.Credential
	if _, err := a.client.Do(ctx, http.MethodPost, "/login", nil, input, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// Register creates an account and returns its first credential.
func (a *Auth) Register(ctx context.Context, input models.RegisterInput) (*models.Credential, error) {
	var cred models.Credential
	if _, err := a.client.Do(ctx, http.MethodPost, "/register", nil, input, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// Logout invalidates the server-side session. Best-effort by contract: the
// caller may ignore the error.
func (a *Auth) Logout(ctx context.Context) error {
	_, err := a.client.Do(ctx, http.MethodPost, "/logout", nil, nil, nil)
	return err
}

// Users lists accounts (admin only).
func (a *Auth) Users(ctx context.Context, p ListParams) ([]models.User, *models.Pagination, error) {
	var users []models.User
	env, err := a.client.Do(ctx, http.MethodGet, "/users", p.Values(), nil, &users)
	if err != nil {
		return nil, nil, err
	}
	return users, env.Pagination, nil
}

// User retrieves a single account by ID (admin or own profile).
func (a *Auth) User(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if _, err := a.client.Do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserUpdate is a partial update of an account. Empty fields are left
// unchanged server-side.
type UserUpdate struct {
	Nickname string      `json:"user_nickname,omitempty"`
	Email    string      `json:"user_email,omitempty"`
	Password string      `json:"password,omitempty"`
	Plan     models.Plan `json:"plan,omitempty"`
	Role     models.Role `json:"role,omitempty"`
}

// UpdateUser applies a partial update and returns the updated profile.
func (a *Auth) UpdateUser(ctx context.Context, id int, update UserUpdate) (*models.User, error) {
	var user models.User
	if _, err := a.client.Do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account (admin only).
func (a *Auth) DeleteUser(ctx context.Context, id int) error {
	_, err := a.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
	return err
}
