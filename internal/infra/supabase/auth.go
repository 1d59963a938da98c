package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gittyapp/backend/internal/domain/model"
)

const authPrefix = "/auth/v1"

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUserExists         = errors.New("user already registered")
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type sessionResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at"`
	User         *userResponse `json:"user"`

	// Sign-up without auto-confirm returns the bare user object.
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func (r sessionResponse) toModel(now time.Time) model.AuthSession {
	user := model.User{ID: r.ID, Email: r.Email}
	if r.User != nil {
		user = model.User{ID: r.User.ID, Email: r.User.Email}
	}

	var expiresAt time.Time
	switch {
	case r.ExpiresAt > 0:
		expiresAt = time.Unix(r.ExpiresAt, 0).UTC()
	case r.ExpiresIn > 0:
		expiresAt = now.Add(time.Duration(r.ExpiresIn) * time.Second).UTC()
	}

	return model.AuthSession{
		User:         user,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

// SignUp registers an email/password identity. When the project requires
// confirmation the returned session has no tokens.
func (c *Client) SignUp(ctx context.Context, email, password string) (model.AuthSession, error) {
	var resp sessionResponse
	if err := c.DoJSON(ctx, http.MethodPost, authPrefix+"/signup", nil, nil, credentialsRequest{Email: email, Password: password}, &resp); err != nil {
		if isUserExists(err) {
			return model.AuthSession{}, ErrUserExists
		}
		return model.AuthSession{}, err
	}
	return resp.toModel(time.Now()), nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (model.AuthSession, error) {
	query := url.Values{"grant_type": {"password"}}
	var resp sessionResponse
	err := c.DoJSON(ctx, http.MethodPost, authPrefix+"/token", query, nil, credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		if isInvalidGrant(err) {
			return model.AuthSession{}, ErrInvalidCredentials
		}
		return model.AuthSession{}, err
	}
	return resp.toModel(time.Now()), nil
}

func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (model.AuthSession, error) {
	query := url.Values{"grant_type": {"refresh_token"}}
	var resp sessionResponse
	err := c.DoJSON(ctx, http.MethodPost, authPrefix+"/token", query, nil, refreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		if isInvalidGrant(err) {
			return model.AuthSession{}, ErrInvalidCredentials
		}
		return model.AuthSession{}, err
	}
	return resp.toModel(time.Now()), nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (model.User, error) {
	var resp userResponse
	if err := c.DoJSON(WithAccessToken(ctx, accessToken), http.MethodGet, authPrefix+"/user", nil, nil, nil, &resp); err != nil {
		return model.User{}, err
	}
	return model.User{ID: resp.ID, Email: resp.Email}, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.DoJSON(WithAccessToken(ctx, accessToken), http.MethodPost, authPrefix+"/logout", nil, nil, nil, nil)
}

func isInvalidGrant(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	if reqErr.StatusCode != http.StatusBadRequest {
		return false
	}
	return reqErr.Code == "invalid_grant" || reqErr.Code == "invalid_credentials"
}

func isUserExists(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	if reqErr.Code == "user_already_exists" || reqErr.Code == "email_exists" {
		return true
	}
	return reqErr.StatusCode == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(reqErr.Error()), "already registered")
}
