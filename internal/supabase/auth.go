package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/anshupriya0510/EchoSkill-project/internal/models"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
)

// signUpResponse covers both shapes GoTrue returns from /signup: a full
// session when autoconfirm is on, or a bare user object when the account
// still needs email confirmation.
type signUpResponse struct {
	AccessToken string          `json:"access_token"`
	User        *models.Account `json:"user"`
}

// SignUp creates an account. The returned AuthResult has an empty
// AccessToken when the provider requires email confirmation before login.
func (c *Client) SignUp(ctx context.Context, p provider.SignUpParams) (*provider.AuthResult, error) {
	query := url.Values{}
	if p.RedirectTo != "" {
		query.Set("redirect_to", p.RedirectTo)
	}

	body := map[string]string{"email": p.Email, "password": p.Password}

	var raw json.RawMessage
	if _, _, err := c.request(ctx, http.MethodPost, "/auth/v1/signup", query, nil, "", body, &raw); err != nil {
		return nil, err
	}

	var resp signUpResponse
	if err := json.Unmarshal(raw, &resp); err == nil && resp.User != nil {
		return &provider.AuthResult{User: resp.User, AccessToken: resp.AccessToken}, nil
	}

	// Confirmation-required shape: the user object is the whole body.
	var user models.Account
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &provider.AuthResult{User: &user}, nil
}

// SignInWithPassword exchanges email/password credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*provider.AuthResult, error) {
	query := url.Values{"grant_type": {"password"}}
	body := map[string]string{"email": email, "password": password}

	var resp signUpResponse
	if _, _, err := c.request(ctx, http.MethodPost, "/auth/v1/token", query, nil, "", body, &resp); err != nil {
		return nil, err
	}
	return &provider.AuthResult{User: resp.User, AccessToken: resp.AccessToken}, nil
}

// ResendConfirmation asks the provider to re-send the signup confirmation
// email.
func (c *Client) ResendConfirmation(ctx context.Context, email, redirectTo string) error {
	query := url.Values{}
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}

	body := map[string]string{"type": "signup", "email": email}
	_, _, err := c.request(ctx, http.MethodPost, "/auth/v1/resend", query, nil, "", body, nil)
	return err
}

// UserForToken answers "who am I" for a session token. A token the provider
// no longer honors resolves to provider.ErrNotFound rather than an error,
// since an expired session is a normal outcome.
func (c *Client) UserForToken(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, provider.ErrNotFound
	}

	var user models.Account
	status, _, err := c.request(ctx, http.MethodGet, "/auth/v1/user", nil, nil, token, nil, &user)
	if err != nil {
		if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusNotFound {
			return nil, provider.ErrNotFound
		}
		return nil, err
	}
	if user.ID == "" {
		return nil, provider.ErrNotFound
	}
	return &user, nil
}
