// Package provider defines the contract this service expects from an
// identity-and-profile backend. internal/supabase implements it against the
// hosted provider; internal/localstore implements it against a local
// file-backed store used when no provider is configured. Handlers and the
// signup orchestrator only ever see these interfaces.
package provider

import (
	"context"
	"errors"
	"net/http"

	"github.com/anshupriya0510/EchoSkill-project/internal/models"
)

// ErrNotFound is returned by lookups when the requested record does not
// exist. Callers must treat it as a normal outcome, not a failure.
var ErrNotFound = errors.New("provider: not found")

// SignUpParams are the inputs to account creation. RedirectTo, when set, is
// where the provider's confirmation email should send the user.
type SignUpParams struct {
	Email      string
	Password   string
	RedirectTo string
}

// AuthResult is the outcome of a signup or signin. AccessToken is empty when
// the provider withheld a session (email confirmation still pending).
type AuthResult struct {
	User        *models.Account
	AccessToken string
}

// UserPage is one page of the administrative user listing.
type UserPage struct {
	Users    []models.AdminUser
	NextPage *int
	LastPage *int
}

// Auth is the restricted tier: operations scoped to one end-user's session.
type Auth interface {
	SignUp(ctx context.Context, p SignUpParams) (*AuthResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*AuthResult, error)
	ResendConfirmation(ctx context.Context, email, redirectTo string) error

	// UserForToken answers "who am I" for a session token. Returns
	// ErrNotFound when the token does not resolve to an account.
	UserForToken(ctx context.Context, token string) (*models.Account, error)

	// SessionToken extracts the provider's session token from a request's
	// cookies. The bearer header is handled by the session resolver, not here.
	SessionToken(r *http.Request) (string, bool)

	// SessionCookie builds the cookie this server sets after a successful
	// signin so cookie-based session resolution works on later requests.
	SessionCookie(token string) *http.Cookie
}

// Admin is the privileged tier: service-wide operations that bypass
// per-user scoping. Kept separate from Auth so a restricted handle can never
// be escalated by a runtime flag.
type Admin interface {
	UserByID(ctx context.Context, id string) (*models.Account, error)
	ListUsers(ctx context.Context, page, perPage int) (*UserPage, error)

	// ProvisionProfile writes a profile row regardless of row-level scoping.
	// Only keys present in fields are written.
	ProvisionProfile(ctx context.Context, id string, fields map[string]any) (*models.Profile, error)
}

// Profiles is profile read/write in the caller's own scope. token is the
// caller's session token; it is empty for public by-id reads.
type Profiles interface {
	ProfileByID(ctx context.Context, token, id string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, token, id string, fields map[string]any) (*models.Profile, error)
	ListSkillRows(ctx context.Context) ([]models.SkillRow, error)
	UpdateSkills(ctx context.Context, token, id string, skills []string) error
}
