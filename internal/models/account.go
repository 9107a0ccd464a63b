package models

import "time"

// Account is the identity-provider-owned user record. The provider assigns
// the ID; this service never mutates accounts after creation.
type Account struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	CreatedAt        time.Time      `json:"created_at"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at,omitempty"`
	AppMetadata      map[string]any `json:"app_metadata,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
}

// Confirmed reports whether the account's email address has been confirmed.
func (a *Account) Confirmed() bool {
	return a.EmailConfirmedAt != nil
}

// AdminUser is the minimal safe subset of an account exposed by the admin
// listing endpoint. Identities and tokens are deliberately excluded.
type AdminUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	CreatedAt    time.Time      `json:"created_at"`
	LastSignInAt *time.Time     `json:"last_sign_in_at"`
	AppMetadata  map[string]any `json:"app_metadata"`
}
