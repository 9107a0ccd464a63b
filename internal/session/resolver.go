// Package session maps inbound requests to authenticated identities. A
// request is resolved fresh every time, with no resolver-side cache, because
// a stale authentication result is worse than an extra provider round trip.
package session

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/anshupriya0510/EchoSkill-project/internal/models"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
	"github.com/anshupriya0510/EchoSkill-project/internal/request"
)

// Resolver resolves request identities against the restricted provider tier.
type Resolver struct {
	auth     provider.Auth
	profiles provider.Profiles
	logger   *zap.Logger
}

// NewResolver creates a resolver. profiles is only consulted by ResolveView.
func NewResolver(auth provider.Auth, profiles provider.Profiles, logger *zap.Logger) *Resolver {
	return &Resolver{auth: auth, profiles: profiles, logger: logger}
}

// View is a resolved session plus optional display fields for presentation.
type View struct {
	Identity *request.Identity
	Profile  *models.ProfileSummary
	// ProviderError carries a provider failure message when resolution hit
	// an upstream error rather than a clean "no session".
	ProviderError string
}

// Resolve determines the caller's identity. An explicit bearer token takes
// precedence over the provider's session cookie, supporting flows where
// cookies are not yet established (e.g. immediately after email
// confirmation). No valid session resolves to (nil, nil): unauthenticated
// is a normal outcome, not an error.
func (s *Resolver) Resolve(r *http.Request) (*request.Identity, error) {
	token, ok := request.BearerToken(r)
	if !ok {
		token, ok = s.auth.SessionToken(r)
	}
	if !ok {
		return nil, nil
	}

	account, err := s.auth.UserForToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request.Identity{Account: account, Token: token}, nil
}

// ResolveView resolves the caller and, when authenticated, attaches the
// profile's display name and avatar. A missing or unreadable profile never
// fails identity resolution.
func (s *Resolver) ResolveView(r *http.Request) *View {
	view := &View{}

	identity, err := s.Resolve(r)
	if err != nil {
		view.ProviderError = err.Error()
		return view
	}
	if identity == nil {
		return view
	}
	view.Identity = identity

	profile, err := s.fetchSummary(r.Context(), identity)
	if err != nil {
		s.logger.Warn("session_profile_fetch_failed",
			zap.String("user_id", identity.Account.ID),
			zap.Error(err),
		)
		return view
	}
	view.Profile = profile
	return view
}

func (s *Resolver) fetchSummary(ctx context.Context, identity *request.Identity) (*models.ProfileSummary, error) {
	profile, err := s.profiles.ProfileByID(ctx, identity.Token, identity.Account.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}
	return &models.ProfileSummary{FullName: profile.FullName, AvatarURL: profile.AvatarURL}, nil
}
