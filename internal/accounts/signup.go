// Package accounts coordinates account creation in the identity provider
// with provisioning of the dependent profile row. The two systems have
// different consistency guarantees: the provider's admin read path can lag
// its write path, so a profile write issued immediately after signup may hit
// a foreign key violation. Rather than a distributed transaction, the
// orchestrator polls for the account with a bounded linear retry and treats
// the profile write as best-effort: a missing profile self-heals on the
// user's first profile edit, a failed signup does not.
package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
	"github.com/anshupriya0510/EchoSkill-project/internal/models"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
	"github.com/anshupriya0510/EchoSkill-project/internal/supabase"
)

const (
	defaultPollAttempts = 5
	defaultPollInterval = 200 * time.Millisecond
)

// Orchestrator drives signup: restricted-tier account creation followed by
// privileged-tier profile provisioning.
type Orchestrator struct {
	auth   provider.Auth
	admin  provider.Admin
	logger *zap.Logger

	pollAttempts int
	pollInterval time.Duration
	sleep        func(time.Duration)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRetryPolicy overrides the account-existence poll bounds.
func WithRetryPolicy(attempts int, interval time.Duration) Option {
	return func(o *Orchestrator) {
		o.pollAttempts = attempts
		o.pollInterval = interval
	}
}

// WithSleep replaces the inter-attempt sleep, letting tests simulate
// "found on attempt N" without real delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *Orchestrator) {
		o.sleep = sleep
	}
}

// NewOrchestrator creates a signup orchestrator. admin may be nil when no
// privileged credentials are configured; profile provisioning is then
// skipped entirely and signup still succeeds.
func NewOrchestrator(auth provider.Auth, admin provider.Admin, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		auth:         auth,
		admin:        admin,
		logger:       logger,
		pollAttempts: defaultPollAttempts,
		pollInterval: defaultPollInterval,
		sleep:        time.Sleep,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SignUpInput is the validated signup request.
type SignUpInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	RedirectTo string
}

// SignUpResult reports the created account. AccessToken is empty when the
// provider requires email confirmation before login.
type SignUpResult struct {
	User                 *models.Account
	AccessToken          string
	RequiresConfirmation bool
}

// SignUp creates the account and best-effort provisions its profile.
// Provisioning failures are absorbed here by design: once the account is
// durably created, nothing downstream may fail the signup response.
func (o *Orchestrator) SignUp(ctx context.Context, in SignUpInput) (*SignUpResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apperrors.Validation("Email and password are required.")
	}

	created, err := o.auth.SignUp(ctx, provider.SignUpParams{
		Email:      in.Email,
		Password:   in.Password,
		RedirectTo: in.RedirectTo,
	})
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.UpstreamAuth("", "Account creation failed", err)
	}

	result := &SignUpResult{
		User:                 created.User,
		AccessToken:          created.AccessToken,
		RequiresConfirmation: created.AccessToken == "",
	}

	if created.User != nil && created.User.ID != "" {
		o.provisionProfile(ctx, created.User.ID, fullName(in.FirstName, in.LastName))
	}
	return result, nil
}

// provisionProfile polls until the admin read path observes the new account,
// then upserts its profile. Every failure mode is logged and swallowed.
func (o *Orchestrator) provisionProfile(ctx context.Context, userID, name string) {
	if o.admin == nil {
		o.logger.Warn("profile_provisioning_skipped_no_admin_client",
			zap.String("user_id", userID),
		)
		return
	}

	if !o.awaitAccount(ctx, userID) {
		o.logger.Warn("account_not_visible_skipping_profile_provisioning",
			zap.String("user_id", userID),
			zap.Int("attempts", o.pollAttempts),
		)
		return
	}

	fields := map[string]any{}
	if name != "" {
		fields["full_name"] = name
	}

	if _, err := o.admin.ProvisionProfile(ctx, userID, fields); err != nil {
		if supabase.IsForeignKeyViolation(err) {
			// Lost the race despite the existence poll; the profile is
			// created on the user's first edit instead.
			o.logger.Warn("profile_provisioning_foreign_key_violation",
				zap.String("user_id", userID),
			)
			return
		}
		o.logger.Error("profile_provisioning_failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

// awaitAccount is a bounded linear retry against the admin read path; it
// absorbs replication lag between the provider's write and read sides.
func (o *Orchestrator) awaitAccount(ctx context.Context, userID string) bool {
	for attempt := 0; attempt < o.pollAttempts; attempt++ {
		if attempt > 0 {
			o.sleep(o.pollInterval)
		}
		account, err := o.admin.UserByID(ctx, userID)
		if err == nil && account != nil {
			return true
		}
		if err != nil && !errors.Is(err, provider.ErrNotFound) {
			o.logger.Debug("account_poll_transient_error",
				zap.String("user_id", userID),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
		}
	}
	return false
}

func fullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
