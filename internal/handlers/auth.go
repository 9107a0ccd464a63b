package handlers

import (
	"net/http"
	"regexp"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/anshupriya0510/EchoSkill-project/internal/accounts"
	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
	"github.com/anshupriya0510/EchoSkill-project/internal/request"
	"github.com/anshupriya0510/EchoSkill-project/internal/session"
	"github.com/anshupriya0510/EchoSkill-project/internal/validation"
)

// AuthHandler handles signup, signin, confirmation resend and session reads
type AuthHandler struct {
	auth        provider.Auth
	signup      *accounts.Orchestrator
	resolver    *session.Resolver
	redirectURL string
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler. redirectURL overrides the
// confirmation-email redirect; when empty the request origin is used.
func NewAuthHandler(auth provider.Auth, signup *accounts.Orchestrator, resolver *session.Resolver, redirectURL string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		signup:      signup,
		resolver:    resolver,
		redirectURL: redirectURL,
		logger:      logger,
	}
}

// RegisterRoutes registers auth routes on the given router
// The router should already have the /auth prefix
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/signup", h.SignUp).Methods("POST")
	r.HandleFunc("/signin", h.SignIn).Methods("POST")
	r.HandleFunc("/resend", h.Resend).Methods("POST")
	r.HandleFunc("/session", h.Session).Methods("GET")
}

// notConfirmedPattern matches the provider's "Email not confirmed" message
// family regardless of exact wording.
var notConfirmedPattern = regexp.MustCompile(`(?i)not\s*confirmed`)

// SignUpRequest represents a signup request
type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// SignInRequest represents a signin request
type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResendRequest represents a confirmation resend request
type ResendRequest struct {
	Email string `json:"email" validate:"required"`
}

// SignUp creates an account and best-effort provisions its profile
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, validation.FirstError(err))
		return
	}

	result, err := h.signup.SignUp(r.Context(), accounts.SignUpInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  validation.SanitizeText(req.FirstName),
		LastName:   validation.SanitizeText(req.LastName),
		RedirectTo: h.confirmRedirect(r),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if result.AccessToken != "" {
		http.SetCookie(w, h.auth.SessionCookie(result.AccessToken))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":                 result.User,
		"requiresConfirmation": result.RequiresConfirmation,
	})
}

// SignIn authenticates with email and password and establishes the session
// cookie. An unconfirmed email is reported with a distinct code so the
// client can prompt for confirmation, and a fresh confirmation email is
// sent on its behalf.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": map[string]any{"message": "Email and password are required.", "code": "bad_request"},
		})
		return
	}

	result, err := h.auth.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		message := apperrors.From(err).Message
		code := "auth_failed"
		if notConfirmedPattern.MatchString(message) {
			code = "email_not_confirmed"
			// Resend the confirmation email so the user can complete signup
			// without a separate request. Best effort only.
			if resendErr := h.auth.ResendConfirmation(r.Context(), req.Email, h.confirmRedirect(r)); resendErr != nil {
				h.logger.Warn("confirmation_resend_failed",
					zap.Error(resendErr),
				)
			}
		}
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error": map[string]any{"message": message, "code": code},
		})
		return
	}

	if result.AccessToken != "" {
		http.SetCookie(w, h.auth.SessionCookie(result.AccessToken))
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": result.User})
}

// Resend re-sends the signup confirmation email
func (h *AuthHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var req ResendRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Email is required.")
		return
	}

	if err := h.auth.ResendConfirmation(r.Context(), req.Email, h.confirmRedirect(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Session reports the caller's resolved identity and profile summary. It
// always answers 200; a provider failure is surfaced in the body so the
// client can distinguish "signed out" from "provider down".
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	view := h.resolver.ResolveView(r)

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	body := map[string]any{
		"user":    nil,
		"profile": nil,
	}
	if view.Identity != nil {
		body["user"] = view.Identity.Account
	}
	if view.Profile != nil {
		body["profile"] = view.Profile
	}
	if view.ProviderError != "" {
		body["error"] = view.ProviderError
	}
	writeJSON(w, http.StatusOK, body)
}

// confirmRedirect resolves where the confirmation email should send the
// user: the configured override, or the request origin's profile-setup page.
func (h *AuthHandler) confirmRedirect(r *http.Request) string {
	if h.redirectURL != "" {
		return h.redirectURL
	}
	if origin := request.Origin(r); origin != "" {
		return origin + "/profile-setup"
	}
	return ""
}
