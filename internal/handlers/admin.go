package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
	"github.com/anshupriya0510/EchoSkill-project/internal/request"
)

const (
	defaultAdminPageSize = 20
	maxAdminPageSize     = 100
)

// AdminHandler handles privileged user administration endpoints. Access is
// gated on a single allow-listed administrator email.
type AdminHandler struct {
	admin      provider.Admin
	adminEmail string
	logger     *zap.Logger
}

// NewAdminHandler creates a new admin handler. adminEmail may be empty, in
// which case every request is refused with a pointer to the missing setting.
func NewAdminHandler(admin provider.Admin, adminEmail string, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:      admin,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// RegisterRoutes registers admin routes on the given router
// The router should already have the /admin prefix
func (h *AdminHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/users", h.ListUsers).Methods("GET")
}

// ListUsers returns a page of accounts from the identity provider, reduced
// to a minimal safe subset of fields.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	identity := request.IdentityFromContext(r)
	if identity == nil {
		writeErrorMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if h.adminEmail == "" {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error":  "Forbidden",
			"detail": "Set ADMIN_EMAIL to the email allowed to access admin endpoints.",
		})
		return
	}
	if identity.Account.Email != h.adminEmail {
		h.logger.Warn("admin_access_denied",
			zap.String("user_id", identity.Account.ID),
		)
		writeErrorMessage(w, http.StatusForbidden, "Forbidden")
		return
	}

	if h.admin == nil {
		writeErrorMessage(w, http.StatusInternalServerError, "Admin client is not configured")
		return
	}

	page := clampInt(r.URL.Query().Get("page"), 1, 1, 0)
	perPage := clampInt(r.URL.Query().Get("perPage"), defaultAdminPageSize, 1, maxAdminPageSize)

	result, err := h.admin.ListUsers(r.Context(), page, perPage)
	if err != nil {
		writeErrorMessage(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page":     page,
		"perPage":  perPage,
		"nextPage": result.NextPage,
		"lastPage": result.LastPage,
		"users":    result.Users,
	})
}

// clampInt parses raw as an integer with a default, a lower bound and an
// optional upper bound (max of 0 means unbounded).
func clampInt(raw string, def, min, max int) int {
	value := def
	if raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			value = parsed
		}
	}
	if value < min {
		value = min
	}
	if max > 0 && value > max {
		value = max
	}
	return value
}
