package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
	"github.com/anshupriya0510/EchoSkill-project/internal/profiles"
	"github.com/anshupriya0510/EchoSkill-project/internal/request"
	"github.com/anshupriya0510/EchoSkill-project/internal/session"
)

// ProfileHandler handles profile reads and partial updates
type ProfileHandler struct {
	accessor *profiles.Accessor
	resolver *session.Resolver
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(accessor *profiles.Accessor, resolver *session.Resolver) *ProfileHandler {
	return &ProfileHandler{accessor: accessor, resolver: resolver}
}

// RegisterRoutes registers profile routes on the given router
func (h *ProfileHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/profile", h.Get).Methods("GET")
	r.HandleFunc("/profile", h.Upsert).Methods("POST", "PATCH")
}

// profileFieldAllowed lists the writable profile columns. Key presence in
// the request body decides whether a field is written, so the raw body is
// inspected rather than a typed struct: absent means untouched, an explicit
// null means clear.
var profileFieldAllowed = map[string]bool{
	"full_name":  true,
	"bio":        true,
	"avatar_url": true,
	"skills":     true,
	"metadata":   true,
}

// Get returns a profile: public by explicit id, otherwise the caller's own
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	explicitID := r.URL.Query().Get("id")

	var identity *request.Identity
	if explicitID == "" {
		var err error
		identity, err = h.resolver.Resolve(r)
		if err != nil {
			writeErrorMessage(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
	}

	profile, err := h.accessor.Get(r.Context(), identity, explicitID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

// Upsert partially updates the caller's own profile. Only keys present in
// the body are written.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	identity, err := h.resolver.Resolve(r)
	if err != nil || identity == nil {
		writeErrorMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var raw map[string]json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, err)
		return
	}

	fields := map[string]any{}
	for key, value := range raw {
		if !profileFieldAllowed[key] {
			continue
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			writeError(w, apperrors.Validation("Invalid request body"))
			return
		}
		fields[key] = decoded
	}
	if skills, present := fields["skills"]; present && skills != nil {
		if _, ok := skills.([]any); !ok {
			writeError(w, apperrors.Validation("skills must be an array of strings"))
			return
		}
	}

	profile, err := h.accessor.Upsert(r.Context(), identity, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}
