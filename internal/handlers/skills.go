package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/anshupriya0510/EchoSkill-project/internal/profiles"
	"github.com/anshupriya0510/EchoSkill-project/internal/session"
)

// SkillsHandler handles the aggregated skills view and skill appends
type SkillsHandler struct {
	accessor *profiles.Accessor
	resolver *session.Resolver
}

// NewSkillsHandler creates a new skills handler
func NewSkillsHandler(accessor *profiles.Accessor, resolver *session.Resolver) *SkillsHandler {
	return &SkillsHandler{accessor: accessor, resolver: resolver}
}

// RegisterRoutes registers skills routes on the given router
func (h *SkillsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/skills", h.List).Methods("GET")
	r.HandleFunc("/skills", h.Append).Methods("POST")
}

// List returns the deduplicated union of every profile's skills
func (h *SkillsHandler) List(w http.ResponseWriter, r *http.Request) {
	skills, err := h.accessor.ListSkills(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": skills})
}

// Append merges new skills into the caller's profile and returns the union
func (h *SkillsHandler) Append(w http.ResponseWriter, r *http.Request) {
	identity, err := h.resolver.Resolve(r)
	if err != nil || identity == nil {
		writeErrorMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var body struct {
		Skills json.RawMessage `json:"skills"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	var incoming []any
	if err := json.Unmarshal(body.Skills, &incoming); err != nil || incoming == nil {
		writeErrorMessage(w, http.StatusBadRequest, "skills must be an array of strings")
		return
	}

	merged, err := h.accessor.AppendSkills(r.Context(), identity, incoming)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": merged})
}
