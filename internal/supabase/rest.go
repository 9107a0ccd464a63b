package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/anshupriya0510/EchoSkill-project/internal/models"
)

const profilesPath = "/rest/v1/profiles"

// ProfileByID fetches a single profile row. Profiles are publicly readable,
// so token may be empty; a missing row returns (nil, nil).
func (c *Client) ProfileByID(ctx context.Context, token, id string) (*models.Profile, error) {
	query := url.Values{
		"select": {"*"},
		"id":     {"eq." + id},
	}

	var rows []models.Profile
	if _, _, err := c.request(ctx, http.MethodGet, profilesPath, query, nil, token, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// UpsertProfile inserts or updates the row keyed by id, writing only the
// given fields. The caller's token scopes the write; row-level security on
// the provider side rejects writes to other identities.
func (c *Client) UpsertProfile(ctx context.Context, token, id string, fields map[string]any) (*models.Profile, error) {
	payload := map[string]any{"id": id}
	for k, v := range fields {
		payload[k] = v
	}

	query := url.Values{"on_conflict": {"id"}}
	headers := map[string]string{
		"Prefer": "resolution=merge-duplicates,return=representation",
	}

	var rows []models.Profile
	if _, _, err := c.request(ctx, http.MethodPost, profilesPath, query, headers, token, payload, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// return=representation always yields the row; guard anyway.
		return c.ProfileByID(ctx, token, id)
	}
	return &rows[0], nil
}

// ListSkillRows reads the skill projection across all profiles.
func (c *Client) ListSkillRows(ctx context.Context) ([]models.SkillRow, error) {
	query := url.Values{"select": {"id,full_name,skills"}}

	var rows []models.SkillRow
	if _, _, err := c.request(ctx, http.MethodGet, profilesPath, query, nil, "", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateSkills replaces the skill list on the caller's own row and stamps
// the update time.
func (c *Client) UpdateSkills(ctx context.Context, token, id string, skills []string) error {
	query := url.Values{"id": {"eq." + id}}
	payload := map[string]any{
		"skills":     skills,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}

	_, _, err := c.request(ctx, http.MethodPatch, profilesPath, query, nil, token, payload, nil)
	return err
}
