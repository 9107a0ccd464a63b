// Package profiles exposes read and partial-write access to profile rows.
// Writes are always keyed by the caller's own identity; reads are public
// when an explicit identifier is supplied.
package profiles

import (
	"context"
	"sort"
	"time"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
	"github.com/anshupriya0510/EchoSkill-project/internal/models"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
	"github.com/anshupriya0510/EchoSkill-project/internal/request"
)

// Accessor wraps a provider.Profiles backend with the authorization and
// partial-update rules of the profile endpoints.
type Accessor struct {
	backend provider.Profiles
}

// NewAccessor creates a profile accessor over the given backend.
func NewAccessor(backend provider.Profiles) *Accessor {
	return &Accessor{backend: backend}
}

// Get returns a profile. When explicitID is non-empty the lookup is public
// and no identity is required. Otherwise the caller's own profile is
// returned and identity must be resolved. A nil profile with nil error
// means the row does not exist yet.
func (a *Accessor) Get(ctx context.Context, identity *request.Identity, explicitID string) (*models.Profile, error) {
	if explicitID != "" {
		return a.backend.ProfileByID(ctx, "", explicitID)
	}
	if identity == nil || identity.Account == nil {
		return nil, apperrors.Authentication("Not authenticated")
	}
	return a.backend.ProfileByID(ctx, identity.Token, identity.Account.ID)
}

// Upsert writes the fields present in the input to the caller's own profile
// row, creating it if absent. Absent keys are left untouched and an explicit
// null clears the field. The update timestamp is always stamped here so a
// caller cannot backdate it.
func (a *Accessor) Upsert(ctx context.Context, identity *request.Identity, fields map[string]any) (*models.Profile, error) {
	if identity == nil || identity.Account == nil {
		return nil, apperrors.Authentication("Not authenticated")
	}
	if fields == nil {
		fields = map[string]any{}
	}
	fields["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	return a.backend.UpsertProfile(ctx, identity.Token, identity.Account.ID, fields)
}

// ListSkills unions the skill arrays of every profile into a deduplicated,
// sorted list. The aggregation is recomputed from all rows on every call;
// that is fine for a corpus of at most a few thousand profiles but would
// need a dedicated index beyond that scale.
func (a *Accessor) ListSkills(ctx context.Context) ([]string, error) {
	rows, err := a.backend.ListSkillRows(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, row := range rows {
		for _, skill := range row.Skills {
			if skill == "" {
				continue
			}
			seen[skill] = struct{}{}
		}
	}
	skills := make([]string, 0, len(seen))
	for skill := range seen {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills, nil
}

// AppendSkills merges newSkills into the caller's skill set and persists the
// union. Input must be an array of strings; anything else is rejected
// without touching stored state. Returns the merged set, sorted.
func (a *Accessor) AppendSkills(ctx context.Context, identity *request.Identity, newSkills []any) ([]string, error) {
	if identity == nil || identity.Account == nil {
		return nil, apperrors.Authentication("Not authenticated")
	}

	incoming := make([]string, 0, len(newSkills))
	for _, raw := range newSkills {
		skill, ok := raw.(string)
		if !ok {
			return nil, apperrors.Validation("skills must be an array of strings")
		}
		if skill != "" {
			incoming = append(incoming, skill)
		}
	}

	current, err := a.backend.ProfileByID(ctx, identity.Token, identity.Account.ID)
	if err != nil {
		return nil, err
	}

	merged := map[string]struct{}{}
	if current != nil {
		for _, skill := range current.Skills {
			merged[skill] = struct{}{}
		}
	}
	for _, skill := range incoming {
		merged[skill] = struct{}{}
	}

	skills := make([]string, 0, len(merged))
	for skill := range merged {
		skills = append(skills, skill)
	}
	sort.Strings(skills)

	if err := a.backend.UpdateSkills(ctx, identity.Token, identity.Account.ID, skills); err != nil {
		return nil, err
	}
	return skills, nil
}
