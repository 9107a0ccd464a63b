package localstore

import (
	"context"
	"time"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
	"github.com/anshupriya0510/EchoSkill-project/internal/models"
)

// ProfileByID returns a profile or (nil, nil) when absent. The token is
// unused: profiles are publicly readable in both modes.
func (s *Store) ProfileByID(ctx context.Context, token, id string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	profile, ok := data.Profiles[id]
	if !ok {
		return nil, nil
	}
	clone := *profile
	return &clone, nil
}

// UpsertProfile applies the given fields to the row keyed by id, creating it
// if needed. A key present with a nil value clears that field.
func (s *Store) UpsertProfile(ctx context.Context, token, id string, fields map[string]any) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	found := false
	for _, u := range data.Users {
		if u.ID == id {
			found = true
			break
		}
	}
	if !found {
		// Mirror the provider's foreign key constraint: no profile without
		// its account.
		return nil, apperrors.UpstreamStore("profile violates foreign key constraint: account does not exist", nil)
	}

	profile, ok := data.Profiles[id]
	if !ok {
		profile = &models.Profile{ID: id}
		data.Profiles[id] = profile
	}
	if err := applyFields(profile, fields); err != nil {
		return nil, err
	}

	if err := s.save(data); err != nil {
		return nil, err
	}
	clone := *profile
	return &clone, nil
}

// ProvisionProfile implements the privileged-tier profile write used during
// signup. The fallback has no row-level scoping, so it is the same write
// with no caller token.
func (s *Store) ProvisionProfile(ctx context.Context, id string, fields map[string]any) (*models.Profile, error) {
	return s.UpsertProfile(ctx, "", id, fields)
}

// UpdateSkills replaces the skill list and stamps the update time.
func (s *Store) UpdateSkills(ctx context.Context, token, id string, skills []string) error {
	now := time.Now().UTC()
	_, err := s.UpsertProfile(ctx, token, id, map[string]any{
		"skills":     skills,
		"updated_at": now.Format(time.RFC3339),
	})
	return err
}

// ListSkillRows reads the skill projection across all profiles.
func (s *Store) ListSkillRows(ctx context.Context) ([]models.SkillRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	rows := make([]models.SkillRow, 0, len(data.Profiles))
	for id, profile := range data.Profiles {
		rows = append(rows, models.SkillRow{
			ID:       id,
			FullName: profile.FullName,
			Skills:   append([]string(nil), profile.Skills...),
		})
	}
	return rows, nil
}

// applyFields maps the provider payload keys onto a profile. The handler
// layer guarantees value types; anything else is a programming error
// reported as validation failure.
func applyFields(profile *models.Profile, fields map[string]any) error {
	for key, value := range fields {
		switch key {
		case "full_name":
			profile.FullName = optionalString(value)
		case "bio":
			profile.Bio = optionalString(value)
		case "avatar_url":
			profile.AvatarURL = optionalString(value)
		case "skills":
			switch v := value.(type) {
			case nil:
				profile.Skills = nil
			case []string:
				profile.Skills = append([]string(nil), v...)
			case []any:
				// JSON-decoded bodies arrive as []any.
				skills := make([]string, 0, len(v))
				for _, raw := range v {
					s, ok := raw.(string)
					if !ok {
						return apperrors.ValidationField("skills", "must be an array of strings")
					}
					skills = append(skills, s)
				}
				profile.Skills = skills
			default:
				return apperrors.ValidationField("skills", "must be an array of strings")
			}
		case "metadata":
			switch v := value.(type) {
			case nil:
				profile.Metadata = nil
			case map[string]any:
				profile.Metadata = v
			default:
				return apperrors.ValidationField("metadata", "must be an object")
			}
		case "updated_at":
			if raw, ok := value.(string); ok {
				if ts, err := time.Parse(time.RFC3339, raw); err == nil {
					profile.UpdatedAt = &ts
				}
			}
		}
	}
	if profile.UpdatedAt == nil {
		now := time.Now().UTC()
		profile.UpdatedAt = &now
	}
	return nil
}

func optionalString(value any) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return &v
	case *string:
		return v
	default:
		return nil
	}
}
