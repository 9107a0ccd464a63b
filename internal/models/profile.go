package models

import "time"

// Profile is the one-to-one dependent of an Account, keyed by the account id.
// All fields except the id are optional; Skills is treated as a set.
type Profile struct {
	ID        string         `json:"id"`
	FullName  *string        `json:"full_name"`
	Bio       *string        `json:"bio"`
	AvatarURL *string        `json:"avatar_url"`
	Skills    []string       `json:"skills"`
	Metadata  map[string]any `json:"metadata"`
	UpdatedAt *time.Time     `json:"updated_at"`
}

// ProfileSummary carries the display fields attached to a resolved session.
type ProfileSummary struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// SkillRow is the projection read during skill aggregation.
type SkillRow struct {
	ID       string   `json:"id"`
	FullName *string  `json:"full_name"`
	Skills   []string `json:"skills"`
}
