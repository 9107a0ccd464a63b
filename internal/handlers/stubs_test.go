package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/anshupriya0510/EchoSkill-project/internal/models"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
)

// stubAuth is a scripted restricted-tier provider for handler tests. Tokens
// resolve against the users map; signup and signin outcomes are fixed up
// front by each test.
type stubAuth struct {
	users map[string]*models.Account

	signUpResult *provider.AuthResult
	signUpErr    error
	signInResult *provider.AuthResult
	signInErr    error
	resendErr    error

	resendEmails []string
}

func (s *stubAuth) SignUp(ctx context.Context, p provider.SignUpParams) (*provider.AuthResult, error) {
	if s.signUpErr != nil {
		return nil, s.signUpErr
	}
	return s.signUpResult, nil
}

func (s *stubAuth) SignInWithPassword(ctx context.Context, email, password string) (*provider.AuthResult, error) {
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return s.signInResult, nil
}

func (s *stubAuth) ResendConfirmation(ctx context.Context, email, redirectTo string) error {
	s.resendEmails = append(s.resendEmails, email)
	return s.resendErr
}

func (s *stubAuth) UserForToken(ctx context.Context, token string) (*models.Account, error) {
	account, ok := s.users[token]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return account, nil
}

func (s *stubAuth) SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie("session")
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (s *stubAuth) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: "session", Value: token, Path: "/", HttpOnly: true}
}

// stubProfiles is an in-memory provider.Profiles backend.
type stubProfiles struct {
	profiles map[string]*models.Profile
	err      error
}

func newStubProfiles() *stubProfiles {
	return &stubProfiles{profiles: map[string]*models.Profile{}}
}

func (s *stubProfiles) ProfileByID(ctx context.Context, token, id string) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profiles[id], nil
}

func (s *stubProfiles) UpsertProfile(ctx context.Context, token, id string, fields map[string]any) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	profile, ok := s.profiles[id]
	if !ok {
		profile = &models.Profile{ID: id}
		s.profiles[id] = profile
	}
	for key, value := range fields {
		switch key {
		case "full_name":
			profile.FullName = optString(value)
		case "bio":
			profile.Bio = optString(value)
		case "avatar_url":
			profile.AvatarURL = optString(value)
		case "skills":
			profile.Skills = toStrings(value)
		}
	}
	return profile, nil
}

func (s *stubProfiles) ListSkillRows(ctx context.Context) ([]models.SkillRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]models.SkillRow, 0, len(ids))
	for _, id := range ids {
		p := s.profiles[id]
		rows = append(rows, models.SkillRow{ID: p.ID, FullName: p.FullName, Skills: p.Skills})
	}
	return rows, nil
}

func (s *stubProfiles) UpdateSkills(ctx context.Context, token, id string, skills []string) error {
	if s.err != nil {
		return s.err
	}
	profile, ok := s.profiles[id]
	if !ok {
		profile = &models.Profile{ID: id}
		s.profiles[id] = profile
	}
	profile.Skills = skills
	return nil
}

func optString(value any) *string {
	if value == nil {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		return nil
	}
	return &str
}

func toStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// stubAdmin is a scripted privileged-tier provider.
type stubAdmin struct {
	page    *provider.UserPage
	listErr error

	gotPage    int
	gotPerPage int
}

func (s *stubAdmin) UserByID(ctx context.Context, id string) (*models.Account, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAdmin) ListUsers(ctx context.Context, page, perPage int) (*provider.UserPage, error) {
	s.gotPage = page
	s.gotPerPage = perPage
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.page, nil
}

func (s *stubAdmin) ProvisionProfile(ctx context.Context, id string, fields map[string]any) (*models.Profile, error) {
	return nil, errors.New("not implemented")
}
