// Package localstore is a file-backed substitute for the hosted identity
// provider, active only when no provider is configured. It implements the
// same account/profile contract against a single JSON document on disk, so
// the rest of the service cannot tell the two apart. It exists for demos and
// local development; accounts are auto-confirmed and passwords are stored as
// salted digests.
package localstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
	"github.com/anshupriya0510/EchoSkill-project/internal/models"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
)

// Store implements provider.Auth, provider.Admin and provider.Profiles
// against a local JSON file. All operations serialize on one mutex; the
// expected scale is a handful of demo accounts.
type Store struct {
	path   string
	secret []byte

	mu sync.Mutex
}

// localUser is the fallback user record.
type localUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// fileData is the on-disk document. Collection keys match the browser
// storage keys the frontend's own fallback uses.
type fileData struct {
	Users    []localUser                `json:"skillecho_users"`
	Profiles map[string]*models.Profile `json:"skillecho_profiles"`
}

// New returns a store persisting to path, with secret signing session
// tokens. The file is created lazily on first write.
func New(path, secret string) (*Store, error) {
	if path == "" {
		return nil, apperrors.Configuration("local store path is required when no identity provider is configured")
	}
	if secret == "" {
		return nil, apperrors.Configuration("local store token secret is required when no identity provider is configured")
	}
	return &Store{path: path, secret: []byte(secret)}, nil
}

func (s *Store) load() (*fileData, error) {
	data := &fileData{Profiles: map[string]*models.Profile{}}
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return data, nil
	}
	if err != nil {
		return nil, apperrors.UpstreamStore("Failed to read local store", err)
	}
	if err := json.Unmarshal(raw, data); err != nil {
		return nil, apperrors.UpstreamStore("Local store file is corrupt", err)
	}
	if data.Profiles == nil {
		data.Profiles = map[string]*models.Profile{}
	}
	return data, nil
}

// save writes via a temp file and rename so a crash mid-write never leaves a
// truncated document behind.
func (s *Store) save(data *fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return apperrors.UpstreamStore("Failed to encode local store", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.UpstreamStore("Failed to create local store directory", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return apperrors.UpstreamStore("Failed to write local store", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return apperrors.UpstreamStore("Failed to write local store", err)
	}
	return nil
}

// hashPassword digests a password with the store secret as salt. Not a
// proper KDF, but this store only ever guards demo accounts.
func (s *Store) hashPassword(password string) string {
	sum := sha256.Sum256(append(s.secret, []byte(password)...))
	return hex.EncodeToString(sum[:])
}

func (u *localUser) account() *models.Account {
	confirmed := u.CreatedAt
	meta := map[string]any{}
	if u.FirstName != "" {
		meta["first_name"] = u.FirstName
	}
	if u.LastName != "" {
		meta["last_name"] = u.LastName
	}
	return &models.Account{
		ID:               u.ID,
		Email:            u.Email,
		CreatedAt:        u.CreatedAt,
		EmailConfirmedAt: &confirmed,
		UserMetadata:     meta,
	}
}

// SignUp creates an account. Local accounts are auto-confirmed, so the
// result always carries a session token.
func (s *Store) SignUp(ctx context.Context, p provider.SignUpParams) (*provider.AuthResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, u := range data.Users {
		if strings.EqualFold(u.Email, p.Email) {
			return nil, apperrors.UpstreamAuth("user_already_exists", "An account with this email already exists.", nil)
		}
	}

	user := localUser{
		ID:        uuid.New().String(),
		Email:     p.Email,
		Password:  s.hashPassword(p.Password),
		CreatedAt: time.Now().UTC(),
	}
	data.Users = append(data.Users, user)
	if err := s.save(data); err != nil {
		return nil, err
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &provider.AuthResult{User: user.account(), AccessToken: token}, nil
}

// SignInWithPassword checks credentials and issues a session token.
func (s *Store) SignInWithPassword(ctx context.Context, email, password string) (*provider.AuthResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, u := range data.Users {
		if strings.EqualFold(u.Email, email) && u.Password == s.hashPassword(password) {
			token, err := s.signToken(u.ID)
			if err != nil {
				return nil, err
			}
			return &provider.AuthResult{User: u.account(), AccessToken: token}, nil
		}
	}
	return nil, apperrors.UpstreamAuth("invalid_credentials", "Invalid login credentials", nil)
}

// ResendConfirmation is a no-op: local accounts are auto-confirmed.
func (s *Store) ResendConfirmation(ctx context.Context, email, redirectTo string) error {
	return nil
}

// UserForToken resolves a session token to its account.
func (s *Store) UserForToken(ctx context.Context, token string) (*models.Account, error) {
	id, err := s.verifyToken(token)
	if err != nil {
		return nil, provider.ErrNotFound
	}
	return s.UserByID(ctx, id)
}

// UserByID implements the admin lookup used by signup provisioning.
func (s *Store) UserByID(ctx context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, u := range data.Users {
		if u.ID == id {
			return u.account(), nil
		}
	}
	return nil, provider.ErrNotFound
}

// ListUsers returns one page of accounts ordered by creation time.
func (s *Store) ListUsers(ctx context.Context, page, perPage int) (*provider.UserPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	users := make([]localUser, len(data.Users))
	copy(users, data.Users)
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })

	lastPage := (len(users) + perPage - 1) / perPage
	if lastPage == 0 {
		lastPage = 1
	}

	start := (page - 1) * perPage
	if start > len(users) {
		start = len(users)
	}
	end := start + perPage
	if end > len(users) {
		end = len(users)
	}

	result := make([]models.AdminUser, 0, end-start)
	for _, u := range users[start:end] {
		result = append(result, models.AdminUser{
			ID:        u.ID,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
		})
	}

	pageResult := &provider.UserPage{Users: result, LastPage: &lastPage}
	if page < lastPage {
		next := page + 1
		pageResult.NextPage = &next
	}
	return pageResult, nil
}
