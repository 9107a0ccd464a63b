package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
)

func newTestAdmin(t *testing.T, handler http.HandlerFunc) *Admin {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	admin, err := NewAdmin(AdminConfig{
		PublicURL:  server.URL,
		ServiceKey: "service-key",
		HTTPClient: server.Client(),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewAdmin() error: %v", err)
	}
	return admin
}

func TestNewAdmin_MissingConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  AdminConfig
	}{
		{name: "missing url", cfg: AdminConfig{ServiceKey: "key"}},
		{name: "missing key", cfg: AdminConfig{PublicURL: "https://example.supabase.co"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewAdmin(tt.cfg, zap.NewNop())
			if !apperrors.IsKind(err, apperrors.KindConfiguration) {
				t.Errorf("Expected configuration error, got %v", err)
			}
		})
	}
}

func TestNewAdmin_URLDisagreementWarnsAndPrefersPublic(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	admin, err := NewAdmin(AdminConfig{
		PublicURL:  "https://public.supabase.co",
		ServerURL:  "https://other.supabase.co",
		ServiceKey: "service-key",
	}, logger)
	if err != nil {
		t.Fatalf("NewAdmin() error: %v", err)
	}

	if admin.client.baseURL != "https://public.supabase.co" {
		t.Errorf("Expected public URL to win, got %q", admin.client.baseURL)
	}
	if logs.FilterMessage("provider_urls_disagree").Len() != 1 {
		t.Error("Expected a provider_urls_disagree warning")
	}
}

func TestAdminUserByID(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		admin := newTestAdmin(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/v1/admin/users/user-1" {
				t.Errorf("Unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("apikey"); got != "service-key" {
				t.Errorf("Expected service key, got %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{"id": "user-1", "email": "a@b.c"})
		})

		user, err := admin.UserByID(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("UserByID() error: %v", err)
		}
		if user.ID != "user-1" {
			t.Errorf("Expected user-1, got %q", user.ID)
		}
	})

	t.Run("not yet replicated", func(t *testing.T) {
		t.Parallel()

		admin := newTestAdmin(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"msg": "User not found"})
		})

		_, err := admin.UserByID(context.Background(), "user-1")
		if !errors.Is(err, provider.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestAdminListUsers(t *testing.T) {
	t.Parallel()

	admin := newTestAdmin(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("Expected page=2, got %q", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "20" {
			t.Errorf("Expected per_page=20, got %q", got)
		}
		w.Header().Set("Link", `</admin/users?page=3>; rel="next", </admin/users?page=7>; rel="last"`)
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]any{
				{"id": "u1", "email": "a@b.c"},
				{"id": "u2", "email": "b@c.d"},
			},
		})
	})

	page, err := admin.ListUsers(context.Background(), 2, 20)
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(page.Users) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(page.Users))
	}
	if page.NextPage == nil || *page.NextPage != 3 {
		t.Errorf("Expected next page 3, got %v", page.NextPage)
	}
	if page.LastPage == nil || *page.LastPage != 7 {
		t.Errorf("Expected last page 7, got %v", page.LastPage)
	}
}

func TestParseLinkPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		link     string
		wantNext *int
		wantLast *int
	}{
		{
			name:     "next and last",
			link:     `<https://x.supabase.co/auth/v1/admin/users?page=2&per_page=20>; rel="next", <https://x.supabase.co/auth/v1/admin/users?page=5&per_page=20>; rel="last"`,
			wantNext: intPtr(2),
			wantLast: intPtr(5),
		},
		{
			name:     "last only",
			link:     `<https://x.supabase.co/auth/v1/admin/users?page=5>; rel="last"`,
			wantLast: intPtr(5),
		},
		{name: "empty", link: ""},
		{name: "malformed", link: "not a link header"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			next, last := parseLinkPages(tt.link)
			if !intPtrEqual(next, tt.wantNext) {
				t.Errorf("next: expected %v, got %v", tt.wantNext, next)
			}
			if !intPtrEqual(last, tt.wantLast) {
				t.Errorf("last: expected %v, got %v", tt.wantLast, last)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
