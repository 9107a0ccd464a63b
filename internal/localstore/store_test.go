package localstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
	"github.com/anshupriya0510/EchoSkill-project/internal/provider"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.json")
	store, err := New(path, "test-secret")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return store
}

func TestNew_MissingConfig(t *testing.T) {
	t.Parallel()

	if _, err := New("", "secret"); !apperrors.IsKind(err, apperrors.KindConfiguration) {
		t.Errorf("Expected configuration error for missing path, got %v", err)
	}
	if _, err := New("/tmp/store.json", ""); !apperrors.IsKind(err, apperrors.KindConfiguration) {
		t.Errorf("Expected configuration error for missing secret, got %v", err)
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	result, err := store.SignUp(ctx, provider.SignUpParams{Email: "a@b.c", Password: "secret"})
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("Expected a session token: local accounts are auto-confirmed")
	}
	if result.User.EmailConfirmedAt == nil {
		t.Error("Expected account to be confirmed")
	}

	// Duplicate email, case-insensitive.
	_, err = store.SignUp(ctx, provider.SignUpParams{Email: "A@B.C", Password: "other"})
	appErr := apperrors.From(err)
	if appErr.Code != "user_already_exists" {
		t.Errorf("Expected user_already_exists, got %v", err)
	}

	// Good credentials.
	signin, err := store.SignInWithPassword(ctx, "a@b.c", "secret")
	if err != nil {
		t.Fatalf("SignInWithPassword() error: %v", err)
	}
	if signin.User.ID != result.User.ID {
		t.Errorf("Expected same account, got %q vs %q", signin.User.ID, result.User.ID)
	}

	// Bad credentials.
	_, err = store.SignInWithPassword(ctx, "a@b.c", "wrong")
	if apperrors.From(err).Code != "invalid_credentials" {
		t.Errorf("Expected invalid_credentials, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	result, err := store.SignUp(ctx, provider.SignUpParams{Email: "a@b.c", Password: "secret"})
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}

	user, err := store.UserForToken(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("UserForToken() error: %v", err)
	}
	if user.ID != result.User.ID {
		t.Errorf("Expected %q, got %q", result.User.ID, user.ID)
	}

	if _, err := store.UserForToken(ctx, "garbage"); !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a forged token, got %v", err)
	}

	// A token signed with a different secret must not verify.
	other := newTestStore(t)
	otherResult, err := other.SignUp(ctx, provider.SignUpParams{Email: "x@y.z", Password: "secret"})
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	otherStore, err := New(filepath.Join(t.TempDir(), "s.json"), "different-secret")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := otherStore.UserForToken(ctx, otherResult.AccessToken); !errors.Is(err, provider.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for cross-secret token, got %v", err)
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	cookie := store.SessionCookie("tok")

	r := httptest.NewRequest("GET", "/auth/session", nil)
	r.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})

	token, ok := store.SessionToken(r)
	if !ok || token != "tok" {
		t.Errorf("Expected cookie round trip, got %q %v", token, ok)
	}
}

func TestUpsertProfile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	result, err := store.SignUp(ctx, provider.SignUpParams{Email: "a@b.c", Password: "secret"})
	if err != nil {
		t.Fatalf("SignUp() error: %v", err)
	}
	id := result.User.ID

	// Missing account mirrors the provider's foreign key constraint.
	if _, err := store.UpsertProfile(ctx, "", "ghost", map[string]any{"bio": "x"}); err == nil {
		t.Error("Expected foreign key error for unknown account")
	}

	name := "Ada"
	if _, err := store.UpsertProfile(ctx, "", id, map[string]any{"full_name": name, "bio": "hello"}); err != nil {
		t.Fatalf("UpsertProfile() error: %v", err)
	}

	// Partial update: only bio changes, full_name survives.
	profile, err := store.UpsertProfile(ctx, "", id, map[string]any{"bio": "updated"})
	if err != nil {
		t.Fatalf("UpsertProfile() error: %v", err)
	}
	if profile.FullName == nil || *profile.FullName != "Ada" {
		t.Errorf("Expected full_name to survive, got %v", profile.FullName)
	}
	if profile.Bio == nil || *profile.Bio != "updated" {
		t.Errorf("Expected bio updated, got %v", profile.Bio)
	}

	// Explicit null clears.
	profile, err = store.UpsertProfile(ctx, "", id, map[string]any{"bio": nil})
	if err != nil {
		t.Fatalf("UpsertProfile() error: %v", err)
	}
	if profile.Bio != nil {
		t.Errorf("Expected bio cleared, got %v", *profile.Bio)
	}

	// Reads persist across store instances backed by the same file.
	reopened, err := New(store.path, "test-secret")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	persisted, err := reopened.ProfileByID(ctx, "", id)
	if err != nil {
		t.Fatalf("ProfileByID() error: %v", err)
	}
	if persisted == nil || persisted.FullName == nil || *persisted.FullName != "Ada" {
		t.Errorf("Expected persisted profile, got %+v", persisted)
	}
}

func TestSkills(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	a, _ := store.SignUp(ctx, provider.SignUpParams{Email: "a@b.c", Password: "s"})
	b, _ := store.SignUp(ctx, provider.SignUpParams{Email: "b@c.d", Password: "s"})

	if err := store.UpdateSkills(ctx, "", a.User.ID, []string{"Python", "Guitar"}); err != nil {
		t.Fatalf("UpdateSkills() error: %v", err)
	}
	if err := store.UpdateSkills(ctx, "", b.User.ID, []string{"Guitar", "Spanish"}); err != nil {
		t.Fatalf("UpdateSkills() error: %v", err)
	}

	rows, err := store.ListSkillRows(ctx)
	if err != nil {
		t.Fatalf("ListSkillRows() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	seen := map[string]bool{}
	for _, row := range rows {
		for _, skill := range row.Skills {
			seen[skill] = true
		}
	}
	for _, want := range []string{"Python", "Guitar", "Spanish"} {
		if !seen[want] {
			t.Errorf("Expected skill %q in rows", want)
		}
	}
}

func TestListUsers_Pagination(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	emails := []string{"a@x.y", "b@x.y", "c@x.y", "d@x.y", "e@x.y"}
	for _, email := range emails {
		if _, err := store.SignUp(ctx, provider.SignUpParams{Email: email, Password: "s"}); err != nil {
			t.Fatalf("SignUp(%s) error: %v", email, err)
		}
	}

	page, err := store.ListUsers(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(page.Users) != 2 {
		t.Errorf("Expected 2 users on page 1, got %d", len(page.Users))
	}
	if page.NextPage == nil || *page.NextPage != 2 {
		t.Errorf("Expected next page 2, got %v", page.NextPage)
	}
	if page.LastPage == nil || *page.LastPage != 3 {
		t.Errorf("Expected last page 3, got %v", page.LastPage)
	}

	last, err := store.ListUsers(ctx, 3, 2)
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(last.Users) != 1 {
		t.Errorf("Expected 1 user on last page, got %d", len(last.Users))
	}
	if last.NextPage != nil {
		t.Errorf("Expected no next page, got %v", *last.NextPage)
	}
}
