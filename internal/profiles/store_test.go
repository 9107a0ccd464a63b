package profiles

import (
	"context"
	"reflect"
	"testing"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
	"github.com/anshupriya0510/EchoSkill-project/internal/models"
	"github.com/anshupriya0510/EchoSkill-project/internal/request"
)

// fakeBackend is an in-memory provider.Profiles.
type fakeBackend struct {
	rows map[string]*models.Profile

	lastUpsertID     string
	lastUpsertFields map[string]any
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{rows: map[string]*models.Profile{}}
}

func (f *fakeBackend) ProfileByID(ctx context.Context, token, id string) (*models.Profile, error) {
	profile, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeBackend) UpsertProfile(ctx context.Context, token, id string, fields map[string]any) (*models.Profile, error) {
	f.lastUpsertID = id
	f.lastUpsertFields = fields
	profile, ok := f.rows[id]
	if !ok {
		profile = &models.Profile{ID: id}
		f.rows[id] = profile
	}
	if name, ok := fields["full_name"].(string); ok {
		profile.FullName = &name
	}
	return profile, nil
}

func (f *fakeBackend) ListSkillRows(ctx context.Context) ([]models.SkillRow, error) {
	rows := make([]models.SkillRow, 0, len(f.rows))
	for id, profile := range f.rows {
		rows = append(rows, models.SkillRow{ID: id, Skills: profile.Skills})
	}
	return rows, nil
}

func (f *fakeBackend) UpdateSkills(ctx context.Context, token, id string, skills []string) error {
	profile, ok := f.rows[id]
	if !ok {
		profile = &models.Profile{ID: id}
		f.rows[id] = profile
	}
	profile.Skills = skills
	return nil
}

func identityFor(id string) *request.Identity {
	return &request.Identity{
		Account: &models.Account{ID: id, Email: id + "@example.com"},
		Token:   "token-" + id,
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.rows["user-1"] = &models.Profile{ID: "user-1"}
	accessor := NewAccessor(backend)
	ctx := context.Background()

	t.Run("public by id without identity", func(t *testing.T) {
		profile, err := accessor.Get(ctx, nil, "user-1")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if profile == nil || profile.ID != "user-1" {
			t.Errorf("Expected user-1 profile, got %+v", profile)
		}
	})

	t.Run("self read requires identity", func(t *testing.T) {
		_, err := accessor.Get(ctx, nil, "")
		if !apperrors.IsKind(err, apperrors.KindAuthentication) {
			t.Errorf("Expected authentication error, got %v", err)
		}
	})

	t.Run("missing row is nil not error", func(t *testing.T) {
		profile, err := accessor.Get(ctx, nil, "ghost")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if profile != nil {
			t.Errorf("Expected nil for a missing row, got %+v", profile)
		}
	})
}

func TestUpsert(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	accessor := NewAccessor(backend)
	ctx := context.Background()

	t.Run("requires identity", func(t *testing.T) {
		_, err := accessor.Upsert(ctx, nil, map[string]any{"bio": "x"})
		if !apperrors.IsKind(err, apperrors.KindAuthentication) {
			t.Errorf("Expected authentication error, got %v", err)
		}
	})

	t.Run("keyed by caller and stamped", func(t *testing.T) {
		_, err := accessor.Upsert(ctx, identityFor("user-1"), map[string]any{"bio": "x"})
		if err != nil {
			t.Fatalf("Upsert() error: %v", err)
		}
		if backend.lastUpsertID != "user-1" {
			t.Errorf("Expected write keyed by caller, got %q", backend.lastUpsertID)
		}
		if _, ok := backend.lastUpsertFields["updated_at"]; !ok {
			t.Error("Expected updated_at to be stamped")
		}
		if backend.lastUpsertFields["bio"] != "x" {
			t.Errorf("Expected bio field, got %v", backend.lastUpsertFields["bio"])
		}
	})
}

func TestListSkills(t *testing.T) {
	t.Parallel()

	backend := newFakeBackend()
	backend.rows["a"] = &models.Profile{ID: "a", Skills: []string{"Python", "Guitar"}}
	backend.rows["b"] = &models.Profile{ID: "b", Skills: []string{"Guitar", "Spanish"}}
	backend.rows["c"] = &models.Profile{ID: "c"}
	accessor := NewAccessor(backend)

	skills, err := accessor.ListSkills(context.Background())
	if err != nil {
		t.Fatalf("ListSkills() error: %v", err)
	}

	want := []string{"Guitar", "Python", "Spanish"}
	if !reflect.DeepEqual(skills, want) {
		t.Errorf("Expected %v, got %v", want, skills)
	}
}

func TestAppendSkills(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("requires identity", func(t *testing.T) {
		t.Parallel()

		accessor := NewAccessor(newFakeBackend())
		_, err := accessor.AppendSkills(ctx, nil, []any{"Go"})
		if !apperrors.IsKind(err, apperrors.KindAuthentication) {
			t.Errorf("Expected authentication error, got %v", err)
		}
	})

	t.Run("rejects non-string entries without writing", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		backend.rows["user-1"] = &models.Profile{ID: "user-1", Skills: []string{"Go"}}
		accessor := NewAccessor(backend)

		_, err := accessor.AppendSkills(ctx, identityFor("user-1"), []any{"Rust", 42})
		if !apperrors.IsKind(err, apperrors.KindValidation) {
			t.Fatalf("Expected validation error, got %v", err)
		}
		if !reflect.DeepEqual(backend.rows["user-1"].Skills, []string{"Go"}) {
			t.Errorf("Stored skills must be untouched, got %v", backend.rows["user-1"].Skills)
		}
	})

	t.Run("merges as a set", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		backend.rows["user-1"] = &models.Profile{ID: "user-1", Skills: []string{"Go", "SQL"}}
		accessor := NewAccessor(backend)

		merged, err := accessor.AppendSkills(ctx, identityFor("user-1"), []any{"SQL", "Rust"})
		if err != nil {
			t.Fatalf("AppendSkills() error: %v", err)
		}
		want := []string{"Go", "Rust", "SQL"}
		if !reflect.DeepEqual(merged, want) {
			t.Errorf("Expected %v, got %v", want, merged)
		}
		if !reflect.DeepEqual(backend.rows["user-1"].Skills, want) {
			t.Errorf("Expected persisted %v, got %v", want, backend.rows["user-1"].Skills)
		}
	})

	t.Run("first skills on empty profile", func(t *testing.T) {
		t.Parallel()

		backend := newFakeBackend()
		accessor := NewAccessor(backend)

		merged, err := accessor.AppendSkills(ctx, identityFor("user-2"), []any{"Chess"})
		if err != nil {
			t.Fatalf("AppendSkills() error: %v", err)
		}
		if !reflect.DeepEqual(merged, []string{"Chess"}) {
			t.Errorf("Expected [Chess], got %v", merged)
		}
	})
}
