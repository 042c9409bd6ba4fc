package entity_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gorm.io/gorm"

	"github.com/goliatone/go-admingen/pkg/entity"
)

type profile struct {
	entity.Model
	UserID uint
	Bio    string
}

type user struct {
	entity.Model
	Name     string
	Age      int
	Active   bool
	Score    *float64
	TeamID   uint
	Team     *team
	Profile  *profile
	internal string
}

func (u *user) Relations() []entity.Relation {
	return []entity.Relation{
		{Name: "Team", Kind: entity.BelongsTo, ForeignKey: "TeamID", Related: u.Team},
		{Name: "Profile", Kind: entity.HasOne, ForeignKey: "UserID", Related: u.Profile},
	}
}

type team struct {
	entity.Model
	Title string
}

type keyOnly struct{ Key string }

func (k *keyOnly) PrimaryKey() any { return k.Key }

func TestIsEntityClass(t *testing.T) {
	cases := map[string]struct {
		value any
		want  bool
	}{
		"struct embedding model": {value: &user{}, want: true},
		"value type":             {value: user{}, want: true},
		"custom key entity":      {value: keyOnly{}, want: true},
		"abstract base":          {value: entity.Model{}, want: false},
		"non entity":             {value: struct{ Name string }{}, want: false},
		"scalar":                 {value: 3, want: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := entity.IsEntityClass(entity.ClassOf(tc.value)); got != tc.want {
				t.Fatalf("IsEntityClass() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewAllocatesEntity(t *testing.T) {
	row, err := entity.New(entity.ClassFor[user]())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := row.(*user); !ok {
		t.Fatalf("expected *user, got %T", row)
	}
	if _, err := entity.New(entity.ClassFor[entity.Model]()); err == nil {
		t.Fatalf("expected error for abstract base")
	}
}

func TestIsTrashed(t *testing.T) {
	live := &user{}
	trashed := &user{Model: entity.Model{DeletedAt: gorm.DeletedAt{Valid: true}}}

	if entity.IsTrashed(live) {
		t.Fatalf("live row reported trashed")
	}
	if !entity.IsTrashed(trashed) {
		t.Fatalf("trashed row not reported")
	}
	if entity.IsTrashed(&keyOnly{}) {
		t.Fatalf("entity without soft deletes must never be trashed")
	}
}

func TestRelationsOfSkipsUnloaded(t *testing.T) {
	row := &user{Team: &team{Title: "core"}}

	belongs := entity.RelationsOf(row, entity.BelongsTo)
	if len(belongs) != 1 || belongs[0].Name != "Team" {
		t.Fatalf("unexpected belongs-to relations: %#v", belongs)
	}
	if hasOne := entity.RelationsOf(row, entity.HasOne); len(hasOne) != 0 {
		t.Fatalf("nil has-one relation must be skipped, got %#v", hasOne)
	}
	if all := entity.RelationsOf(&keyOnly{}, ""); all != nil {
		t.Fatalf("expected nil relations, got %#v", all)
	}
}

func TestSetFieldCoercesStrings(t *testing.T) {
	row := &user{}

	for name, value := range map[string]any{
		"Name":   "Ada",
		"Age":    "36",
		"Active": "on",
		"Score":  "9.5",
		"TeamID": "4",
	} {
		if err := entity.SetField(row, name, value); err != nil {
			t.Fatalf("SetField(%s): %v", name, err)
		}
	}

	score := 9.5
	want := &user{Name: "Ada", Age: 36, Active: true, Score: &score, TeamID: 4}
	if diff := cmp.Diff(want, row, cmp.AllowUnexported(user{})); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}

	if err := entity.SetField(row, "Score", ""); err != nil {
		t.Fatalf("clear pointer: %v", err)
	}
	if row.Score != nil {
		t.Fatalf("expected empty string to clear pointer field")
	}
}

func TestSetFieldErrors(t *testing.T) {
	row := &user{}

	if err := entity.SetField(row, "Missing", "x"); !errors.Is(err, entity.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := entity.SetField(row, "internal", "x"); !errors.Is(err, entity.ErrUnknownField) {
		t.Fatalf("expected unexported field to be unknown, got %v", err)
	}
	if err := entity.SetField(row, "Age", "many"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFieldAndNestedPaths(t *testing.T) {
	row := &user{Name: "Ada"}

	if value, ok := entity.Field(row, "Name"); !ok || value != "Ada" {
		t.Fatalf("Field(Name) = %v, %v", value, ok)
	}
	if _, ok := entity.Field(row, "Profile.Bio"); ok {
		t.Fatalf("expected nil relation path to be unresolved")
	}
	if err := entity.SetField(row, "Profile.Bio", "hello"); err != nil {
		t.Fatalf("SetField nested: %v", err)
	}
	if value, ok := entity.Field(row, "Profile.Bio"); !ok || value != "hello" {
		t.Fatalf("Field(Profile.Bio) = %v, %v", value, ok)
	}
}

func TestEnsureRelatedAllocates(t *testing.T) {
	row := &user{}

	related, err := entity.EnsureRelated(row, "Profile")
	if err != nil {
		t.Fatalf("EnsureRelated: %v", err)
	}
	if row.Profile == nil || related != entity.Entity(row.Profile) {
		t.Fatalf("expected allocated profile to be stored on the row")
	}

	again, err := entity.EnsureRelated(row, "Profile")
	if err != nil {
		t.Fatalf("EnsureRelated second call: %v", err)
	}
	if again != related {
		t.Fatalf("expected existing relation to be reused")
	}

	if _, err := entity.EnsureRelated(row, "Name"); err == nil {
		t.Fatalf("expected error for non pointer field")
	}
}
