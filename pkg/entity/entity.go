package entity

import (
	"time"

	"gorm.io/gorm"
)

// Entity is a single persisted row.
type Entity interface {
	PrimaryKey() any
}

// Trashable is implemented by entities that support soft deletes.
type Trashable interface {
	Trashed() bool
}

// RelationsProvider exposes the relations currently loaded on an entity.
type RelationsProvider interface {
	Relations() []Relation
}

// RelationKind enumerates the relation shapes the form save passes know about.
type RelationKind string

const (
	BelongsTo RelationKind = "belongsTo"
	HasOne    RelationKind = "hasOne"
	HasMany   RelationKind = "hasMany"
)

// Relation describes a loaded relation. ForeignKey names the Go struct field
// holding the key: on the owner for BelongsTo, on Related for HasOne.
type Relation struct {
	Name       string
	Kind       RelationKind
	ForeignKey string
	Related    Entity
}

// IsTrashed reports the soft-delete state of row. Entities without the
// capability are never trashed.
func IsTrashed(row Entity) bool {
	if row == nil {
		return false
	}
	if trashable, ok := row.(Trashable); ok {
		return trashable.Trashed()
	}
	return false
}

// RelationsOf returns the relations of row filtered by kind. An empty kind
// returns every relation.
func RelationsOf(row Entity, kind RelationKind) []Relation {
	provider, ok := row.(RelationsProvider)
	if !ok {
		return nil
	}
	var out []Relation
	for _, rel := range provider.Relations() {
		if isNil(rel.Related) {
			continue
		}
		if kind != "" && rel.Kind != kind {
			continue
		}
		out = append(out, rel)
	}
	return out
}

// Model is the gorm base embedded by admin-managed entities.
type Model struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// PrimaryKey returns the numeric identifier.
func (m *Model) PrimaryKey() any {
	return m.ID
}

// Trashed reports whether the row is soft deleted.
func (m *Model) Trashed() bool {
	return m.DeletedAt.Valid
}

// Exists reports whether the row has been persisted.
func (m *Model) Exists() bool {
	return m.ID != 0
}
