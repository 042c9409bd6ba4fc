package repository

import (
	"context"
	"reflect"

	"gorm.io/gorm/schema"

	"github.com/goliatone/go-admingen/pkg/entity"
)

// Relations reports the belongs-to and has-one relations loaded on model, as
// declared by its gorm mapping. Relations whose field is nil are skipped.
func (g *Gorm) Relations(ctx context.Context, model entity.Entity) ([]entity.Relation, error) {
	if model == nil {
		return nil, nil
	}
	sch, err := g.schema(model)
	if err != nil {
		return nil, err
	}

	owner := reflect.ValueOf(model)
	for owner.Kind() == reflect.Pointer {
		owner = owner.Elem()
	}

	var out []entity.Relation
	collect := func(kind entity.RelationKind, relationships []*schema.Relationship) {
		for _, rel := range relationships {
			related := loaded(ctx, rel.Field, owner)
			if related == nil {
				continue
			}
			out = append(out, entity.Relation{
				Name:       rel.Name,
				Kind:       kind,
				ForeignKey: foreignKey(rel),
				Related:    related,
			})
		}
	}
	collect(entity.BelongsTo, sch.Relationships.BelongsTo)
	collect(entity.HasOne, sch.Relationships.HasOne)
	return out, nil
}

func loaded(ctx context.Context, field *schema.Field, owner reflect.Value) entity.Entity {
	if field == nil || field.ReflectValueOf == nil {
		return nil
	}
	value := field.ReflectValueOf(ctx, owner)
	switch value.Kind() {
	case reflect.Pointer:
		if value.IsNil() {
			return nil
		}
	case reflect.Struct:
		if !value.CanAddr() || value.IsZero() {
			return nil
		}
		value = value.Addr()
	default:
		return nil
	}
	related, _ := value.Interface().(entity.Entity)
	return related
}

func foreignKey(rel *schema.Relationship) string {
	for _, ref := range rel.References {
		if ref.ForeignKey != nil {
			return ref.ForeignKey.Name
		}
	}
	return ""
}
