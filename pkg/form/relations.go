package form

import (
	"context"
	"fmt"

	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/repository"
)

// saveBelongsTo saves every loaded belongs-to parent and copies its key into
// the owner's foreign key so the owner save references it.
func saveBelongsTo(ctx context.Context, tx repository.Repository, model entity.Entity) error {
	relations, err := relationsOf(ctx, tx, model, entity.BelongsTo)
	if err != nil {
		return err
	}
	for _, rel := range relations {
		if err := tx.Save(ctx, rel.Related); err != nil {
			return fmt.Errorf("form: save belongs-to %q: %w", rel.Name, err)
		}
		if rel.ForeignKey == "" {
			continue
		}
		if err := entity.SetField(model, rel.ForeignKey, rel.Related.PrimaryKey()); err != nil {
			return fmt.Errorf("form: link belongs-to %q: %w", rel.Name, err)
		}
	}
	return nil
}

// saveHasOne copies the owner's key into each loaded has-one dependent and
// saves it. It runs after the owner save so the key exists.
func saveHasOne(ctx context.Context, tx repository.Repository, model entity.Entity) error {
	relations, err := relationsOf(ctx, tx, model, entity.HasOne)
	if err != nil {
		return err
	}
	for _, rel := range relations {
		if rel.ForeignKey != "" {
			if err := entity.SetField(rel.Related, rel.ForeignKey, model.PrimaryKey()); err != nil {
				return fmt.Errorf("form: link has-one %q: %w", rel.Name, err)
			}
		}
		if err := tx.Save(ctx, rel.Related); err != nil {
			return fmt.Errorf("form: save has-one %q: %w", rel.Name, err)
		}
	}
	return nil
}

// relationsOf prefers relations declared by the model and falls back to the
// repository mapping.
func relationsOf(ctx context.Context, tx repository.Repository, model entity.Entity, kind entity.RelationKind) ([]entity.Relation, error) {
	if _, ok := model.(entity.RelationsProvider); ok {
		return entity.RelationsOf(model, kind), nil
	}
	resolver, ok := tx.(repository.RelationResolver)
	if !ok {
		return nil, nil
	}
	all, err := resolver.Relations(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("form: relations: %w", err)
	}
	var out []entity.Relation
	for _, rel := range all {
		if rel.Kind == kind {
			out = append(out, rel)
		}
	}
	return out, nil
}
