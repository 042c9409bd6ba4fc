package demo

import (
	"fmt"
	"reflect"

	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
)

// Classes maps the model names used in admin config files onto the demo
// entity classes.
func Classes() map[string]reflect.Type {
	return map[string]reflect.Type{
		"post":      entity.ClassFor[Post](),
		"author":    entity.ClassFor[Author](),
		"post_meta": entity.ClassFor[PostMeta](),
	}
}

// Registry registers the demo sections with default gates.
func Registry(options ...modelconfig.SectionOption) (*modelconfig.Registry, error) {
	registry := modelconfig.NewRegistry()

	posts, err := modelconfig.NewSection("posts", entity.ClassFor[Post](),
		append([]modelconfig.SectionOption{modelconfig.WithTitle("Posts")}, options...)...)
	if err != nil {
		return nil, fmt.Errorf("demo: posts section: %w", err)
	}
	authors, err := modelconfig.NewSection("authors", entity.ClassFor[Author](),
		modelconfig.WithTitle("Authors"),
		modelconfig.WithDestroyGate(modelconfig.Allow(false)),
	)
	if err != nil {
		return nil, fmt.Errorf("demo: authors section: %w", err)
	}

	for _, section := range []*modelconfig.Section{posts, authors} {
		if err := registry.RegisterSection(section); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
