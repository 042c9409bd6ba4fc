package demo

import (
	"fmt"

	"github.com/goliatone/go-admingen/pkg/display"
	"github.com/goliatone/go-admingen/pkg/element"
	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
	"github.com/goliatone/go-admingen/pkg/repository"
	"github.com/goliatone/go-admingen/pkg/storage"
)

// Preload lists the relations loaded when listing rows of alias.
func Preload(alias string) []string {
	if alias == "posts" {
		return []string{"Author", "Meta"}
	}
	return nil
}

// Columns returns the table columns of section alias, ending with the control
// column bound to cfg.
func Columns(alias string, cfg modelconfig.Configuration, options ...display.ColumnOption) ([]display.Column, error) {
	control := display.NewControlColumn(cfg, options...)
	switch alias {
	case "posts":
		return []display.Column{
			display.NewTextColumn("ID", "#"),
			display.NewTextColumn("Title", "Title"),
			display.NewCustomColumn("Author", authorName),
			display.NewTextColumn("Status", "Status"),
			control,
		}, nil
	case "authors":
		return []display.Column{
			display.NewTextColumn("ID", "#"),
			display.NewTextColumn("Name", "Name"),
			display.NewTextColumn("Email", "Email"),
			control,
		}, nil
	default:
		return nil, fmt.Errorf("demo: no columns for section %q", alias)
	}
}

func authorName(row entity.Entity) any {
	post, ok := row.(*Post)
	if !ok || post.Author == nil {
		return "-"
	}
	return post.Author.Name
}

// Elements returns the form elements of section alias.
func Elements(alias string, repo repository.Repository, store storage.Storage) ([]form.Element, error) {
	switch alias {
	case "posts":
		return []form.Element{
			element.NewText("Title", "Title", element.Required(), element.WithRules("max:255")),
			element.NewTextarea("Body", "Body", 6),
			element.NewSelect("Status", "Status", element.Choices("draft", "Draft", "published", "Published"),
				element.Required(), element.WithDefault("draft")),
			element.NewNumber("Views", "Views", element.WithRules("integer|min:0"), element.AsReadonly()),
			element.NewCheckbox("Published", "Published"),
			element.NewUpload("Cover", "Cover", store, "covers"),
			element.NewBelongsTo("AuthorID", "Author", "Author", entity.ClassFor[Author](), "Name", repo),
			element.NewHasOne("Meta", "Keywords", "Keywords", element.WithRules("max:255")),
		}, nil
	case "authors":
		return []form.Element{
			element.NewText("Name", "Name", element.Required(), element.WithRules("max:120")),
			element.NewText("Email", "Email", element.WithRules("email|max:255")),
		}, nil
	default:
		return nil, fmt.Errorf("demo: no form for section %q", alias)
	}
}
