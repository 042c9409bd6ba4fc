package openapi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admingen/internal/demo"
	"github.com/goliatone/go-admingen/pkg/element"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/openapi"
	"github.com/goliatone/go-admingen/pkg/request"
	"github.com/goliatone/go-admingen/pkg/storage"
	"github.com/goliatone/go-admingen/pkg/testsupport"
)

const document = `
openapi: 3.0.3
info:
  title: Admin
  version: 1.0.0
paths: {}
components:
  schemas:
    Post:
      type: object
      required: [title, author_id]
      properties:
        title:
          type: string
          maxLength: 120
          x-admin-order: 1
        body:
          type: string
          maxLength: 5000
          description: Markdown body
          x-admin-order: 2
        status:
          type: string
          enum: [draft, published]
          default: draft
          x-admin-order: 3
        views:
          type: integer
          minimum: 0
          readOnly: true
          x-admin-order: 4
        published:
          type: boolean
          x-admin-order: 5
        cover:
          type: string
          format: binary
          x-admin-order: 6
        author_id:
          type: integer
          title: Author
          x-admin-order: 7
          x-admin-relationship:
            type: belongsTo
            model: author
            relation: Author
            display: Name
        keywords:
          type: string
          x-admin-order: 8
          x-admin-relationship:
            type: hasOne
            relation: Meta
            field: Keywords
`

type kinded interface {
	form.Element
	Kind() string
	Name() string
	Label() string
	RuleString() string
}

func load(t *testing.T) *openapi3.T {
	t.Helper()
	doc, err := openapi.Load(context.Background(), []byte(document))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

type summary struct {
	Kind, Name, Label, Rules string
	Readonly                 bool
}

func TestComponentElements(t *testing.T) {
	repo := testsupport.NewSeededRepository(t)
	builder := openapi.NewBuilder(
		openapi.WithRepository(repo),
		openapi.WithStorage(storage.NewLocal(t.TempDir(), "/uploads"), "posts"),
		openapi.WithClasses(demo.Classes()),
	)

	elements, err := builder.ComponentElements(load(t), "Post")
	if err != nil {
		t.Fatalf("ComponentElements: %v", err)
	}

	got := make([]summary, 0, len(elements))
	for _, el := range elements {
		k := el.(kinded)
		got = append(got, summary{Kind: k.Kind(), Name: k.Name(), Label: k.Label(), Rules: k.RuleString(), Readonly: el.IsReadonly()})
	}
	want := []summary{
		{Kind: "text", Name: "title", Label: "Title", Rules: "required|max:120"},
		{Kind: "textarea", Name: "body", Label: "Body", Rules: "max:5000"},
		{Kind: "select", Name: "status", Label: "Status", Rules: "in:draft,published"},
		{Kind: "number", Name: "views", Label: "Views", Rules: "integer|min:0", Readonly: true},
		{Kind: "checkbox", Name: "published", Label: "Published"},
		{Kind: "upload", Name: "cover", Label: "Cover"},
		{Kind: "belongsTo", Name: "author_id", Label: "Author", Rules: "required|integer"},
		{Kind: "hasOne", Name: "meta.keywords", Label: "Keywords"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}

	status := elements[2].(*element.Select)
	status.SetModel(&demo.Post{})
	if status.Value() != "draft" {
		t.Fatalf("default value = %v", status.Value())
	}
	if help := elements[1].(*element.Textarea).View().Help; help != "Markdown body" {
		t.Fatalf("help = %q", help)
	}
}

func TestBuiltFormSaves(t *testing.T) {
	repo := testsupport.NewSeededRepository(t)
	builder := openapi.NewBuilder(
		openapi.WithRepository(repo),
		openapi.WithStorage(storage.NewLocal(t.TempDir(), "/uploads"), "posts"),
		openapi.WithClasses(demo.Classes()),
	)
	elements, err := builder.ComponentElements(load(t), "Post")
	if err != nil {
		t.Fatalf("ComponentElements: %v", err)
	}
	registry, err := demo.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}

	f := form.New(elements, form.WithRepository(repo), form.WithRegistry(registry))
	f.SetModel(&demo.Post{})
	ctx := testsupport.Context()
	if err := f.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if enctype, _ := f.Attribute("enctype"); enctype != "multipart/form-data" {
		t.Fatalf("enctype = %q", enctype)
	}

	in := request.FromMap(map[string]any{
		"title":         "From schema",
		"status":        "published",
		"author_id":     "1",
		"views":         "99",
		"meta.keywords": "schema",
	})
	if err := f.ValidateForm(ctx, nil, in); err != nil {
		t.Fatalf("ValidateForm: %v", err)
	}
	if err := f.SaveForm(ctx, nil, in); err != nil {
		t.Fatalf("SaveForm: %v", err)
	}

	post := f.Model().(*demo.Post)
	if post.ID == 0 || post.AuthorID == nil || *post.AuthorID != 1 {
		t.Fatalf("unexpected post %#v", post)
	}
	if post.Views != 0 {
		t.Fatalf("readonly views must not be saved, got %d", post.Views)
	}
	if post.Meta == nil || post.Meta.PostID != post.ID {
		t.Fatalf("meta not linked: %#v", post.Meta)
	}
}

func TestRegistryPriorities(t *testing.T) {
	reg := openapi.NewRegistry()

	boolean := openapi.Property{Name: "flag", Schema: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}}
	if kind, ok := reg.Resolve(boolean); !ok || kind != openapi.KindCheckbox {
		t.Fatalf("boolean resolved to %q", kind)
	}

	explicit := boolean
	explicit.Widget = "toggle"
	if kind, _ := reg.Resolve(explicit); kind != "toggle" {
		t.Fatalf("explicit widget must win, got %q", kind)
	}

	reg.Register("switch", 90, func(p openapi.Property) bool { return p.Type() == "boolean" })
	if kind, _ := reg.Resolve(boolean); kind != openapi.KindCheckbox {
		t.Fatalf("ties keep registration order, got %q", kind)
	}
	reg.Register("switch", 91, func(p openapi.Property) bool { return p.Type() == "boolean" })
	if kind, _ := reg.Resolve(boolean); kind != "switch" {
		t.Fatalf("higher priority must win, got %q", kind)
	}

	object := openapi.Property{Name: "payload", Schema: &openapi3.Schema{Type: &openapi3.Types{"object"}}}
	if _, ok := reg.Resolve(object); ok {
		t.Fatalf("objects have no element kind")
	}
}

func TestBuilderErrors(t *testing.T) {
	doc := load(t)

	if _, err := openapi.NewBuilder(openapi.WithClasses(demo.Classes())).ComponentElements(doc, "Post"); err == nil || !strings.Contains(err.Error(), "no storage") {
		t.Fatalf("expected missing storage error, got %v", err)
	}
	if _, err := openapi.NewBuilder(openapi.WithStorage(storage.NewLocal(t.TempDir(), ""), "")).ComponentElements(doc, "Post"); err == nil || !strings.Contains(err.Error(), `unknown model "author"`) {
		t.Fatalf("expected unknown model error, got %v", err)
	}
	if _, err := openapi.NewBuilder().ComponentElements(doc, "Missing"); err == nil {
		t.Fatalf("expected missing component error")
	}

	bad := &openapi3.Schema{Properties: openapi3.Schemas{
		"author": &openapi3.SchemaRef{Value: &openapi3.Schema{Extensions: map[string]any{
			openapi.ExtRelationship: map[string]any{"type": "manyToMany"},
		}}},
	}}
	if _, err := openapi.NewBuilder().Elements(bad); err == nil || !strings.Contains(err.Error(), "unsupported type") {
		t.Fatalf("expected relationship error, got %v", err)
	}

	if _, err := openapi.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected empty document error")
	}
}

func TestWithFactoryOverridesKind(t *testing.T) {
	schema := &openapi3.Schema{Properties: openapi3.Schemas{
		"title": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
	}}
	builder := openapi.NewBuilder(openapi.WithFactory(openapi.KindText, func(p openapi.Property, opts []element.Option) (form.Element, error) {
		return element.NewTextarea(p.Field, "Custom "+p.Label, 2, opts...), nil
	}))

	elements, err := builder.Elements(schema)
	if err != nil {
		t.Fatalf("Elements: %v", err)
	}
	textarea, ok := elements[0].(*element.Textarea)
	if !ok || textarea.Label() != "Custom Title" || textarea.Rows() != 2 {
		t.Fatalf("unexpected element %#v", elements[0])
	}
}
