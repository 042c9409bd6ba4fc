package form_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-admingen/internal/demo"
	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
	"github.com/goliatone/go-admingen/pkg/repository"
	"github.com/goliatone/go-admingen/pkg/request"
	"github.com/goliatone/go-admingen/pkg/testsupport"
	"github.com/goliatone/go-admingen/pkg/validation"
)

type recorder struct{ calls []string }

func (r *recorder) add(call string) { r.calls = append(r.calls, call) }

// fakeElement records lifecycle calls.
type fakeElement struct {
	name     string
	readonly bool
	hidden   bool
	upload   bool
	rules    map[string]string
	labels   map[string]string
	rec      *recorder

	model       entity.Entity
	initialized int
}

func (e *fakeElement) SetModel(model entity.Entity) { e.model = model }
func (e *fakeElement) Initialize(context.Context) error {
	e.initialized++
	return nil
}
func (e *fakeElement) IsReadonly() bool                      { return e.readonly }
func (e *fakeElement) IsVisible() bool                       { return !e.hidden }
func (e *fakeElement) ValidationRules() map[string]string    { return e.rules }
func (e *fakeElement) ValidationMessages() map[string]string { return nil }
func (e *fakeElement) ValidationLabels() map[string]string   { return e.labels }
func (e *fakeElement) RequiresUpload() bool                  { return e.upload }

func (e *fakeElement) Save(context.Context, request.Input) error {
	e.rec.add("save:" + e.name)
	return nil
}

func (e *fakeElement) AfterSave(context.Context, request.Input) error {
	e.rec.add("after:" + e.name)
	return nil
}

func (e *fakeElement) Abort(context.Context) error {
	e.rec.add("abort:" + e.name)
	return nil
}

// fakeRepo records saves and assigns sequential keys to new rows.
type fakeRepo struct {
	rec     *recorder
	nextID  uint
	saveErr error
}

func (r *fakeRepo) Find(context.Context, reflect.Type, any) (entity.Entity, error) {
	return nil, repository.ErrNotFound
}
func (r *fakeRepo) List(context.Context, reflect.Type, repository.ListOptions) ([]entity.Entity, error) {
	return nil, nil
}
func (r *fakeRepo) Save(_ context.Context, model entity.Entity) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if existing, ok := model.(interface{ Exists() bool }); ok && !existing.Exists() {
		r.nextID++
		if err := entity.SetField(model, "ID", r.nextID); err != nil {
			return err
		}
	}
	r.rec.add("repo.save:" + reflect.TypeOf(model).Elem().Name())
	return nil
}
func (r *fakeRepo) Delete(context.Context, entity.Entity) error  { return nil }
func (r *fakeRepo) Destroy(context.Context, entity.Entity) error { return nil }
func (r *fakeRepo) Restore(context.Context, entity.Entity) error { return nil }
func (r *fakeRepo) Transaction(ctx context.Context, fn func(repository.Repository) error) error {
	r.rec.add("tx")
	return fn(r)
}

// recordingButtons captures the bindings made by the form.
type recordingButtons struct {
	cfg    modelconfig.Configuration
	models []entity.Entity
}

func (b *recordingButtons) SetConfiguration(cfg modelconfig.Configuration) { b.cfg = cfg }
func (b *recordingButtons) SetModel(model entity.Entity)                   { b.models = append(b.models, model) }
func (b *recordingButtons) Buttons() []form.ButtonView                     { return nil }

type writer struct {
	entity.Model
	Name string
}

type stats struct {
	entity.Model
	ArticleID uint
	Views     int
}

type article struct {
	entity.Model
	Title    string
	WriterID uint
	Writer   *writer
	Stats    *stats

	relationCalls int
}

func (a *article) Relations() []entity.Relation {
	a.relationCalls++
	return []entity.Relation{
		{Name: "Writer", Kind: entity.BelongsTo, ForeignKey: "WriterID", Related: a.Writer},
		{Name: "Stats", Kind: entity.HasOne, ForeignKey: "ArticleID", Related: a.Stats},
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	f := form.New(nil)
	if f.ViewName() != form.DefaultView {
		t.Fatalf("view = %q, want %q", f.ViewName(), form.DefaultView)
	}
	if _, ok := f.Buttons().(*form.DefaultButtons); !ok {
		t.Fatalf("expected default buttons, got %T", f.Buttons())
	}
	if method, _ := f.Attribute("method"); method != "POST" {
		t.Fatalf("method = %q", method)
	}

	injected := &recordingButtons{}
	defaults := form.Defaults{
		View:    "form.panel",
		Buttons: func() form.ButtonSet { return injected },
	}
	f = form.New(nil, form.WithDefaults(defaults))
	if f.ViewName() != "form.panel" || f.Buttons() != injected {
		t.Fatalf("defaults not applied: view=%q buttons=%T", f.ViewName(), f.Buttons())
	}

	override := &recordingButtons{}
	f = form.New(nil, form.WithDefaults(defaults), form.WithButtons(override), form.WithView("custom.template"))
	if f.Buttons() != override || f.ViewName() != "custom.template" {
		t.Fatalf("per form overrides must win")
	}
}

func TestInitializeSwitchesEncodingForUploads(t *testing.T) {
	rec := &recorder{}
	plain := &fakeElement{name: "title", rec: rec}
	upload := &fakeElement{name: "cover", upload: true, rec: rec}

	f := form.New([]form.Element{plain})
	if err := f.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if f.HasAttribute("enctype") {
		t.Fatalf("enctype must stay unset without upload elements")
	}

	f = form.New([]form.Element{plain, upload})
	if err := f.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got, _ := f.Attribute("enctype"); got != "multipart/form-data" {
		t.Fatalf("enctype = %q", got)
	}
}

func TestInitializeBindsNewModelAndButtons(t *testing.T) {
	registry, err := demo.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	rec := &recorder{}
	el := &fakeElement{name: "title", rec: rec}
	buttons := &recordingButtons{}
	repo := &fakeRepo{rec: rec}

	f := form.New([]form.Element{el}, form.WithRegistry(registry), form.WithButtons(buttons), form.WithRepository(repo))
	if err := f.SetModelClass(entity.ClassFor[demo.Post]()); err != nil {
		t.Fatalf("SetModelClass: %v", err)
	}
	if err := f.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if _, ok := el.model.(*demo.Post); !ok {
		t.Fatalf("element bound to %T, want *demo.Post", el.model)
	}
	if el.initialized != 1 {
		t.Fatalf("element initialized %d times", el.initialized)
	}
	section, ok := buttons.cfg.(*modelconfig.Section)
	if !ok || section.Alias() != "posts" {
		t.Fatalf("buttons configuration = %#v", buttons.cfg)
	}
	if len(buttons.models) != 1 || buttons.models[0] != f.Model() {
		t.Fatalf("buttons models = %#v", buttons.models)
	}
	if f.Repository() != repo {
		t.Fatalf("Repository() must return the injected repository")
	}
}

func TestSetModelClassRejectsIncompatibleClass(t *testing.T) {
	f := form.New(nil)
	postClass := entity.ClassFor[demo.Post]()

	if err := f.SetModelClass(postClass); err != nil {
		t.Fatalf("SetModelClass: %v", err)
	}
	for _, bad := range []reflect.Type{reflect.TypeOf(entity.Model{}), reflect.TypeOf(""), nil} {
		if err := f.SetModelClass(bad); !errors.Is(err, form.ErrIncompatibleClass) {
			t.Fatalf("SetModelClass(%v) = %v, want ErrIncompatibleClass", bad, err)
		}
		if f.Class() != postClass {
			t.Fatalf("class changed to %v", f.Class())
		}
	}

	if err := f.SetModelClass(reflect.TypeOf(&demo.Author{})); err != nil {
		t.Fatalf("pointer classes are accepted: %v", err)
	}
	if f.Class() != entity.ClassFor[demo.Author]() {
		t.Fatalf("class = %v", f.Class())
	}
}

func TestSetModelPropagates(t *testing.T) {
	rec := &recorder{}
	first := &fakeElement{name: "a", rec: rec}
	second := &fakeElement{name: "b", rec: rec}
	buttons := &recordingButtons{}
	f := form.New([]form.Element{first, second}, form.WithButtons(buttons))

	model := &demo.Post{Title: "x"}
	f.SetModel(model)

	if first.model != model || second.model != model {
		t.Fatalf("model not propagated to elements")
	}
	if len(buttons.models) != 1 || buttons.models[0] != model {
		t.Fatalf("model not propagated to buttons")
	}
	if f.Class() != entity.ClassFor[demo.Post]() {
		t.Fatalf("class must follow the first bound model, got %v", f.Class())
	}

	late := &fakeElement{name: "c", rec: rec}
	f.AddElement(late)
	if late.model != model {
		t.Fatalf("late elements must receive the bound model")
	}
}

func TestSaveFormRunsPhasesInOrder(t *testing.T) {
	rec := &recorder{}
	cfg := testsupport.NewConfiguration()
	repo := &fakeRepo{rec: rec}
	elements := []form.Element{
		&fakeElement{name: "title", rec: rec},
		&fakeElement{name: "locked", readonly: true, rec: rec},
		&fakeElement{name: "secret", hidden: true, rec: rec},
		&fakeElement{name: "body", rec: rec},
	}
	model := &article{Title: "New", Writer: &writer{Name: "Ada"}, Stats: &stats{Views: 3}}

	f := form.New(elements, form.WithRepository(repo))
	f.SetModel(model)
	if err := f.SaveForm(context.Background(), cfg, request.FromMap(nil)); err != nil {
		t.Fatalf("SaveForm: %v", err)
	}

	want := []string{
		"tx",
		"save:title", "save:body",
		"repo.save:writer", "repo.save:article", "repo.save:stats",
		"after:title", "after:body",
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
	testsupport.AssertEvents(t, cfg,
		modelconfig.EventSaving, modelconfig.EventCreating, modelconfig.EventCreated, modelconfig.EventSaved)

	if model.relationCalls != 2 {
		t.Fatalf("relations read %d times, want one per pass", model.relationCalls)
	}
	if model.WriterID != model.Writer.ID || model.WriterID == 0 {
		t.Fatalf("belongs-to key not copied: WriterID=%d writer=%d", model.WriterID, model.Writer.ID)
	}
	if model.Stats.ArticleID != model.ID || model.ID == 0 {
		t.Fatalf("has-one key not copied: ArticleID=%d article=%d", model.Stats.ArticleID, model.ID)
	}
}

func TestSaveFormFiresUpdateEventsForPersistedModels(t *testing.T) {
	rec := &recorder{}
	cfg := testsupport.NewConfiguration()
	model := &demo.Post{Model: entity.Model{ID: 7}, Title: "Existing"}

	f := form.New(nil, form.WithRepository(&fakeRepo{rec: rec}))
	f.SetModel(model)
	if err := f.SaveForm(context.Background(), cfg, request.FromMap(nil)); err != nil {
		t.Fatalf("SaveForm: %v", err)
	}
	testsupport.AssertEvents(t, cfg,
		modelconfig.EventSaving, modelconfig.EventUpdating, modelconfig.EventUpdated, modelconfig.EventSaved)
}

func TestSaveFormSavingVetoSkipsEverything(t *testing.T) {
	rec := &recorder{}
	cfg := testsupport.NewConfiguration().VetoOn(modelconfig.EventSaving)

	f := form.New([]form.Element{&fakeElement{name: "title", rec: rec}}, form.WithRepository(&fakeRepo{rec: rec}))
	f.SetModel(&demo.Post{})
	err := f.SaveForm(context.Background(), cfg, request.FromMap(nil))
	if !errors.Is(err, form.ErrVetoed) {
		t.Fatalf("expected ErrVetoed, got %v", err)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("vetoed save must not touch elements or repository: %v", rec.calls)
	}
	testsupport.AssertEvents(t, cfg, modelconfig.EventSaving)
}

func TestSaveFormCreatingVetoSkipsPersistence(t *testing.T) {
	rec := &recorder{}
	cfg := testsupport.NewConfiguration().VetoOn(modelconfig.EventCreating)

	f := form.New([]form.Element{&fakeElement{name: "title", rec: rec}}, form.WithRepository(&fakeRepo{rec: rec}))
	f.SetModel(&demo.Post{})
	err := f.SaveForm(context.Background(), cfg, request.FromMap(nil))
	if !errors.Is(err, form.ErrVetoed) {
		t.Fatalf("expected ErrVetoed, got %v", err)
	}
	if diff := cmp.Diff([]string{"tx"}, rec.calls); diff != "" {
		t.Fatalf("vetoed save must not reach elements (-want +got):\n%s", diff)
	}
	testsupport.AssertEvents(t, cfg, modelconfig.EventSaving, modelconfig.EventCreating)
}

func TestSaveFormAbortsSavedElementsOnFailure(t *testing.T) {
	rec := &recorder{}
	cfg := testsupport.NewConfiguration()
	boom := errors.New("disk full")
	elements := []form.Element{
		&fakeElement{name: "title", rec: rec},
		&fakeElement{name: "locked", readonly: true, rec: rec},
		&fakeElement{name: "cover", rec: rec},
	}

	f := form.New(elements, form.WithRepository(&fakeRepo{rec: rec, saveErr: boom}))
	f.SetModel(&demo.Post{})
	if err := f.SaveForm(context.Background(), cfg, request.FromMap(nil)); !errors.Is(err, boom) {
		t.Fatalf("expected repository error, got %v", err)
	}

	want := []string{"tx", "save:title", "save:cover", "abort:cover", "abort:title"}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
	testsupport.AssertEvents(t, cfg, modelconfig.EventSaving, modelconfig.EventCreating)
}

func TestSaveFormPreconditions(t *testing.T) {
	cfg := testsupport.NewConfiguration()

	f := form.New(nil, form.WithRepository(&fakeRepo{rec: &recorder{}}))
	if err := f.SaveForm(context.Background(), cfg, request.FromMap(nil)); !errors.Is(err, form.ErrNoModel) {
		t.Fatalf("expected ErrNoModel, got %v", err)
	}

	f = form.New(nil)
	f.SetModel(&demo.Post{})
	if err := f.SaveForm(context.Background(), cfg, request.FromMap(nil)); !errors.Is(err, form.ErrNoRepository) {
		t.Fatalf("expected ErrNoRepository, got %v", err)
	}
	if err := f.SaveForm(context.Background(), nil, request.FromMap(nil)); !errors.Is(err, form.ErrNoRegistry) {
		t.Fatalf("expected ErrNoRegistry, got %v", err)
	}
}

func TestValidateForm(t *testing.T) {
	rec := &recorder{}
	elements := []form.Element{
		&fakeElement{
			name:   "element",
			rules:  map[string]string{"element": "required"},
			labels: map[string]string{"element": "Element label"},
			rec:    rec,
		},
		&fakeElement{name: "locked", readonly: true, rules: map[string]string{"locked": "required"}, rec: rec},
		&fakeElement{name: "secret", hidden: true, rules: map[string]string{"secret": "required"}, rec: rec},
	}
	f := form.New(elements)
	f.SetModel(&demo.Post{})

	cfg := testsupport.NewConfiguration()
	err := f.ValidateForm(context.Background(), cfg, request.FromMap(map[string]any{"element": ""}))
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *validation.Error, got %v", err)
	}
	want := map[string][]string{"element": {"The Element label field is required."}}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	testsupport.AssertEvents(t, cfg, modelconfig.EventValidating)

	if err := f.ValidateForm(context.Background(), cfg, request.FromMap(map[string]any{"element": "test"})); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	vetoing := testsupport.NewConfiguration().VetoOn(modelconfig.EventValidating)
	if err := f.ValidateForm(context.Background(), vetoing, request.FromMap(nil)); !errors.Is(err, form.ErrVetoed) {
		t.Fatalf("expected ErrVetoed, got %v", err)
	}
}

func TestDefaultButtons(t *testing.T) {
	registry, err := demo.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	f := form.New(nil, form.WithRegistry(registry))
	if err := f.SetModelClass(entity.ClassFor[demo.Post]()); err != nil {
		t.Fatalf("SetModelClass: %v", err)
	}
	if err := f.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	names := func() []string {
		var out []string
		for _, button := range f.View().Buttons {
			out = append(out, button.Name)
		}
		return out
	}
	if diff := cmp.Diff([]string{"save_and_continue", "save_and_close", "cancel"}, names()); diff != "" {
		t.Fatalf("new model buttons mismatch (-want +got):\n%s", diff)
	}

	f.SetModel(&demo.Post{Model: entity.Model{ID: 4}})
	buttons := f.View().Buttons
	if len(buttons) != 4 || buttons[3].URL != "/admin/posts/4/delete" || buttons[2].URL != "/admin/posts" {
		t.Fatalf("persisted model buttons = %#v", buttons)
	}
}
