package form

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/goliatone/go-admingen/pkg/display"
	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
	"github.com/goliatone/go-admingen/pkg/repository"
	"github.com/goliatone/go-admingen/pkg/request"
	"github.com/goliatone/go-admingen/pkg/validation"
)

const multipartEncoding = "multipart/form-data"

// Form orchestrates an ordered list of elements and a ButtonSet over one
// model.
type Form struct {
	elements []Element
	buttons  ButtonSet

	repo      repository.Repository
	registry  *modelconfig.Registry
	validator *validation.Validator
	logger    *log.Logger
	defaults  Defaults

	class      reflect.Type
	model      entity.Entity
	action     string
	view       string
	attributes display.Attributes
}

// Option customises a Form.
type Option func(*Form)

// WithDefaults supplies the application wide settings.
func WithDefaults(defaults Defaults) Option {
	return func(f *Form) { f.defaults = defaults }
}

// WithButtons injects the ButtonSet, overriding Defaults.Buttons.
func WithButtons(buttons ButtonSet) Option {
	return func(f *Form) { f.buttons = buttons }
}

// WithRepository sets the persistence collaborator used by SaveForm.
func WithRepository(repo repository.Repository) Option {
	return func(f *Form) { f.repo = repo }
}

// WithRegistry sets the registry the model configuration is resolved from.
func WithRegistry(registry *modelconfig.Registry) Option {
	return func(f *Form) { f.registry = registry }
}

// WithValidator overrides Defaults.Validator.
func WithValidator(v *validation.Validator) Option {
	return func(f *Form) { f.validator = v }
}

// WithLogger overrides Defaults.Logger.
func WithLogger(logger *log.Logger) Option {
	return func(f *Form) { f.logger = logger }
}

// WithAction sets the URL the form posts to.
func WithAction(action string) Option {
	return func(f *Form) { f.action = strings.TrimSpace(action) }
}

// WithView overrides the template name.
func WithView(view string) Option {
	return func(f *Form) { f.view = strings.TrimSpace(view) }
}

// New constructs a form over elements.
func New(elements []Element, options ...Option) *Form {
	f := &Form{
		attributes: display.Attributes{"method": http.MethodPost},
	}
	for _, el := range elements {
		if el != nil {
			f.elements = append(f.elements, el)
		}
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	f.defaults = f.defaults.withFallbacks()
	if f.buttons == nil {
		f.buttons = f.defaults.Buttons()
	}
	if f.validator == nil {
		f.validator = f.defaults.Validator
	}
	if f.logger == nil {
		f.logger = f.defaults.Logger
	}
	if f.view == "" {
		f.view = f.defaults.View
	}
	return f
}

// Elements returns the form elements in order.
func (f *Form) Elements() []Element {
	return append([]Element(nil), f.elements...)
}

// AddElement appends el, binding the current model when one is set.
func (f *Form) AddElement(el Element) *Form {
	if el == nil {
		return f
	}
	if f.model != nil {
		el.SetModel(f.model)
	}
	f.elements = append(f.elements, el)
	return f
}

// Buttons returns the ButtonSet.
func (f *Form) Buttons() ButtonSet { return f.buttons }

// SetButtons replaces the ButtonSet and binds the current model to it.
func (f *Form) SetButtons(buttons ButtonSet) *Form {
	if buttons == nil {
		return f
	}
	f.buttons = buttons
	if f.model != nil {
		f.buttons.SetModel(f.model)
	}
	return f
}

// Repository returns the persistence collaborator.
func (f *Form) Repository() repository.Repository { return f.repo }

func (f *Form) Action() string { return f.action }

func (f *Form) SetAction(action string) *Form {
	f.action = strings.TrimSpace(action)
	return f
}

// ViewName returns the template name.
func (f *Form) ViewName() string { return f.view }

func (f *Form) SetView(view string) *Form {
	if trimmed := strings.TrimSpace(view); trimmed != "" {
		f.view = trimmed
	}
	return f
}

// Attribute returns a rendering attribute such as "enctype".
func (f *Form) Attribute(name string) (string, bool) {
	value, ok := f.attributes[name]
	return value, ok
}

// HasAttribute reports whether the rendering attribute name is set.
func (f *Form) HasAttribute(name string) bool {
	return f.attributes.Has(name)
}

// SetAttribute sets a rendering attribute.
func (f *Form) SetAttribute(name, value string) *Form {
	f.attributes.Set(name, value)
	return f
}

// Class returns the model class.
func (f *Form) Class() reflect.Type { return f.class }

// SetModelClass binds the model class. Classes that are not concrete entity
// types are rejected with ErrIncompatibleClass and the previous class is
// kept.
func (f *Form) SetModelClass(class reflect.Type) error {
	class = entity.ClassOf(class)
	if !entity.IsEntityClass(class) {
		return fmt.Errorf("%w: %s", ErrIncompatibleClass, entity.ClassName(class))
	}
	f.class = class
	return nil
}

// Model returns the bound model.
func (f *Form) Model() entity.Entity { return f.model }

// SetModel binds model to the form, every element and the ButtonSet. The
// class is taken from the model when none was set.
func (f *Form) SetModel(model entity.Entity) *Form {
	f.model = model
	if f.class == nil && model != nil {
		if class := entity.ClassOf(model); entity.IsEntityClass(class) {
			f.class = class
		}
	}
	for _, el := range f.elements {
		el.SetModel(model)
	}
	if f.buttons != nil {
		f.buttons.SetModel(model)
	}
	return f
}

// Configuration resolves the model configuration of the form class.
func (f *Form) Configuration() (modelconfig.Configuration, error) {
	if f.registry == nil {
		return nil, ErrNoRegistry
	}
	if f.class == nil {
		return nil, errors.New("form: model class is not set")
	}
	cfg, err := f.registry.Get(f.class)
	if err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}
	return cfg, nil
}

// Initialize binds the model to every element and initializes them. A new
// model of the form class is allocated when none is bound. The encoding is
// switched to multipart when any element submits files.
func (f *Form) Initialize(ctx context.Context) error {
	if f.model == nil && f.class != nil {
		model, err := entity.New(f.class)
		if err != nil {
			return fmt.Errorf("form: %w", err)
		}
		f.model = model
	}

	needsUpload := false
	for _, el := range f.elements {
		if f.model != nil {
			el.SetModel(f.model)
		}
		if err := el.Initialize(ctx); err != nil {
			return fmt.Errorf("form: initialize element: %w", err)
		}
		if requiresUpload(el) {
			needsUpload = true
		}
	}

	if f.registry != nil && f.class != nil {
		cfg, err := f.Configuration()
		if err != nil {
			return err
		}
		f.buttons.SetConfiguration(cfg)
	}
	f.buttons.SetModel(f.model)

	if needsUpload {
		f.attributes["enctype"] = multipartEncoding
	} else {
		delete(f.attributes, "enctype")
	}
	return nil
}

// ValidateForm validates in against the rules of every eligible element.
// cfg may be nil, in which case it is resolved from the registry. A veto of
// the validating event returns ErrVetoed without running validation; failed
// rules return *validation.Error.
func (f *Form) ValidateForm(ctx context.Context, cfg modelconfig.Configuration, in request.Input) error {
	cfg, err := f.resolve(cfg)
	if err != nil {
		return err
	}

	rules := make(map[string]string)
	messages := make(map[string]string)
	labels := make(map[string]string)
	for _, el := range f.elements {
		if !eligible(el) {
			continue
		}
		for field, rule := range el.ValidationRules() {
			rules[field] = validation.MergeRules(rules[field], rule)
		}
		for key, message := range el.ValidationMessages() {
			messages[key] = message
		}
		for field, label := range el.ValidationLabels() {
			labels[field] = label
		}
	}

	if !cfg.FireEvent(ctx, modelconfig.EventValidating, f.model) {
		return vetoed(modelconfig.EventValidating)
	}

	if err := f.validator.Validate(ctx, in, rules, messages, labels); err != nil {
		var failed *validation.Error
		if errors.As(err, &failed) {
			return failed
		}
		return fmt.Errorf("form: validate: %w", err)
	}
	return nil
}

// SaveForm persists the bound model inside one repository transaction:
//
//	saving → creating|updating → element Save → belongs-to pass →
//	model save → has-one pass → created|updated → element AfterSave → saved
//
// A veto of a before-event returns ErrVetoed and nothing is persisted. Any
// error rolls the transaction back and aborts the elements that already
// saved.
func (f *Form) SaveForm(ctx context.Context, cfg modelconfig.Configuration, in request.Input) error {
	cfg, err := f.resolve(cfg)
	if err != nil {
		return err
	}
	if f.model == nil {
		return ErrNoModel
	}
	if f.repo == nil {
		return ErrNoRepository
	}
	model := f.model

	if !cfg.FireEvent(ctx, modelconfig.EventSaving, model) {
		return vetoed(modelconfig.EventSaving)
	}

	creating := !persisted(model)
	before, after := modelconfig.EventUpdating, modelconfig.EventUpdated
	if creating {
		before, after = modelconfig.EventCreating, modelconfig.EventCreated
	}

	var saved []Element
	err = f.repo.Transaction(ctx, func(tx repository.Repository) error {
		if !cfg.FireEvent(ctx, before, model) {
			return vetoed(before)
		}

		for _, el := range f.elements {
			if !eligible(el) {
				continue
			}
			saved = append(saved, el)
			if err := el.Save(ctx, in); err != nil {
				return fmt.Errorf("form: save element: %w", err)
			}
		}

		if err := saveBelongsTo(ctx, tx, model); err != nil {
			return err
		}
		if err := tx.Save(ctx, model); err != nil {
			return fmt.Errorf("form: save model: %w", err)
		}
		if err := saveHasOne(ctx, tx, model); err != nil {
			return err
		}

		cfg.FireEvent(ctx, after, model)

		for _, el := range f.elements {
			if !eligible(el) {
				continue
			}
			if err := el.AfterSave(ctx, in); err != nil {
				return fmt.Errorf("form: after save element: %w", err)
			}
		}

		cfg.FireEvent(ctx, modelconfig.EventSaved, model)
		return nil
	})
	if err != nil {
		f.abort(ctx, saved)
		f.logger.Printf("[ERROR] form: save %s: %v", entity.ClassName(entity.ClassOf(model)), err)
		return err
	}

	f.logger.Printf("[INFO] form: saved %s %v", entity.ClassName(entity.ClassOf(model)), model.PrimaryKey())
	return nil
}

// abort undoes element side effects in reverse save order. Failures are
// logged; the save error is what the caller sees.
func (f *Form) abort(ctx context.Context, saved []Element) {
	for i := len(saved) - 1; i >= 0; i-- {
		aborter, ok := saved[i].(Aborter)
		if !ok {
			continue
		}
		if err := aborter.Abort(ctx); err != nil {
			f.logger.Printf("[WARN] form: abort element: %v", err)
		}
	}
}

func (f *Form) resolve(cfg modelconfig.Configuration) (modelconfig.Configuration, error) {
	if cfg != nil {
		return cfg, nil
	}
	return f.Configuration()
}

// persisted reports whether model already exists in storage.
func persisted(model entity.Entity) bool {
	if model == nil {
		return false
	}
	if existing, ok := model.(interface{ Exists() bool }); ok {
		return existing.Exists()
	}
	key := model.PrimaryKey()
	if key == nil {
		return false
	}
	return !reflect.ValueOf(key).IsZero()
}
