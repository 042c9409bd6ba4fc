package validation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-admingen/pkg/request"
)

// defaultMessages are used when no "field.rule" override is supplied.
// ":attribute" is replaced by the field label, ":min", ":max", ":size",
// ":values" and ":param" by the rule parameters.
var defaultMessages = map[string]string{
	"required": "The :attribute field is required.",
	"min":      "The :attribute must be at least :min.",
	"max":      "The :attribute may not be greater than :max.",
	"between":  "The :attribute must be between :min and :max.",
	"size":     "The :attribute must be :size.",
	"in":       "The selected :attribute is invalid.",
	"email":    "The :attribute must be a valid email address.",
	"url":      "The :attribute format is invalid.",
	"integer":  "The :attribute must be an integer.",
	"numeric":  "The :attribute must be a number.",
	"boolean":  "The :attribute field must be true or false.",
}

const fallbackMessage = "The :attribute is invalid."

// Validator checks submitted input against pipe separated rule strings using
// go-playground/validator tags underneath.
type Validator struct {
	validate *validator.Validate
	messages map[string]string
}

// Option customises a Validator.
type Option func(*Validator)

// WithValidate shares a configured validator instance, for example one that
// already has custom rules registered.
func WithValidate(v *validator.Validate) Option {
	return func(val *Validator) {
		if v != nil {
			val.validate = v
		}
	}
}

// WithMessage overrides the default message template of rule.
func WithMessage(rule, template string) Option {
	return func(val *Validator) {
		rule = strings.ToLower(strings.TrimSpace(rule))
		if rule != "" && strings.TrimSpace(template) != "" {
			val.messages[rule] = template
		}
	}
}

// New constructs a Validator.
func New(options ...Option) *Validator {
	v := &Validator{
		validate: validator.New(),
		messages: make(map[string]string, len(defaultMessages)),
	}
	for rule, template := range defaultMessages {
		v.messages[rule] = template
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// RegisterRule adds a custom rule usable from rule strings.
func (v *Validator) RegisterRule(name string, fn validator.Func, message string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || fn == nil {
		return errors.New("validation: rule name and func are required")
	}
	if err := v.validate.RegisterValidation(name, fn); err != nil {
		return fmt.Errorf("validation: register rule %q: %w", name, err)
	}
	if strings.TrimSpace(message) != "" {
		v.messages[name] = message
	}
	return nil
}

// Validate checks in against rules keyed by field name. messages overrides
// are keyed "field.rule"; labels name the fields in messages. A failed check
// returns *Error; malformed rules return a plain error.
func (v *Validator) Validate(ctx context.Context, in request.Input, rules, messages, labels map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	failed := &Error{}
	for _, field := range fields {
		parsed := ParseRules(rules[field])
		checks, optional, err := compile(parsed)
		if err != nil {
			return fmt.Errorf("validation: field %q: %w", field, err)
		}

		value := submitted(in, field)
		if optional && value == "" {
			continue
		}

		for _, chk := range checks {
			ok, err := v.run(value, chk)
			if err != nil {
				return fmt.Errorf("validation: field %q: %w", field, err)
			}
			if ok {
				continue
			}
			failed.Add(field, v.message(field, chk.rule, ruleParams(parsed, chk.rule), messages, labels))
			break
		}
	}

	if failed.Empty() {
		return nil
	}
	return failed
}

func (v *Validator) run(value string, chk check) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unknown rule %q: %v", chk.tag, r)
		}
	}()

	var subject any = value
	if chk.numeric {
		number, perr := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if perr != nil {
			return false, nil
		}
		subject = number
	}

	if err := v.validate.Var(subject, chk.tag); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return false, err
		}
		var failures validator.ValidationErrors
		if errors.As(err, &failures) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (v *Validator) message(field, rule string, params []string, overrides, labels map[string]string) string {
	template, ok := overrides[field+"."+rule]
	if !ok {
		template, ok = v.messages[rule]
	}
	if !ok {
		template = fallbackMessage
	}

	label := strings.TrimSpace(labels[field])
	if label == "" {
		label = humanize(field)
	}

	replacements := []string{":attribute", label, ":param", strings.Join(params, ", "), ":values", strings.Join(params, ", ")}
	switch rule {
	case "min":
		replacements = append(replacements, ":min", first(params))
	case "max":
		replacements = append(replacements, ":max", first(params))
	case "size":
		replacements = append(replacements, ":size", first(params))
	case "between":
		if len(params) == 2 {
			replacements = append(replacements, ":min", params[0], ":max", params[1])
		}
	}
	return strings.NewReplacer(replacements...).Replace(template)
}

// submitted reads the value checked for field. Uploaded files count as their
// file name so "required" works for upload fields.
func submitted(in request.Input, field string) string {
	if in == nil {
		return ""
	}
	if value, ok := in.Value(field); ok {
		return strings.TrimSpace(value)
	}
	if header, ok := in.File(field); ok {
		return header.Filename
	}
	return ""
}

func ruleParams(rules []Rule, name string) []string {
	for _, rule := range rules {
		if rule.Name == name {
			return rule.Params
		}
	}
	return nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func humanize(field string) string {
	replaced := strings.NewReplacer("_", " ", ".", " ", "-", " ").Replace(field)
	return strings.ToLower(strings.Join(strings.Fields(replaced), " "))
}
