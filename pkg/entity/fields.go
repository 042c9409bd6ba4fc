package entity

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownField is returned when an entity has no exported field by the
// requested name.
var ErrUnknownField = errors.New("entity: unknown field")

// Field returns the value of the exported struct field name. Dotted names walk
// into nested structs and pointers.
func Field(row Entity, name string) (any, bool) {
	field, err := lookup(row, name, false)
	if err != nil || !field.IsValid() {
		return nil, false
	}
	if field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return nil, true
		}
		return field.Elem().Interface(), true
	}
	return field.Interface(), true
}

// SetField assigns value to the exported struct field name, converting strings
// into the field's kind. A nil value or empty string clears pointer fields.
func SetField(row Entity, name string, value any) error {
	field, err := lookup(row, name, true)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("entity: field %q is not settable", name)
	}
	return assign(field, value)
}

// EnsureRelated returns the entity stored in the pointer field name of row,
// allocating it when nil.
func EnsureRelated(row Entity, name string) (Entity, error) {
	field, err := lookup(row, name, false)
	if err != nil {
		return nil, err
	}
	if field.Kind() != reflect.Pointer || field.Type().Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("entity: field %q is not a struct pointer", name)
	}
	if field.IsNil() {
		if !field.CanSet() {
			return nil, fmt.Errorf("entity: field %q is not settable", name)
		}
		field.Set(reflect.New(field.Type().Elem()))
	}
	related, ok := field.Interface().(Entity)
	if !ok {
		return nil, fmt.Errorf("entity: field %q does not hold an entity", name)
	}
	return related, nil
}

func lookup(row Entity, name string, allocate bool) (reflect.Value, error) {
	if isNil(row) {
		return reflect.Value{}, errors.New("entity: row is nil")
	}
	current := reflect.ValueOf(row)
	segments := strings.Split(strings.TrimSpace(name), ".")
	for idx, segment := range segments {
		for current.Kind() == reflect.Pointer {
			if current.IsNil() {
				if !allocate || !current.CanSet() {
					return reflect.Value{}, nil
				}
				current.Set(reflect.New(current.Type().Elem()))
			}
			current = current.Elem()
		}
		if current.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		field := current.FieldByName(segment)
		if !field.IsValid() || !field.CanInterface() {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		if idx == len(segments)-1 {
			return field, nil
		}
		current = field
	}
	return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
}

var timeType = reflect.TypeOf(time.Time{})

func assign(field reflect.Value, value any) error {
	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	raw := reflect.ValueOf(value)
	if raw.Type().AssignableTo(field.Type()) {
		field.Set(raw)
		return nil
	}

	if field.Kind() == reflect.Pointer {
		if text, ok := value.(string); ok && strings.TrimSpace(text) == "" {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		target := reflect.New(field.Type().Elem())
		if err := assign(target.Elem(), value); err != nil {
			return err
		}
		field.Set(target)
		return nil
	}

	if raw.Type().ConvertibleTo(field.Type()) && raw.Kind() != reflect.String && field.Kind() != reflect.String {
		field.Set(raw.Convert(field.Type()))
		return nil
	}

	text := strings.TrimSpace(fmt.Sprint(value))
	switch field.Kind() {
	case reflect.String:
		field.SetString(fmt.Sprint(value))
	case reflect.Bool:
		if text == "" {
			field.SetBool(false)
			return nil
		}
		if text == "on" {
			field.SetBool(true)
			return nil
		}
		parsed, err := strconv.ParseBool(text)
		if err != nil {
			return fmt.Errorf("entity: parse bool %q: %w", text, err)
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if text == "" {
			field.SetInt(0)
			return nil
		}
		parsed, err := strconv.ParseInt(text, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("entity: parse int %q: %w", text, err)
		}
		field.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if text == "" {
			field.SetUint(0)
			return nil
		}
		parsed, err := strconv.ParseUint(text, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("entity: parse uint %q: %w", text, err)
		}
		field.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		if text == "" {
			field.SetFloat(0)
			return nil
		}
		parsed, err := strconv.ParseFloat(text, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("entity: parse float %q: %w", text, err)
		}
		field.SetFloat(parsed)
	case reflect.Struct:
		if field.Type() != timeType {
			return fmt.Errorf("entity: cannot assign %T to %s", value, field.Type())
		}
		if text == "" {
			field.Set(reflect.Zero(timeType))
			return nil
		}
		parsed, err := parseTime(text)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(parsed))
	default:
		return fmt.Errorf("entity: cannot assign %T to %s", value, field.Type())
	}
	return nil
}

func parseTime(text string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("entity: parse time %q", text)
}
