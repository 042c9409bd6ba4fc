package entity

import (
	"fmt"
	"reflect"
)

var (
	entityType = reflect.TypeOf((*Entity)(nil)).Elem()
	modelType  = reflect.TypeOf(Model{})
)

// ClassOf returns the struct type backing value. Pointers are dereferenced and
// reflect.Type values are accepted as-is.
func ClassOf(value any) reflect.Type {
	if value == nil {
		return nil
	}
	t, ok := value.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(value)
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// ClassFor returns the class of T.
func ClassFor[T any]() reflect.Type {
	return ClassOf(reflect.TypeOf((*T)(nil)))
}

// IsEntityClass reports whether class is a concrete entity type: a struct whose
// pointer implements Entity. The Model base itself is abstract and rejected.
func IsEntityClass(class reflect.Type) bool {
	if class == nil || class.Kind() != reflect.Struct {
		return false
	}
	if class == modelType {
		return false
	}
	return reflect.PointerTo(class).Implements(entityType)
}

// New allocates a zero entity of class.
func New(class reflect.Type) (Entity, error) {
	if !IsEntityClass(class) {
		return nil, fmt.Errorf("entity: %v is not an entity class", class)
	}
	value, ok := reflect.New(class).Interface().(Entity)
	if !ok {
		return nil, fmt.Errorf("entity: %v does not implement Entity", class)
	}
	return value, nil
}

// ClassName returns a readable name for class, used in error messages and
// registry keys.
func ClassName(class reflect.Type) string {
	if class == nil {
		return "<nil>"
	}
	if class.PkgPath() == "" {
		return class.String()
	}
	return class.PkgPath() + "." + class.Name()
}

// IsNil reports whether row is nil or a typed nil pointer.
func IsNil(row Entity) bool { return isNil(row) }

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
