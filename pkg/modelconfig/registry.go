package modelconfig

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/goliatone/go-admingen/pkg/entity"
)

// Registry stores configurations by entity class, providing discovery and
// duplication safeguards. It is populated at startup and read per request.
type Registry struct {
	mu      sync.RWMutex
	byClass map[reflect.Type]Configuration
	byAlias map[string]reflect.Type
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		byClass: make(map[reflect.Type]Configuration),
		byAlias: make(map[string]reflect.Type),
	}
}

// Register adds a configuration for class. Duplicate classes return an error.
func (r *Registry) Register(class reflect.Type, cfg Configuration) error {
	if cfg == nil {
		return fmt.Errorf("modelconfig: configuration is required")
	}
	class = entity.ClassOf(class)
	if !entity.IsEntityClass(class) {
		return fmt.Errorf("modelconfig: %s is not an entity class", entity.ClassName(class))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byClass[class]; exists {
		return fmt.Errorf("modelconfig: configuration for %s already registered", entity.ClassName(class))
	}
	r.byClass[class] = cfg
	return nil
}

// RegisterSection registers s under its class and alias.
func (r *Registry) RegisterSection(s *Section) error {
	if s == nil {
		return fmt.Errorf("modelconfig: section is required")
	}
	r.mu.RLock()
	_, aliasTaken := r.byAlias[s.Alias()]
	r.mu.RUnlock()
	if aliasTaken {
		return fmt.Errorf("modelconfig: section alias %q already registered", s.Alias())
	}

	if err := r.Register(s.Class(), s); err != nil {
		return err
	}

	r.mu.Lock()
	r.byAlias[s.Alias()] = s.Class()
	r.mu.Unlock()
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(class reflect.Type, cfg Configuration) {
	if err := r.Register(class, cfg); err != nil {
		panic(err)
	}
}

// Get retrieves the configuration for class. Pointer types are accepted.
func (r *Registry) Get(class reflect.Type) (Configuration, error) {
	class = entity.ClassOf(class)

	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.byClass[class]
	if !ok {
		return nil, fmt.Errorf("modelconfig: no configuration for %s", entity.ClassName(class))
	}
	return cfg, nil
}

// Section resolves a section by alias.
func (r *Registry) Section(alias string) (*Section, error) {
	r.mu.RLock()
	class, ok := r.byAlias[alias]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("modelconfig: section %q not found", alias)
	}

	cfg, err := r.Get(class)
	if err != nil {
		return nil, err
	}
	section, ok := cfg.(*Section)
	if !ok {
		return nil, fmt.Errorf("modelconfig: %q is not a section", alias)
	}
	return section, nil
}

// Aliases returns the sorted section aliases.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byAlias))
	for name := range r.byAlias {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether class has a configuration.
func (r *Registry) Has(class reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byClass[entity.ClassOf(class)]
	return ok
}
