package form

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-admingen/pkg/modelconfig"
)

var (
	// ErrVetoed is returned when a before-event handler aborts a phase.
	ErrVetoed = errors.New("form: vetoed by event handler")
	// ErrIncompatibleClass is returned by SetModelClass for classes that are
	// not concrete entity types. The previous class is kept.
	ErrIncompatibleClass = errors.New("form: incompatible model class")
	// ErrNoModel is returned when a phase needs a bound model.
	ErrNoModel = errors.New("form: no model bound")
	// ErrNoRepository is returned by SaveForm without a repository.
	ErrNoRepository = errors.New("form: repository is required")
	// ErrNoRegistry is returned when the configuration has to be resolved
	// without a registry.
	ErrNoRegistry = errors.New("form: model configuration registry is required")
)

func vetoed(event modelconfig.Event) error {
	return fmt.Errorf("%w: %s", ErrVetoed, event)
}
