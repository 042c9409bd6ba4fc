package form

import (
	"io"
	"log"

	"github.com/goliatone/go-admingen/pkg/i18n"
	"github.com/goliatone/go-admingen/pkg/validation"
)

// DefaultView is the template name forms render with unless overridden.
const DefaultView = "form.default"

// Defaults carries the application wide form settings. Build it once at
// startup and hand it to every form through WithDefaults; forms never
// mutate it.
type Defaults struct {
	// Buttons builds the ButtonSet of forms that do not inject their own.
	// A fresh set is created per form because sets hold the bound model.
	Buttons   func() ButtonSet
	View      string
	Validator *validation.Validator
	Localizer i18n.Localizer
	Logger    *log.Logger
}

// NewDefaults returns the stock settings: DefaultButtons, DefaultView, a
// fresh validator and a discarding logger.
func NewDefaults() Defaults {
	return Defaults{}.withFallbacks()
}

// withFallbacks fills unset fields with the stock settings.
func (d Defaults) withFallbacks() Defaults {
	if d.Buttons == nil {
		localizer := d.Localizer
		d.Buttons = func() ButtonSet {
			return NewDefaultButtons(WithButtonLocalizer(localizer))
		}
	}
	if d.View == "" {
		d.View = DefaultView
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.Logger == nil {
		d.Logger = log.New(io.Discard, "", 0)
	}
	return d
}
