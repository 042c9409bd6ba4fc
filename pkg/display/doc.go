// Package display renders list tables for admin sections. Columns bind to one
// row at a time and emit a semantic Cell (labels, values, per-row action
// buttons) that a template layer turns into markup.
//
// The ControlColumn composes the edit, delete, destroy and restore buttons.
// Each button is gated by an ActivationRule and points at a URLProducer; both
// are small interfaces holding their captured state explicitly so they can be
// inspected and tested in isolation.
package display
