// Package element provides the stock form elements. Each variant embeds
// Field, which composes the Named, Readonly, Visibility and Rules traits and
// implements form.Element for a single struct field of the bound model.
package element
