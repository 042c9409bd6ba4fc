// Package openapi builds form elements from an OpenAPI component schema. Each
// schema property becomes one element; its kind is resolved through a
// priority registry of matchers and can be forced with the x-admin-widget
// extension. Relations are declared with x-admin-relationship.
package openapi
