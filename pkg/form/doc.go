// Package form drives the admin form lifecycle: elements are bound to a
// model, initialized, validated against the submitted input and saved,
// with belongs-to relations persisted before the owner and has-one
// relations after it. Lifecycle events fired through the model
// configuration may veto validation and saving.
package form
