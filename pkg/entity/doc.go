// Package entity defines the row contract the admin layer renders and edits.
// Entities are gorm models: a primary key accessor is mandatory while
// soft-delete state and loaded relations are optional capabilities detected
// through interface assertions. A model "class" is the reflect.Type of the
// underlying struct.
package entity
