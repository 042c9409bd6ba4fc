// Package modelconfig implements the model-configuration collaborator used by
// display columns and forms: per-row permission checks, URL generation for the
// row actions, and lifecycle events whose before-hooks may veto a phase.
package modelconfig
