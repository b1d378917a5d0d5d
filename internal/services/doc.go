// Package services defines shared error semantics for the conversion stages.
//
// Structured error markers plus the Wrap helper let stage code tag failures
// (external tool, validation, configuration, not found, transient) so the
// runner and CLI can classify them consistently without string matching.
package services
