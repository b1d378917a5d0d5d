// Package logging builds the slog loggers used across m4bforge.
//
// Two formats are supported: a console handler that folds the "component"
// attribute into the message prefix for readable terminal output, and a JSON
// handler for machine consumption. NewFromConfig additionally tees output to
// m4bforge.log in the configured log directory.
package logging
