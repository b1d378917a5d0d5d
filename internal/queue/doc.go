// Package queue persists batch conversion jobs in SQLite and exposes helpers
// for driving their lifecycle.
//
// The Store manages database connections, schema initialization, status
// transitions, stuck-item recovery, and aggregate health queries. Items
// capture the job inputs (directory, pattern, settings, metadata) along with
// progress so interrupted runs can be inspected and retried.
//
// The database is transient storage for in-flight jobs rather than a
// long-term archive. Schema changes bump schemaVersion in schema.go; users
// clear the database to adopt the new schema.
package queue
