// Package postgres provides the PostgreSQL backend: opening a pgx-backed
// connection pool, the placeholder dialect used by the shared SQL task
// store, and the mapping of PostgreSQL error codes onto store errors.
package postgres
