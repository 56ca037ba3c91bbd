// Package database holds the SQL implementation of store.TaskStore shared by
// the PostgreSQL and SQLite backends, together with the embedded schema
// migrations. Driver specifics such as placeholder syntax and constraint
// error codes are supplied through a Dialect.
package database
