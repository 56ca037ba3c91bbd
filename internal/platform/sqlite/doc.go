// Package sqlite provides the embedded SQLite backend built on the pure Go
// modernc.org/sqlite driver. It is used for local development and for tests
// that need a real SQL engine without an external server.
package sqlite
