//go:build integration

// Package testdb provides PostgreSQL helpers for integration tests. Tests
// using it are skipped unless TASKS_TEST_DATABASE_URL or DATABASE_URL is set.
package testdb
