package database

// Dialect captures what differs between the supported SQL drivers.
type Dialect interface {
	// Name returns the goose dialect name, e.g. "postgres" or "sqlite3".
	Name() string

	// Rebind rewrites a query written with '?' placeholders into the
	// driver's native placeholder syntax.
	Rebind(query string) string

	// MapError translates a driver error into the store error it represents.
	// Errors without a specific mapping are returned unchanged.
	MapError(err error) error
}
