package sqlite

// Dialect adapts the shared SQL task store to SQLite.
type Dialect struct{}

// Name returns the goose dialect name.
func (Dialect) Name() string { return "sqlite3" }

// Rebind returns query unchanged; SQLite understands '?' placeholders.
func (Dialect) Rebind(query string) string { return query }

// MapError implements the dialect error mapping with MapError.
func (Dialect) MapError(err error) error { return MapError(err) }
