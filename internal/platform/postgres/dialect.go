package postgres

import (
	"strconv"
	"strings"
)

// Dialect adapts the shared SQL task store to PostgreSQL.
type Dialect struct{}

// Name returns the goose dialect name.
func (Dialect) Name() string { return "postgres" }

// Rebind replaces each '?' placeholder with its positional $n form.
// Question marks inside single-quoted literals are left alone.
func (Dialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inLiteral := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inLiteral = !inLiteral
			b.WriteByte(c)
		case c == '?' && !inLiteral:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// MapError implements the dialect error mapping with MapError.
func (Dialect) MapError(err error) error { return MapError(err) }
