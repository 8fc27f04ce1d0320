package common

import (
	"fmt"
	"regexp"
)

// Dialect names the SQL flavour a Store speaks. Queries are written with
// Postgres style placeholders and rebound for the other dialects.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

var placeholderRX = regexp.MustCompile(`\$(\d+)`)

// ParseDialect maps a configuration value onto a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(name) {
	case Postgres, SQLite:
		return Dialect(name), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// Rebind rewrites $N placeholders into the numbered form of the dialect.
func (d Dialect) Rebind(query string) string {
	if d == SQLite {
		return placeholderRX.ReplaceAllString(query, "?$1")
	}
	return query
}

// Contains returns a case-sensitive substring predicate on column against
// the n-th query argument.
func (d Dialect) Contains(column string, n int) string {
	if d == SQLite {
		return fmt.Sprintf("instr(%s, $%d) > 0", column, n)
	}
	return fmt.Sprintf("strpos(%s, $%d) > 0", column, n)
}
