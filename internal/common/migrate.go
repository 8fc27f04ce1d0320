package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/sushihentaime/postbook/migrations"
)

// newMigrator builds a migrator over the embedded migrations of dialect. The
// release func returns any connection the migrator holds to the pool and must
// be called instead of m.Close, which would close db.
func newMigrator(db *sql.DB, dialect Dialect) (*migrate.Migrate, func(), error) {
	src, err := iofs.New(migrations.FS, string(dialect))
	if err != nil {
		return nil, nil, fmt.Errorf("could not load migrations: %w", err)
	}

	release := func() { src.Close() }

	var driver database.Driver
	switch dialect {
	case Postgres:
		var conn *sql.Conn
		conn, err = db.Conn(context.Background())
		if err != nil {
			break
		}
		release = func() {
			src.Close()
			conn.Close()
		}
		driver, err = postgres.WithConnection(context.Background(), conn, &postgres.Config{})
	case SQLite:
		driver, err = msqlite.WithInstance(db, &msqlite.Config{})
	default:
		err = fmt.Errorf("unsupported dialect %q", dialect)
	}
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(dialect), driver)
	if err != nil {
		release()
		return nil, nil, err
	}

	return m, release, nil
}

// Migrate brings the schema of db up to date using the embedded migrations
// for the given dialect.
func Migrate(db *sql.DB, dialect Dialect) error {
	m, release, err := newMigrator(db, dialect)
	if err != nil {
		return err
	}
	defer release()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// DropSchema drops every table of db, migration bookkeeping included.
func DropSchema(db *sql.DB, dialect Dialect) error {
	m, release, err := newMigrator(db, dialect)
	if err != nil {
		return err
	}
	defer release()

	return m.Drop()
}
