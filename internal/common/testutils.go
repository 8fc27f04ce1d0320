package common

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRabbitMQ(t *testing.T) string {
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12.11-management-alpine", rabbitmq.WithAdminUsername("guest"), rabbitmq.WithAdminPassword("guest"))
	if err != nil {
		t.Fatalf("could not start rabbitmq container: %v", err)
	}

	connURL, err := container.AmqpURL(ctx)
	if err != nil {
		t.Fatalf("could not get rabbitmq connection URL: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("could not terminate container: %v", err)
		}
	})

	return connURL
}

// TestDB starts a Postgres container and migrates it.
func TestDB(t *testing.T) *sql.DB {
	ctx := context.Background()

	c, err := postgres.Run(ctx,
		"docker.io/postgres:14.11-bookworm",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(30*time.Second)))
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	connURL, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	db, err := sql.Open("postgres", connURL)
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}

	if err := Migrate(db, Postgres); err != nil {
		t.Fatalf("could not run migrations: %v", err)
	}

	t.Cleanup(func() {
		DropSchema(db, Postgres)
		db.Close()
		c.Terminate(ctx)
	})

	return db
}

// TestSQLiteDB opens a private in-memory SQLite database and migrates it.
func TestSQLiteDB(t *testing.T) *sql.DB {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + uuid.NewString()

	db, err := NewSQLiteDB(MemoryDSN(name))
	if err != nil {
		t.Fatalf("could not open sqlite database: %v", err)
	}

	if err := Migrate(db, SQLite); err != nil {
		t.Fatalf("could not run migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestStore returns a migrated store for dialect.
func TestStore(t *testing.T, dialect Dialect) *Store {
	switch dialect {
	case Postgres:
		return NewStore(TestDB(t), Postgres)
	default:
		return NewStore(TestSQLiteDB(t), SQLite)
	}
}

// TestDialects lists the dialects a store test should run against. Postgres
// needs docker and is skipped in short mode.
func TestDialects() []Dialect {
	if testing.Short() {
		return []Dialect{SQLite}
	}
	return []Dialect{SQLite, Postgres}
}
