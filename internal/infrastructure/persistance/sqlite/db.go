// Package sqlite provides SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/hapkiduki/boxspec-go/internal/domain/repository"
)

// InMemoryDSN opens a private in-memory database.
const InMemoryDSN = ":memory:"

// Open opens a SQLite database, sets recommended pragmas, and validates connectivity.
//
// Parameters:
//   - ctx: context for the connectivity check
//   - dsn: file path or InMemoryDSN
//
// Returns:
//   - *sql.DB: ready database handle
//   - error: wraps repository.ErrConnectionFailed if the database cannot be reached
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database.
	if dsn == InMemoryDSN || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	pragmas := `
		PRAGMA foreign_keys = ON;
		PRAGMA busy_timeout = 5000;
	`
	if dsn != InMemoryDSN {
		pragmas += "PRAGMA journal_mode = WAL;"
	}
	if _, err := db.ExecContext(ctx, pragmas); err != nil {
		db.Close()
		return nil, fmt.Errorf("set sqlite pragmas: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping sqlite database: %v", repository.ErrConnectionFailed, err)
	}

	return db, nil
}
