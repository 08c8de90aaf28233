package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/hapkiduki/boxspec-go/internal/application/port"
)

const sqliteDialect = "sqlite3"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// gooseLogger routes goose output through the application logger.
type gooseLogger struct {
	log port.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(fmt.Sprintf(format, v...))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(fmt.Sprintf(format, v...))
}

// Migrate runs all pending embedded SQL migrations.
//
// Parameters:
//   - ctx: context for cancellation
//   - db: open database
//   - log: receives migration progress; nil silences goose
//
// Returns:
//   - error: any error from goose
func Migrate(ctx context.Context, db *sql.DB, log port.Logger) error {
	goose.SetBaseFS(migrationsFS)
	if log != nil {
		goose.SetLogger(gooseLogger{log: log.With("component", "migrations")})
	} else {
		goose.SetLogger(goose.NopLogger())
	}

	if err := goose.SetDialect(sqliteDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}
