package repos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"userapi/internal/config"
	applog "userapi/internal/log"
	"userapi/migrations"
)

type dialect struct {
	driver string // database/sql driver name
	goose  string // goose dialect
	dir    string // migrations subdirectory
}

var dialects = map[string]dialect{
	"sqlite":   {driver: "sqlite", goose: "sqlite3", dir: "sqlite"},
	"mysql":    {driver: "mysql", goose: "mysql", dir: "mysql"},
	"postgres": {driver: "pgx", goose: "postgres", dir: "postgres"},
}

// gooseUp is a seam for tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// OpenDB connects to the configured database, applies pool limits and runs
// the embedded migrations for its dialect.
func OpenDB(cfg config.Config) (*sqlx.DB, error) {
	name := strings.ToLower(cfg.DBDriver)
	if name == "" {
		name = "sqlite"
	}
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := sqlx.Open(d.driver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if d.driver == "sqlite" {
		// every new connection to ":memory:" is a fresh database
		db.SetMaxOpenConns(1)
	} else {
		if cfg.DBMaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		}
		if cfg.DBMaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		}
		if cfg.DBConnMaxLifetime > 0 {
			db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
		}
	}

	ctx := context.Background()
	if cfg.DBQueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DBQueryTimeout)
		defer cancel()
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate(context.Background(), db.DB, d); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB, d dialect) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(d.goose); err != nil {
		return err
	}
	return gooseUp(ctx, db, d.dir)
}

// gooseLogger routes migration output through the process logger.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	applog.Logger().Info().Msg("[migrate] " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...any) {
	applog.Logger().Fatal().Msg("[migrate] " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}
