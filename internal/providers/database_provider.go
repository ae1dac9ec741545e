package providers

import (
	"context"
	"database/sql"
	"fmt"
	"playtrack/internal/repositories"
	"strings"
	"playtrack/internal/structures"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

const dbConnectTimeout = 5 * time.Second

// sqlitePragmas go into the DSN so the driver applies them to every new connection.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

func sqliteDSN(dsn string) string {
	params := make([]string, 0, len(sqlitePragmas))
	for _, pragma := range sqlitePragmas {
		params = append(params, "_pragma="+pragma)
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// OpenDatabase opens a bun handle for the given driver ("sqlite" or "postgres").
func OpenDatabase(driver, dsn string, maxOpenConns int) (*bun.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()

	var db *bun.DB
	switch driver {
	case "sqlite":
		sqldb, err := sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// one writer at a time; also keeps in-memory databases on a single connection
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case "postgres":
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		if maxOpenConns > 0 {
			sqldb.SetMaxOpenConns(maxOpenConns)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	return db, nil
}

func NewDatabaseProvider(conf *structures.Config, logger Logger) (*bun.DB, func(), error) {
	db, err := OpenDatabase(conf.Database.Driver, conf.Database.DSN, conf.Database.MaxOpenConns)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbConnectTimeout)
	defer cancel()
	if err := repositories.CreateSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("schema setup failed: %w", err)
	}

	logger.Infof(TypeApp, "Database ready (%s)", conf.Database.Driver)
	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Errorf(TypeApp, "Error closing database: %s", err)
		}
	}
	return db, cleanup, nil
}
