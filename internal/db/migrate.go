package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/migrations"
)

func init() {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
}

// RunMigrations applies all pending migrations from the embedded FS.
func RunMigrations(ctx context.Context, params NewDBPoolParams) error {
	sqlDB, err := sql.Open("postgres", ConnString(params))
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Warnf("close migrations db: %s", err)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}
	log.Debugf("db schema at version %d", version)

	return nil
}

// MigrationsStatus reports the current schema version.
func MigrationsStatus(ctx context.Context, params NewDBPoolParams) (int64, error) {
	sqlDB, err := sql.Open("postgres", ConnString(params))
	if err != nil {
		return 0, fmt.Errorf("open db: %w", err)
	}
	defer sqlDB.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return 0, fmt.Errorf("set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}
