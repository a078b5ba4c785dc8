package persistence

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// gooseLogger routes goose output through zap.
type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.sugar.Fatalf(strings.TrimSuffix(format, "\n"), v...)
}

func prepareGoose(logger *zap.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{sugar: logger.Named("goose").Sugar()})
	return goose.SetDialect("postgres")
}

// RunMigrations applies the embedded SQL migrations.
func RunMigrations(ctx context.Context, gw *Gateway, logger *zap.Logger) error {
	if !gw.Configured() {
		logger.Warn("no database configured; skipping migrations")
		return nil
	}
	db, err := gw.DB()
	if err != nil {
		return err
	}
	if err := prepareGoose(logger); err != nil {
		return fmt.Errorf("configure migrations: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("migrations applied", zap.Int64("version", version))
	return nil
}

// MigrationStatus logs the state of every embedded migration.
func MigrationStatus(ctx context.Context, gw *Gateway, logger *zap.Logger) error {
	db, err := gw.DB()
	if err != nil {
		return err
	}
	if err := prepareGoose(logger); err != nil {
		return fmt.Errorf("configure migrations: %w", err)
	}
	return goose.StatusContext(ctx, db, migrationsDir)
}
