package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/spec-kit/process-desk/internal/config"
	apperrors "github.com/spec-kit/process-desk/pkg/util"
)

// ErrNotConfiguredMessage is shown to users when DATABASE_URL is missing.
const ErrNotConfiguredMessage = "DATABASE_URL não encontrada"

// DBTX is the subset of database/sql used by repositories.
// *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Target describes where the gateway connects, without the password.
type Target struct {
	Host     string
	Port     uint16
	Database string
	User     string
}

// Gateway hands out one connection per logical operation and always releases it.
type Gateway struct {
	db     *sql.DB
	target Target
	logger *zap.Logger
}

// ParseDatabaseURL validates a postgres:// URL and returns the pgx connection settings.
func ParseDatabaseURL(raw string) (*pgx.ConnConfig, error) {
	if raw == "" {
		return nil, apperrors.NewConfigurationError(ErrNotConfiguredMessage)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("DATABASE_URL inválida: %v", err))
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("DATABASE_URL inválida: esquema %q não suportado", u.Scheme))
	}
	connCfg, err := pgx.ParseConfig(raw)
	if err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("DATABASE_URL inválida: %v", err))
	}
	return connCfg, nil
}

// NewGateway opens a database handle when DATABASE_URL is provided.
// Without it the gateway is returned unconfigured and every operation
// reports a configuration error.
func NewGateway(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Gateway, error) {
	if !cfg.Configured() {
		logger.Warn("DATABASE_URL not provided; database operations will fail")
		return &Gateway{logger: logger}, nil
	}

	connCfg, err := ParseDatabaseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*connCfg)
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	g := &Gateway{
		db: db,
		target: Target{
			Host:     connCfg.Host,
			Port:     connCfg.Port,
			Database: connCfg.Database,
			User:     connCfg.User,
		},
		logger: logger,
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()
	if err := g.Ping(pingCtx); err != nil {
		logger.Warn("postgres not reachable at startup", zap.String("host", g.target.Host), zap.Error(err))
	} else {
		logger.Info("connected to postgres",
			zap.String("host", g.target.Host),
			zap.Uint16("port", g.target.Port),
			zap.String("database", g.target.Database),
		)
	}
	return g, nil
}

// NewGatewayFromDB wraps an already opened handle.
func NewGatewayFromDB(db *sql.DB, logger *zap.Logger) *Gateway {
	return &Gateway{db: db, logger: logger}
}

// Configured reports whether a database handle is available.
func (g *Gateway) Configured() bool {
	return g != nil && g.db != nil
}

// Target returns the parsed connection target.
func (g *Gateway) Target() Target {
	if g == nil {
		return Target{}
	}
	return g.target
}

// DB exposes the underlying handle for migrations.
func (g *Gateway) DB() (*sql.DB, error) {
	if !g.Configured() {
		return nil, apperrors.NewConfigurationError(ErrNotConfiguredMessage)
	}
	return g.db, nil
}

// WithConn acquires a connection, runs fn and releases the connection
// whether fn succeeds or not.
func (g *Gateway) WithConn(ctx context.Context, fn func(ctx context.Context, q DBTX) error) error {
	if !g.Configured() {
		return apperrors.NewConfigurationError(ErrNotConfiguredMessage)
	}
	conn, err := g.db.Conn(ctx)
	if err != nil {
		return apperrors.NewConnectionError(err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			g.logger.Warn("release connection", zap.Error(cerr))
		}
	}()
	return fn(ctx, conn)
}

// WithTx runs fn inside a transaction on a freshly acquired connection.
// It commits when fn returns nil and rolls back on error or panic.
func (g *Gateway) WithTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) (err error) {
	if !g.Configured() {
		return apperrors.NewConfigurationError(ErrNotConfiguredMessage)
	}
	conn, err := g.db.Conn(ctx)
	if err != nil {
		return apperrors.NewConnectionError(err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			g.logger.Warn("release connection", zap.Error(cerr))
		}
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewConnectionError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				g.logger.Warn("rollback failed", zap.Error(rerr))
			}
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = apperrors.NewQueryError(cerr)
		}
	}()

	err = fn(ctx, tx)
	return err
}

// Ping verifies database connectivity.
func (g *Gateway) Ping(ctx context.Context) error {
	if !g.Configured() {
		return apperrors.NewConfigurationError(ErrNotConfiguredMessage)
	}
	return g.db.PingContext(ctx)
}

// Close releases pool resources.
func (g *Gateway) Close() {
	if g.Configured() {
		_ = g.db.Close()
	}
}
