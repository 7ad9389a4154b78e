// Package etl loads the raw data sources into postgres and builds the
// enriched schema read by the API.
package etl

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/etnz/inflation/config"
)

// ErrMissingTable is returned by Replace when the table does not exist and
// creating it was not requested.
var ErrMissingTable = errors.New("table does not exist")

// DB is the subset of *pgxpool.Pool used by the jobs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Open connects to postgres as the dataflow user, the one allowed to write.
func Open(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DataflowDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %s: %w", cfg.Name, err)
	}
	return pool, nil
}

// Loader replaces raw tables.
type Loader struct {
	DB     DB
	Logger *zap.Logger
}

const existsSQL = `SELECT EXISTS (
	SELECT 1 FROM information_schema.tables
	WHERE table_schema = $1 AND table_name = $2
)`

// Replace drops and recreates t, then bulk loads rows, in one transaction.
// Unless newTable is true, t must already exist.
func (l *Loader) Replace(ctx context.Context, t Table, rows [][]any, newTable bool) (int64, error) {
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("updating table", zap.Stringer("table", t), zap.Int("rows", len(rows)))

	if !newTable {
		var exists bool
		if err := l.DB.QueryRow(ctx, existsSQL, t.Schema, t.Name).Scan(&exists); err != nil {
			return 0, fmt.Errorf("cannot check if %s exists: %w", t, err)
		}
		if !exists {
			return 0, fmt.Errorf("%w: %s (use a new table to create it)", ErrMissingTable, t)
		}
	}

	tx, err := l.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) // no-op once committed

	stmts := []string{
		"CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{t.Schema}.Sanitize(),
		"DROP TABLE IF EXISTS " + t.Identifier().Sanitize(),
		t.createSQL(),
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return 0, fmt.Errorf("cannot prepare %s: %w", t, err)
		}
	}
	n, err := tx.CopyFrom(ctx, t.Identifier(), t.ColumnNames(), pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("cannot copy rows into %s: %w", t, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("cannot commit %s: %w", t, err)
	}
	log.Info("table updated", zap.Stringer("table", t), zap.Int64("rows", n))
	return n, nil
}
