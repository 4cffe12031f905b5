// Package postgres implements the relational store behind accounts,
// inventory, comments and sessions.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout  = 5 * time.Second
	uniqueViolation = "23505"
)

// Config captures the settings for opening the connection pool.
type Config struct {
	URL      string
	MaxConns int
	Timeout  time.Duration
	// TraceSQL logs every executed statement at debug level.
	TraceSQL bool
}

// Connect opens a database/sql pool on the pgx driver and validates it with a ping.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*sql.DB, error) {
	const op = "postgres.Connect"

	connCfg, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.TraceSQL {
		connCfg.Tracer = &queryTracer{log: log.With().Str("component", "sql").Logger()}
	}

	db := stdlib.OpenDB(*connCfg)
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
		db.SetMaxIdleConns(cfg.MaxConns / 2)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}
	return db, nil
}

// queryTracer logs executed statements in development.
type queryTracer struct {
	log zerolog.Logger
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	t.log.Debug().Str("sql", data.SQL).Int("args", len(data.Args)).Msg("executed query")
	return ctx
}

func (t *queryTracer) TraceQueryEnd(_ context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	if data.Err != nil {
		t.log.Debug().Err(data.Err).Msg("query failed")
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}
