// Package postgres implementa los repositorios del autorizador sobre
// PostgreSQL con pgx. La serialización por clave usa advisory locks de
// transacción; los importes NUMERIC se mapean a shopspring/decimal.
package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wsfe-api/pkg/config"
)

// Querier abstrae pool y transacción: los repositorios funcionan atados a
// cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool crea un pool de conexiones PostgreSQL usando la configuración de la app.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// Registrar codec para NUMERIC/DECIMAL -> shopspring/decimal (todas las conexiones del pool).
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// Migrate crea el esquema del autorizador si no existe. Idempotente; se
// ejecuta en el arranque cuando el storage driver es postgres.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
CREATE TABLE IF NOT EXISTS wsfe_sequences (
	pos       integer NOT NULL,
	doc_type  integer NOT NULL,
	last_num  bigint  NOT NULL DEFAULT 0,
	PRIMARY KEY (pos, doc_type)
);

CREATE TABLE IF NOT EXISTS wsfe_receipts (
	id        uuid PRIMARY KEY,
	cuit      text NOT NULL,
	pos       integer NOT NULL,
	doc_type  integer NOT NULL,
	doc_num   bigint  NOT NULL,
	code      text    NOT NULL,
	kind      text    NOT NULL,
	due_date  timestamptz NOT NULL,
	issued_at timestamptz NOT NULL,
	UNIQUE (pos, doc_type, doc_num)
);

CREATE TABLE IF NOT EXISTS wsfe_caea (
	id                 uuid PRIMARY KEY,
	period             text    NOT NULL,
	fortnight          integer NOT NULL,
	code               text    NOT NULL UNIQUE,
	valid_from         timestamptz NOT NULL,
	valid_until        timestamptz NOT NULL,
	reporting_deadline timestamptz NOT NULL,
	issued_at          timestamptz NOT NULL,
	UNIQUE (period, fortnight)
);

CREATE TABLE IF NOT EXISTS wsfe_caea_usage (
	code    text    NOT NULL REFERENCES wsfe_caea (code),
	pos     integer NOT NULL,
	used    boolean NOT NULL DEFAULT false,
	unused  boolean NOT NULL DEFAULT false,
	PRIMARY KEY (code, pos)
);`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrar esquema: %w", err)
	}
	return nil
}
