package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/wsfe-api/internal/application/wsfe"
)

// Ensure TxRunner implements wsfe.TxRunner.
var _ wsfe.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta unidades de trabajo dentro de una transacción PostgreSQL,
// serializadas por clave con advisory locks de transacción: dos unidades que
// comparten una clave se excluyen; claves disjuntas avanzan en paralelo.
// Commit hace visible todo junto; cualquier error hace Rollback completo.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia la transacción, toma los advisory locks de las claves en orden
// lexicográfico (evita deadlocks) y ejecuta fn con repos atados a la tx.
func (r *TxRunner) Run(ctx context.Context, keys []string, fn func(s wsfe.Stores) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	for _, key := range sorted {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
			return fmt.Errorf("advisory lock %q: %w", key, err)
		}
	}

	stores := wsfe.Stores{
		Sequences: NewSequenceRepository(tx),
		Receipts:  NewReceiptRepository(tx),
		CAEA:      NewCAEARepository(tx),
	}
	if err := fn(stores); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
