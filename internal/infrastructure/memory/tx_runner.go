package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/wsfe-api/internal/application/wsfe"
)

// Ensure TxRunner implements wsfe.TxRunner.
var _ wsfe.TxRunner = (*TxRunner)(nil)

// TxRunner serializa unidades de trabajo por clave con un mutex perezoso por
// clave. Claves disjuntas no se bloquean entre sí; para varias claves se toma
// el lock en orden lexicográfico, lo que evita deadlocks entre unidades que
// comparten claves.
type TxRunner struct {
	store *Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store, locks: make(map[string]*sync.Mutex)}
}

// Run toma los locks de todas las claves y ejecuta fn con los repositorios del
// almacén. fn corre excluido de cualquier otra unidad que comparta una clave.
func (r *TxRunner) Run(ctx context.Context, keys []string, fn func(s wsfe.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	for _, key := range sorted {
		r.lockFor(key).Lock()
	}
	defer func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			r.lockFor(sorted[i]).Unlock()
		}
	}()

	return fn(wsfe.Stores{Sequences: r.store, Receipts: r.store, CAEA: r.store})
}

// lockFor devuelve (creando si hace falta) el mutex de la clave.
func (r *TxRunner) lockFor(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	return l
}
