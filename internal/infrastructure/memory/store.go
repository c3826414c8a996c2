// Package memory implementa los repositorios del autorizador sobre mapas en
// memoria. Es el backend por defecto: determinista, sin dependencias externas,
// apto para homologación y tests. El estado vive lo que vive el proceso.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/wsfe-api/internal/domain"
	"github.com/jhoicas/wsfe-api/internal/domain/entity"
)

// Store guarda secuencias, registros de autorización y CAEA. Un RWMutex
// protege los mapas: las lecturas concurrentes ven siempre un registro
// consistente, nunca uno a medio escribir.
type Store struct {
	mu           sync.RWMutex
	sequences    map[string]int64
	receipts     map[string]*entity.AuthorizationRecord
	leases       map[string]*entity.CAEALease
	leasesByCode map[string]*entity.CAEALease
	used         map[string]bool
	unused       map[string]bool
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		sequences:    make(map[string]int64),
		receipts:     make(map[string]*entity.AuthorizationRecord),
		leases:       make(map[string]*entity.CAEALease),
		leasesByCode: make(map[string]*entity.CAEALease),
		used:         make(map[string]bool),
		unused:       make(map[string]bool),
	}
}

func seqKey(pos, docType int) string          { return fmt.Sprintf("%d/%d", pos, docType) }
func recKey(pos, docType int, n int64) string { return fmt.Sprintf("%d/%d/%d", pos, docType, n) }
func leaseKey(period string, f int) string    { return fmt.Sprintf("%s/%d", period, f) }
func usageKey(code string, pos int) string    { return fmt.Sprintf("%s/%d", code, pos) }

// ──────────────────────────────────────────────────────────────────────────────
// repository.SequenceRepository
// ──────────────────────────────────────────────────────────────────────────────

// Last devuelve el último número autorizado, 0 si no hay ninguno.
func (s *Store) Last(_ context.Context, pos, docType int) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sequences[seqKey(pos, docType)], nil
}

// ReserveNext compare-and-increment del contador: avanza sii docNum es el
// siguiente exacto; si no, domain.ErrOutOfSequence sin tocar nada.
func (s *Store) ReserveNext(_ context.Context, pos, docType int, docNum int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := seqKey(pos, docType)
	if s.sequences[key]+1 != docNum {
		return domain.ErrOutOfSequence
	}
	s.sequences[key] = docNum
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// repository.ReceiptRepository
// ──────────────────────────────────────────────────────────────────────────────

// Create registra la autorización; los registros son inmutables, una clave
// repetida es un bug del llamador.
func (s *Store) Create(_ context.Context, rec *entity.AuthorizationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recKey(rec.Pos, rec.DocType, rec.DocNum)
	if _, exists := s.receipts[key]; exists {
		return fmt.Errorf("registro de autorización duplicado: %s", key)
	}
	cp := *rec
	s.receipts[key] = &cp
	return nil
}

// Get devuelve una copia del registro o domain.ErrNotFound.
func (s *Store) Get(_ context.Context, pos, docType int, docNum int64) (*entity.AuthorizationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.receipts[recKey(pos, docType, docNum)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// repository.CAEARepository
// ──────────────────────────────────────────────────────────────────────────────

// CreateLease registra el CAEA; domain.ErrAlreadyLeased si el (período, orden)
// ya tiene uno otorgado.
func (s *Store) CreateLease(_ context.Context, lease *entity.CAEALease) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := leaseKey(lease.Period, lease.Fortnight)
	if _, exists := s.leases[key]; exists {
		return domain.ErrAlreadyLeased
	}
	cp := *lease
	s.leases[key] = &cp
	s.leasesByCode[cp.Code] = &cp
	return nil
}

// GetLease devuelve una copia del CAEA del (período, orden) o domain.ErrNotFound.
func (s *Store) GetLease(_ context.Context, period string, fortnight int) (*entity.CAEALease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lease, ok := s.leases[leaseKey(period, fortnight)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *lease
	return &cp, nil
}

// GetLeaseByCode devuelve una copia del CAEA con ese código o domain.ErrNotFound.
func (s *Store) GetLeaseByCode(_ context.Context, code string) (*entity.CAEALease, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lease, ok := s.leasesByCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *lease
	return &cp, nil
}

// MarkUsed marca el CAEA como usado para el punto de venta.
func (s *Store) MarkUsed(_ context.Context, code string, pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used[usageKey(code, pos)] = true
	return nil
}

// IsUsed indica si el CAEA fue usado en el punto de venta.
func (s *Store) IsUsed(_ context.Context, code string, pos int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used[usageKey(code, pos)], nil
}

// MarkUnused registra la declaración de sin movimiento.
func (s *Store) MarkUnused(_ context.Context, code string, pos int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unused[usageKey(code, pos)] = true
	return nil
}

// IsUnused indica si el punto de venta ya declaró sin movimiento.
func (s *Store) IsUnused(_ context.Context, code string, pos int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unused[usageKey(code, pos)], nil
}
