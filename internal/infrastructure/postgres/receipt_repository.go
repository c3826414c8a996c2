package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wsfe-api/internal/domain"
	"github.com/jhoicas/wsfe-api/internal/domain/entity"
	"github.com/jhoicas/wsfe-api/internal/domain/repository"
)

// Ensure ReceiptRepository implements the domain port.
var _ repository.ReceiptRepository = (*ReceiptRepository)(nil)

// ReceiptRepository persistencia de los registros de autorización emitidos.
type ReceiptRepository struct {
	db Querier
}

// NewReceiptRepository construye el repositorio.
func NewReceiptRepository(db Querier) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// Create inserta el registro; los registros jamás se actualizan ni borran.
func (r *ReceiptRepository) Create(ctx context.Context, rec *entity.AuthorizationRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO wsfe_receipts (id, cuit, pos, doc_type, doc_num, code, kind, due_date, issued_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Cuit, rec.Pos, rec.DocType, rec.DocNum, rec.Code, rec.Kind, rec.DueDate, rec.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// Get devuelve el registro para la clave o domain.ErrNotFound.
func (r *ReceiptRepository) Get(ctx context.Context, pos, docType int, docNum int64) (*entity.AuthorizationRecord, error) {
	var rec entity.AuthorizationRecord
	err := r.db.QueryRow(ctx,
		`SELECT id, cuit, pos, doc_type, doc_num, code, kind, due_date, issued_at
		 FROM wsfe_receipts WHERE pos = $1 AND doc_type = $2 AND doc_num = $3`,
		pos, docType, docNum,
	).Scan(&rec.ID, &rec.Cuit, &rec.Pos, &rec.DocType, &rec.DocNum, &rec.Code, &rec.Kind, &rec.DueDate, &rec.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select receipt: %w", err)
	}
	return &rec, nil
}
