package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/wsfe-api/internal/domain"
	"github.com/jhoicas/wsfe-api/internal/domain/repository"
)

// Ensure SequenceRepository implements the domain port.
var _ repository.SequenceRepository = (*SequenceRepository)(nil)

// SequenceRepository contador de último comprobante autorizado por
// (punto de venta, tipo). El avance es un UPDATE condicionado al valor
// esperado: el propio predicado hace el compare-and-increment.
type SequenceRepository struct {
	db Querier
}

// NewSequenceRepository construye el repositorio.
func NewSequenceRepository(db Querier) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Last devuelve el último número autorizado, 0 si la clave no existe.
func (r *SequenceRepository) Last(ctx context.Context, pos, docType int) (int64, error) {
	var last int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE((SELECT last_num FROM wsfe_sequences WHERE pos = $1 AND doc_type = $2), 0)`,
		pos, docType,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("select last_num: %w", err)
	}
	return last, nil
}

// ReserveNext avanza el contador sii docNum es exactamente el siguiente.
// La fila se crea en el primer comprobante (docNum 1); después, el UPDATE
// condicionado a last_num = docNum-1 garantiza que no hay huecos ni repetidos.
func (r *SequenceRepository) ReserveNext(ctx context.Context, pos, docType int, docNum int64) error {
	if docNum == 1 {
		tag, err := r.db.Exec(ctx,
			`INSERT INTO wsfe_sequences (pos, doc_type, last_num) VALUES ($1, $2, 1)
			 ON CONFLICT (pos, doc_type) DO NOTHING`,
			pos, docType,
		)
		if err != nil {
			return fmt.Errorf("insert sequence: %w", err)
		}
		if tag.RowsAffected() == 1 {
			return nil
		}
		// La fila ya existía: el 1 solo es válido si el contador volvió a 0,
		// cosa que nunca pasa (el contador no decrece).
		return domain.ErrOutOfSequence
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE wsfe_sequences SET last_num = $3 WHERE pos = $1 AND doc_type = $2 AND last_num = $3 - 1`,
		pos, docType, docNum,
	)
	if err != nil {
		return fmt.Errorf("update sequence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOutOfSequence
	}
	return nil
}
