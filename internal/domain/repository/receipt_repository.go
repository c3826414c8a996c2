package repository

import (
	"context"

	"github.com/jhoicas/wsfe-api/internal/domain/entity"
)

// ReceiptRepository persiste los registros de autorización emitidos,
// indexados por (punto de venta, tipo de comprobante, número).
// Los registros son inmutables: se crean una vez y se retienen para siempre.
type ReceiptRepository interface {
	Create(ctx context.Context, rec *entity.AuthorizationRecord) error

	// Get devuelve el registro para la clave o domain.ErrNotFound.
	Get(ctx context.Context, pos, docType int, docNum int64) (*entity.AuthorizationRecord, error)
}
