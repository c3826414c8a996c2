package repository

import (
	"context"

	"github.com/jhoicas/wsfe-api/internal/domain/entity"
)

// CAEARepository persiste los CAEA otorgados y su uso por punto de venta.
// Un CAEA existe a lo sumo una vez por (período, orden) y nunca se reemite.
// Para cada (CAEA, punto de venta) los estados "usado" e "informado sin
// movimiento" son excluyentes; esa regla la aplica el caso de uso, acá solo
// se registran y consultan las marcas.
type CAEARepository interface {
	// CreateLease registra un CAEA nuevo; domain.ErrAlreadyLeased si ya
	// existe uno para el (período, orden).
	CreateLease(ctx context.Context, lease *entity.CAEALease) error

	// GetLease devuelve el CAEA del (período, orden) o domain.ErrNotFound.
	GetLease(ctx context.Context, period string, fortnight int) (*entity.CAEALease, error)

	// GetLeaseByCode devuelve el CAEA con el código dado o domain.ErrNotFound.
	GetLeaseByCode(ctx context.Context, code string) (*entity.CAEALease, error)

	// MarkUsed registra que el CAEA fue usado en el punto de venta.
	MarkUsed(ctx context.Context, code string, pos int) error

	// IsUsed indica si el CAEA fue usado en el punto de venta.
	IsUsed(ctx context.Context, code string, pos int) (bool, error)

	// MarkUnused registra la declaración de sin movimiento del punto de venta.
	MarkUnused(ctx context.Context, code string, pos int) error

	// IsUnused indica si el punto de venta ya declaró sin movimiento.
	IsUnused(ctx context.Context, code string, pos int) (bool, error)
}
