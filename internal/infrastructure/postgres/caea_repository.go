package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/wsfe-api/internal/domain"
	"github.com/jhoicas/wsfe-api/internal/domain/entity"
	"github.com/jhoicas/wsfe-api/internal/domain/repository"
)

// Ensure CAEARepository implements the domain port.
var _ repository.CAEARepository = (*CAEARepository)(nil)

// uniqueViolation código SQLSTATE de violación de restricción UNIQUE.
const uniqueViolation = "23505"

// CAEARepository persistencia de CAEA otorgados y marcas de uso por punto de venta.
type CAEARepository struct {
	db Querier
}

// NewCAEARepository construye el repositorio.
func NewCAEARepository(db Querier) *CAEARepository {
	return &CAEARepository{db: db}
}

// CreateLease inserta el CAEA; el UNIQUE (period, fortnight) traduce el
// conflicto a domain.ErrAlreadyLeased.
func (r *CAEARepository) CreateLease(ctx context.Context, lease *entity.CAEALease) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO wsfe_caea (id, period, fortnight, code, valid_from, valid_until, reporting_deadline, issued_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		lease.ID, lease.Period, lease.Fortnight, lease.Code,
		lease.ValidFrom, lease.ValidUntil, lease.ReportingDeadline, lease.IssuedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyLeased
		}
		return fmt.Errorf("insert caea: %w", err)
	}
	return nil
}

// GetLease devuelve el CAEA del (período, orden) o domain.ErrNotFound.
func (r *CAEARepository) GetLease(ctx context.Context, period string, fortnight int) (*entity.CAEALease, error) {
	return r.getLease(ctx,
		`SELECT id, period, fortnight, code, valid_from, valid_until, reporting_deadline, issued_at
		 FROM wsfe_caea WHERE period = $1 AND fortnight = $2`,
		period, fortnight)
}

// GetLeaseByCode devuelve el CAEA con el código dado o domain.ErrNotFound.
func (r *CAEARepository) GetLeaseByCode(ctx context.Context, code string) (*entity.CAEALease, error) {
	return r.getLease(ctx,
		`SELECT id, period, fortnight, code, valid_from, valid_until, reporting_deadline, issued_at
		 FROM wsfe_caea WHERE code = $1`,
		code)
}

func (r *CAEARepository) getLease(ctx context.Context, sql string, args ...any) (*entity.CAEALease, error) {
	var lease entity.CAEALease
	err := r.db.QueryRow(ctx, sql, args...).Scan(
		&lease.ID, &lease.Period, &lease.Fortnight, &lease.Code,
		&lease.ValidFrom, &lease.ValidUntil, &lease.ReportingDeadline, &lease.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select caea: %w", err)
	}
	return &lease, nil
}

// MarkUsed deja asentado el uso del CAEA en el punto de venta.
func (r *CAEARepository) MarkUsed(ctx context.Context, code string, pos int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO wsfe_caea_usage (code, pos, used) VALUES ($1, $2, true)
		 ON CONFLICT (code, pos) DO UPDATE SET used = true`,
		code, pos,
	)
	if err != nil {
		return fmt.Errorf("mark used: %w", err)
	}
	return nil
}

// IsUsed indica si el CAEA fue usado en el punto de venta.
func (r *CAEARepository) IsUsed(ctx context.Context, code string, pos int) (bool, error) {
	return r.flag(ctx, `SELECT used FROM wsfe_caea_usage WHERE code = $1 AND pos = $2`, code, pos)
}

// MarkUnused asienta la declaración de sin movimiento.
func (r *CAEARepository) MarkUnused(ctx context.Context, code string, pos int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO wsfe_caea_usage (code, pos, unused) VALUES ($1, $2, true)
		 ON CONFLICT (code, pos) DO UPDATE SET unused = true`,
		code, pos,
	)
	if err != nil {
		return fmt.Errorf("mark unused: %w", err)
	}
	return nil
}

// IsUnused indica si el punto de venta declaró sin movimiento.
func (r *CAEARepository) IsUnused(ctx context.Context, code string, pos int) (bool, error) {
	return r.flag(ctx, `SELECT unused FROM wsfe_caea_usage WHERE code = $1 AND pos = $2`, code, pos)
}

func (r *CAEARepository) flag(ctx context.Context, sql, code string, pos int) (bool, error) {
	var v bool
	err := r.db.QueryRow(ctx, sql, code, pos).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select usage: %w", err)
	}
	return v, nil
}
