package wsfe

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/wsfe-api/internal/domain"
	"github.com/jhoicas/wsfe-api/internal/domain/entity"
	domwsfe "github.com/jhoicas/wsfe-api/internal/domain/wsfe"
	"github.com/jhoicas/wsfe-api/pkg/logger"
)

// CAEAUseCase gestiona los códigos de autorización anticipados: otorgamiento
// por (período, quincena), consulta, régimen informativo y declaración de
// sin movimiento por punto de venta.
type CAEAUseCase struct {
	runner TxRunner
	stores Stores
	codes  CodeGenerator
	clock  Clock
	log    *logger.Logger
}

// NewCAEAUseCase construye el caso de uso.
func NewCAEAUseCase(runner TxRunner, stores Stores, codes CodeGenerator, clock Clock, log *logger.Logger) *CAEAUseCase {
	return &CAEAUseCase{runner: runner, stores: stores, codes: codes, clock: clock, log: log}
}

// Lease otorga un CAEA para el período y quincena (FECAEASolicitar). Un CAEA
// jamás se reemite: pedir dos veces el mismo (período, orden) es error 15008.
func (uc *CAEAUseCase) Lease(ctx context.Context, cuit, period string, fortnight int) (*entity.CAEALease, error) {
	now := uc.clock()
	dates, reqErr := domwsfe.ComputeCAEADates(now, period, fortnight)
	if reqErr != nil {
		return nil, reqErr
	}

	var lease *entity.CAEALease
	err := uc.runner.Run(ctx, []string{LeaseKey(period, fortnight)}, func(s Stores) error {
		if _, err := s.CAEA.GetLease(ctx, period, fortnight); err == nil {
			return errAlreadyGranted()
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("consultar CAEA existente: %w", err)
		}

		code, err := uc.codes.NextCode()
		if err != nil {
			return fmt.Errorf("acuñar CAEA: %w", err)
		}

		lease = &entity.CAEALease{
			ID:                uuid.NewString(),
			Period:            period,
			Fortnight:         fortnight,
			Code:              code,
			ValidFrom:         dates.ValidFrom,
			ValidUntil:        dates.ValidUntil,
			ReportingDeadline: dates.ReportingDeadline,
			IssuedAt:          now,
		}
		if err := s.CAEA.CreateLease(ctx, lease); err != nil {
			if errors.Is(err, domain.ErrAlreadyLeased) {
				return errAlreadyGranted()
			}
			return fmt.Errorf("registrar CAEA: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("cuit", cuit).Str("periodo", period).Int("orden", fortnight).Str("caea", lease.Code).
		Msg("CAEA otorgado")
	return lease, nil
}

// Query devuelve el CAEA existente para (período, orden) o error 602
// (FECAEAConsultar). Solo lectura.
func (uc *CAEAUseCase) Query(ctx context.Context, period string, fortnight int) (*entity.CAEALease, error) {
	lease, err := uc.stores.CAEA.GetLease(ctx, period, fortnight)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domwsfe.ErrNotFoundRequest()
		}
		return nil, fmt.Errorf("consultar CAEA: %w", err)
	}
	return lease, nil
}

// InformUsage registra un comprobante emitido bajo un CAEA (FECAEARegInformativo).
// Misma disciplina de validación y secuencia que la emisión de CAE, pero el
// registro referencia el CAEA preexistente, vence con él, y deja marcado el
// uso del código para ese punto de venta.
func (uc *CAEAUseCase) InformUsage(ctx context.Context, cuit, caeaCode string, pos, docType int, docNum int64, receipt *entity.Receipt) (*entity.AuthorizationRecord, error) {
	if receipt == nil {
		return nil, domain.ErrInvalidInput
	}
	if reqErr := domwsfe.ValidateReceipt(docType, receipt); reqErr != nil {
		return nil, reqErr
	}

	var rec *entity.AuthorizationRecord
	keys := []string{SequenceKey(pos, docType), UsageKey(caeaCode, pos)}
	err := uc.runner.Run(ctx, keys, func(s Stores) error {
		lease, err := s.CAEA.GetLeaseByCode(ctx, caeaCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errUnknownCAEA()
			}
			return fmt.Errorf("consultar CAEA: %w", err)
		}

		if err := s.Sequences.ReserveNext(ctx, pos, docType, docNum); err != nil {
			if errors.Is(err, domain.ErrOutOfSequence) {
				return domwsfe.ErrOutOfSequenceRequest()
			}
			return fmt.Errorf("reservar número: %w", err)
		}

		rec = &entity.AuthorizationRecord{
			ID:       uuid.NewString(),
			Cuit:     cuit,
			Pos:      pos,
			DocType:  docType,
			DocNum:   docNum,
			Code:     lease.Code,
			Kind:     entity.AuthKindCAEA,
			DueDate:  lease.ValidUntil,
			IssuedAt: uc.clock(),
		}
		if err := s.Receipts.Create(ctx, rec); err != nil {
			return err
		}
		return s.CAEA.MarkUsed(ctx, lease.Code, pos)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("cuit", cuit).Int("pto_vta", pos).Int("cbte_tipo", docType).Int64("cbte_nro", docNum).
		Str("caea", caeaCode).
		Msg("comprobante informado bajo CAEA")
	return rec, nil
}

// DeclareUnused informa que el punto de venta no tuvo movimiento bajo el CAEA
// (FECAEASinMovimientoInformar). Para un mismo (CAEA, pos), "usado" y "sin
// movimiento" son excluyentes y la declaración no se repite.
func (uc *CAEAUseCase) DeclareUnused(ctx context.Context, cuit string, pos int, caeaCode string) error {
	err := uc.runner.Run(ctx, []string{UsageKey(caeaCode, pos)}, func(s Stores) error {
		if _, err := s.CAEA.GetLeaseByCode(ctx, caeaCode); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errUnknownCAEA()
			}
			return fmt.Errorf("consultar CAEA: %w", err)
		}

		used, err := s.CAEA.IsUsed(ctx, caeaCode, pos)
		if err != nil {
			return fmt.Errorf("consultar uso: %w", err)
		}
		if used {
			return domwsfe.Failed(domwsfe.ServiceError{
				Code: domwsfe.CodeCAEAUsed,
				Msg:  "El codigo de CAEA que se esta informando fue utilizado en un comprobante para este punto de venta",
			})
		}

		declared, err := s.CAEA.IsUnused(ctx, caeaCode, pos)
		if err != nil {
			return fmt.Errorf("consultar declaración: %w", err)
		}
		if declared {
			return domwsfe.Failed(domwsfe.ServiceError{
				Code: domwsfe.CodeCAEADeclared,
				Msg:  "El punto de venta informado como sin movimiento ya fue notificado",
			})
		}

		return s.CAEA.MarkUnused(ctx, caeaCode, pos)
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("cuit", cuit).Int("pto_vta", pos).Str("caea", caeaCode).
		Msg("CAEA informado sin movimiento")
	return nil
}

func errAlreadyGranted() *domwsfe.RequestError {
	return domwsfe.Failed(domwsfe.ServiceError{
		Code: domwsfe.CodeCAEAAlreadyGranted,
		Msg: "Existe un CAEA otorgado para la CUIT solicitante con el periodo y orden informado. " +
			"Consultar el metodo FECAEAConsultar.",
	})
}

func errUnknownCAEA() *domwsfe.RequestError {
	return domwsfe.Failed(domwsfe.ServiceError{
		Code: domwsfe.CodeUnknownCAEA,
		Msg:  "El codigo de CAEA que se esta informando debe ser del tipo de codigo de autorizacion CAEA",
	})
}
