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

// caeDueDays días de vigencia del CAE desde su fecha de proceso.
const caeDueDays = 10

// AuthorizeUseCase emite CAE: valida el comprobante, reserva el próximo número
// de la secuencia y registra la autorización, todo como una unidad atómica.
type AuthorizeUseCase struct {
	runner TxRunner
	codes  CodeGenerator
	clock  Clock
	log    *logger.Logger
}

// NewAuthorizeUseCase construye el caso de uso.
func NewAuthorizeUseCase(runner TxRunner, codes CodeGenerator, clock Clock, log *logger.Logger) *AuthorizeUseCase {
	return &AuthorizeUseCase{runner: runner, codes: codes, clock: clock, log: log}
}

// Authorize procesa una solicitud FECAESolicitar para un único comprobante.
//
// Orden de evaluación: primero la validación aritmética (un rechazo por
// observaciones no consume número de secuencia); después, dentro de la unidad
// serializada por (pos, tipo), el compare-and-increment de la secuencia, la
// acuñación del CAE y la persistencia del registro. Ningún efecto parcial es
// observable: si algo falla, la secuencia queda como estaba.
func (uc *AuthorizeUseCase) Authorize(ctx context.Context, cuit string, pos, docType int, docNum int64, receipt *entity.Receipt) (*entity.AuthorizationRecord, error) {
	if receipt == nil {
		return nil, domain.ErrInvalidInput
	}
	if reqErr := domwsfe.ValidateReceipt(docType, receipt); reqErr != nil {
		uc.log.Debug().
			Str("cuit", cuit).Int("pto_vta", pos).Int("cbte_tipo", docType).Int64("cbte_nro", docNum).
			Int("observaciones", len(reqErr.Observations)).
			Msg("comprobante rechazado por validación")
		return nil, reqErr
	}

	var rec *entity.AuthorizationRecord
	err := uc.runner.Run(ctx, []string{SequenceKey(pos, docType)}, func(s Stores) error {
		if err := s.Sequences.ReserveNext(ctx, pos, docType, docNum); err != nil {
			if errors.Is(err, domain.ErrOutOfSequence) {
				return domwsfe.ErrOutOfSequenceRequest()
			}
			return fmt.Errorf("reservar número: %w", err)
		}

		code, err := uc.codes.NextCode()
		if err != nil {
			return fmt.Errorf("acuñar CAE: %w", err)
		}

		now := uc.clock()
		rec = &entity.AuthorizationRecord{
			ID:       uuid.NewString(),
			Cuit:     cuit,
			Pos:      pos,
			DocType:  docType,
			DocNum:   docNum,
			Code:     code,
			Kind:     entity.AuthKindCAE,
			DueDate:  now.AddDate(0, 0, caeDueDays),
			IssuedAt: now,
		}
		return s.Receipts.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("cuit", cuit).Int("pto_vta", pos).Int("cbte_tipo", docType).Int64("cbte_nro", docNum).
		Str("cae", rec.Code).
		Msg("comprobante autorizado")
	return rec, nil
}
