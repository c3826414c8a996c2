package wsfe

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/wsfe-api/internal/domain"
	"github.com/jhoicas/wsfe-api/internal/domain/entity"
	domwsfe "github.com/jhoicas/wsfe-api/internal/domain/wsfe"
)

// QueryUseCase consultas de solo lectura: último autorizado, comprobante
// puntual y estado del servicio. Pueden correr concurrentes con mutaciones
// sobre claves no relacionadas.
type QueryUseCase struct {
	stores Stores
	pinger Pinger // nil cuando el backend no expone ping (memoria)
}

// NewQueryUseCase construye el caso de uso. pinger puede ser nil.
func NewQueryUseCase(stores Stores, pinger Pinger) *QueryUseCase {
	return &QueryUseCase{stores: stores, pinger: pinger}
}

// LastAuthorized devuelve el número del último comprobante autorizado para
// (pos, tipo); 0 si nunca se autorizó uno (FECompUltimoAutorizado).
func (uc *QueryUseCase) LastAuthorized(ctx context.Context, pos, docType int) (int64, error) {
	last, err := uc.stores.Sequences.Last(ctx, pos, docType)
	if err != nil {
		return 0, fmt.Errorf("consultar secuencia: %w", err)
	}
	return last, nil
}

// QueryReceipt devuelve el registro de autorización del comprobante o error
// 602 si no existe (FECompConsultar).
func (uc *QueryUseCase) QueryReceipt(ctx context.Context, pos, docType int, docNum int64) (*entity.AuthorizationRecord, error) {
	rec, err := uc.stores.Receipts.Get(ctx, pos, docType, docNum)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domwsfe.ErrNotFoundRequest()
		}
		return nil, fmt.Errorf("consultar comprobante: %w", err)
	}
	return rec, nil
}

// ServiceStatus estado de los tres planos del servicio (FEDummy).
type ServiceStatus struct {
	AppServer  string `json:"app_server"`
	DbServer   string `json:"db_server"`
	AuthServer string `json:"auth_server"`
}

// Status reporta OK/FAIL por plano. Sin estado: solo el ping a la base puede
// fallar; app y auth responden OK por estar atendiendo la petición.
func (uc *QueryUseCase) Status(ctx context.Context) ServiceStatus {
	st := ServiceStatus{AppServer: "OK", DbServer: "OK", AuthServer: "OK"}
	if uc.pinger != nil {
		if err := uc.pinger.Ping(ctx); err != nil {
			st.DbServer = "FAIL"
		}
	}
	return st
}
