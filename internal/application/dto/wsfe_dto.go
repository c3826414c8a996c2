// Package dto define los cuerpos de petición y respuesta de la API. El
// nombrado sigue los campos del WSFEv1 (PtoVta, CbteTipo, ImpTotal, AlicIva...)
// en snake_case JSON.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wsfe-api/internal/domain/entity"
	"github.com/jhoicas/wsfe-api/internal/domain/wsfe"
)

// fchProceso formato AAAAMMDDHHMMSS de FchProceso.
const fchProceso = "20060102150405"

// fchVto formato AAAAMMDD de fechas de vencimiento/vigencia.
const fchVto = "20060102"

// VatItem una línea de AlicIva.
type VatItem struct {
	ID      int             `json:"id"`
	BaseImp decimal.Decimal `json:"base_imp"`
	Importe decimal.Decimal `json:"importe"`
}

// CbteAsoc comprobante asociado.
type CbteAsoc struct {
	Tipo   int   `json:"tipo"`
	PtoVta int   `json:"pto_vta"`
	Nro    int64 `json:"nro"`
}

// ReceiptBody campos del comprobante a autorizar (FECAEDetRequest).
type ReceiptBody struct {
	Concepto   int             `json:"concepto"`
	DocTipo    int             `json:"doc_tipo"`
	DocNro     string          `json:"doc_nro"`
	CbteFch    string          `json:"cbte_fch"` // AAAAMMDD
	ImpTotal   decimal.Decimal `json:"imp_total"`
	ImpTotConc decimal.Decimal `json:"imp_tot_conc"`
	ImpNeto    decimal.Decimal `json:"imp_neto"`
	ImpOpEx    decimal.Decimal `json:"imp_op_ex"`
	ImpTrib    decimal.Decimal `json:"imp_trib"`
	ImpIVA     decimal.Decimal `json:"imp_iva"`
	MonID      string          `json:"mon_id"`
	MonCotiz   decimal.Decimal `json:"mon_cotiz"`
	Iva        []VatItem       `json:"iva,omitempty"`
	CbtesAsoc  []CbteAsoc      `json:"cbtes_asoc,omitempty"`
}

// ToEntity convierte el cuerpo al comprobante de dominio.
func (b ReceiptBody) ToEntity() *entity.Receipt {
	r := &entity.Receipt{
		Concept:         b.Concepto,
		CustomerDocType: b.DocTipo,
		CustomerDocNum:  b.DocNro,
		DocDate:         b.CbteFch,
		GrossTotal:      b.ImpTotal,
		UntaxedTotal:    b.ImpTotConc,
		TaxableNetTotal: b.ImpNeto,
		ExemptNetTotal:  b.ImpOpEx,
		OtherTaxesTotal: b.ImpTrib,
		VatTotal:        b.ImpIVA,
		Currency:        b.MonID,
		CurrencyRate:    b.MonCotiz,
	}
	for _, v := range b.Iva {
		r.VatBreakdown = append(r.VatBreakdown, entity.VatEntry{
			RateID:      v.ID,
			TaxableBase: v.BaseImp,
			Amount:      v.Importe,
		})
	}
	for _, a := range b.CbtesAsoc {
		r.AssociatedDocs = append(r.AssociatedDocs, entity.AssociatedDoc{
			DocType: a.Tipo,
			Pos:     a.PtoVta,
			DocNum:  a.Nro,
		})
	}
	return r
}

// FECAESolicitarRequest solicitud de CAE para un único comprobante.
type FECAESolicitarRequest struct {
	PtoVta    int   `json:"pto_vta"`
	CbteTipo  int   `json:"cbte_tipo"`
	CbteDesde int64 `json:"cbte_desde"`
	CbteHasta int64 `json:"cbte_hasta"`
	ReceiptBody
}

// AuthorizationResponse resultado de FECAESolicitar / FECAEARegInformativo.
type AuthorizationResponse struct {
	Cuit          string               `json:"cuit"`
	PtoVta        int                  `json:"pto_vta"`
	CbteTipo      int                  `json:"cbte_tipo"`
	CbteDesde     int64                `json:"cbte_desde"`
	CbteHasta     int64                `json:"cbte_hasta"`
	FchProceso    string               `json:"fch_proceso"`
	Resultado     string               `json:"resultado"` // A aprobado | R rechazado
	CodAut        string               `json:"cod_aut,omitempty"`
	EmisionTipo   string               `json:"emision_tipo,omitempty"` // CAE | CAEA
	FchVto        string               `json:"fch_vto,omitempty"`
	Errores       []wsfe.ServiceError `json:"errores,omitempty"`
	Observaciones []wsfe.Observation  `json:"observaciones,omitempty"`
}

// NewApprovedAuthorization respuesta aprobada desde el registro emitido.
func NewApprovedAuthorization(rec *entity.AuthorizationRecord) AuthorizationResponse {
	return AuthorizationResponse{
		Cuit:        rec.Cuit,
		PtoVta:      rec.Pos,
		CbteTipo:    rec.DocType,
		CbteDesde:   rec.DocNum,
		CbteHasta:   rec.DocNum,
		FchProceso:  rec.IssuedAt.Format(fchProceso),
		Resultado:   "A",
		CodAut:      rec.Code,
		EmisionTipo: rec.Kind,
		FchVto:      rec.DueDate.Format(fchVto),
	}
}

// NewRejectedAuthorization respuesta rechazada con errores/observaciones.
func NewRejectedAuthorization(cuit string, pos, docType int, docNum int64, now time.Time, reqErr *wsfe.RequestError) AuthorizationResponse {
	return AuthorizationResponse{
		Cuit:          cuit,
		PtoVta:        pos,
		CbteTipo:      docType,
		CbteDesde:     docNum,
		CbteHasta:     docNum,
		FchProceso:    now.Format(fchProceso),
		Resultado:     "R",
		Errores:       reqErr.Errors,
		Observaciones: reqErr.Observations,
	}
}

// FECAEASolicitarRequest solicitud de CAEA.
type FECAEASolicitarRequest struct {
	Periodo string `json:"periodo"` // AAAAMM
	Orden   int    `json:"orden"`   // 1 | 2
}

// CAEAResponse resultado de FECAEASolicitar / FECAEAConsultar.
type CAEAResponse struct {
	Cuit          string              `json:"cuit,omitempty"`
	CAEA          string              `json:"caea,omitempty"`
	Periodo       string              `json:"periodo"`
	Orden         int                 `json:"orden"`
	FchVigDesde   string              `json:"fch_vig_desde,omitempty"`
	FchVigHasta   string              `json:"fch_vig_hasta,omitempty"`
	FchTopeInf    string              `json:"fch_tope_inf,omitempty"`
	FchProceso    string              `json:"fch_proceso,omitempty"`
	Resultado     string              `json:"resultado,omitempty"`
	Errores       []wsfe.ServiceError `json:"errores,omitempty"`
	Observaciones []wsfe.Observation  `json:"observaciones,omitempty"`
}

// NewCAEAResponse respuesta aprobada desde el CAEA otorgado.
func NewCAEAResponse(cuit string, lease *entity.CAEALease) CAEAResponse {
	return CAEAResponse{
		Cuit:        cuit,
		CAEA:        lease.Code,
		Periodo:     lease.Period,
		Orden:       lease.Fortnight,
		FchVigDesde: lease.ValidFrom.Format(fchVto),
		FchVigHasta: lease.ValidUntil.Format(fchVto),
		FchTopeInf:  lease.ReportingDeadline.Format(fchVto),
		FchProceso:  lease.IssuedAt.Format(fchProceso),
		Resultado:   "A",
	}
}

// FECAEARegInformativoRequest informa un comprobante emitido bajo CAEA.
type FECAEARegInformativoRequest struct {
	PtoVta    int    `json:"pto_vta"`
	CbteTipo  int    `json:"cbte_tipo"`
	CbteDesde int64  `json:"cbte_desde"`
	CbteHasta int64  `json:"cbte_hasta"`
	CAEA      string `json:"caea"`
	ReceiptBody
}

// FECAEASinMovimientoRequest declara un punto de venta sin movimiento.
type FECAEASinMovimientoRequest struct {
	PtoVta int    `json:"pto_vta"`
	CAEA   string `json:"caea"`
}

// SinMovimientoResponse resultado de FECAEASinMovimientoInformar.
type SinMovimientoResponse struct {
	CAEA          string              `json:"caea"`
	PtoVta        int                 `json:"pto_vta"`
	Resultado     string              `json:"resultado"`
	FchProceso    string              `json:"fch_proceso,omitempty"`
	Errores       []wsfe.ServiceError `json:"errores,omitempty"`
	Observaciones []wsfe.Observation  `json:"observaciones,omitempty"`
}

// UltimoAutorizadoResponse resultado de FECompUltimoAutorizado.
type UltimoAutorizadoResponse struct {
	PtoVta   int   `json:"pto_vta"`
	CbteTipo int   `json:"cbte_tipo"`
	CbteNro  int64 `json:"cbte_nro"`
}

// CompConsultarResponse resultado de FECompConsultar.
type CompConsultarResponse struct {
	PtoVta      int    `json:"pto_vta"`
	CbteTipo    int    `json:"cbte_tipo"`
	CbteDesde   int64  `json:"cbte_desde"`
	CbteHasta   int64  `json:"cbte_hasta"`
	CodAut      string `json:"cod_autorizacion"`
	EmisionTipo string `json:"emision_tipo"`
	FchVto      string `json:"fch_vto"`
	FchProceso  string `json:"fch_proceso"`
}

// NewCompConsultarResponse respuesta desde el registro persistido.
func NewCompConsultarResponse(rec *entity.AuthorizationRecord) CompConsultarResponse {
	return CompConsultarResponse{
		PtoVta:      rec.Pos,
		CbteTipo:    rec.DocType,
		CbteDesde:   rec.DocNum,
		CbteHasta:   rec.DocNum,
		CodAut:      rec.Code,
		EmisionTipo: rec.Kind,
		FchVto:      rec.DueDate.Format(fchVto),
		FchProceso:  rec.IssuedAt.Format(fchProceso),
	}
}

// LoginRequest petición de ticket de acceso (análogo LoginCms del WSAA).
type LoginRequest struct {
	Cuit string `json:"cuit"`
}

// LoginResponse ticket de acceso emitido.
type LoginResponse struct {
	Token          string `json:"token"`
	ExpirationTime string `json:"expiration_time"`
}
