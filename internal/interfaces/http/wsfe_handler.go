package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wsfe-api/internal/application/dto"
	appwsfe "github.com/jhoicas/wsfe-api/internal/application/wsfe"
	"github.com/jhoicas/wsfe-api/internal/domain"
	domwsfe "github.com/jhoicas/wsfe-api/internal/domain/wsfe"
)

// WSFEHandler maneja las operaciones del servicio de facturación electrónica
// (protegido por ticket de acceso). Sigue la convención del WSFEv1: los
// rechazos del protocolo viajan con HTTP 200 y Resultado "R" más la lista de
// errores/observaciones; solo las fallas de transporte usan 4xx/5xx.
type WSFEHandler struct {
	authorize *appwsfe.AuthorizeUseCase
	caea      *appwsfe.CAEAUseCase
	query     *appwsfe.QueryUseCase
	clock     appwsfe.Clock
}

// NewWSFEHandler construye el handler.
func NewWSFEHandler(authorize *appwsfe.AuthorizeUseCase, caea *appwsfe.CAEAUseCase, query *appwsfe.QueryUseCase, clock appwsfe.Clock) *WSFEHandler {
	return &WSFEHandler{authorize: authorize, caea: caea, query: query, clock: clock}
}

// FECAESolicitar autoriza un comprobante y emite su CAE.
// POST /api/wsfev1/fecae-solicitar
func (h *WSFEHandler) FECAESolicitar(c *fiber.Ctx) error {
	cuit := GetCuit(c)
	var in dto.FECAESolicitarRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CbteHasta != 0 && in.CbteHasta != in.CbteDesde {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "solo se autoriza de a un comprobante: cbte_desde debe ser igual a cbte_hasta"})
	}

	rec, err := h.authorize.Authorize(c.Context(), cuit, in.PtoVta, in.CbteTipo, in.CbteDesde, in.ReceiptBody.ToEntity())
	if err != nil {
		var reqErr *domwsfe.RequestError
		if errors.As(err, &reqErr) {
			return c.JSON(dto.NewRejectedAuthorization(cuit, in.PtoVta, in.CbteTipo, in.CbteDesde, h.clock(), reqErr))
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewApprovedAuthorization(rec))
}

// FECompUltimoAutorizado devuelve el último número autorizado para (pos, tipo).
// GET /api/wsfev1/comp-ultimo-autorizado?pto_vta=&cbte_tipo=
func (h *WSFEHandler) FECompUltimoAutorizado(c *fiber.Ctx) error {
	pos := c.QueryInt("pto_vta")
	docType := c.QueryInt("cbte_tipo")
	if pos <= 0 || docType <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pto_vta y cbte_tipo son requeridos"})
	}
	last, err := h.query.LastAuthorized(c.Context(), pos, docType)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.UltimoAutorizadoResponse{PtoVta: pos, CbteTipo: docType, CbteNro: last})
}

// FECompConsultar devuelve el registro de autorización de un comprobante.
// GET /api/wsfev1/comp-consultar?pto_vta=&cbte_tipo=&cbte_nro=
func (h *WSFEHandler) FECompConsultar(c *fiber.Ctx) error {
	pos := c.QueryInt("pto_vta")
	docType := c.QueryInt("cbte_tipo")
	docNum := int64(c.QueryInt("cbte_nro"))
	if pos <= 0 || docType <= 0 || docNum <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pto_vta, cbte_tipo y cbte_nro son requeridos"})
	}
	rec, err := h.query.QueryReceipt(c.Context(), pos, docType, docNum)
	if err != nil {
		var reqErr *domwsfe.RequestError
		if errors.As(err, &reqErr) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"errores": reqErr.Errors})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewCompConsultarResponse(rec))
}

// FECAEASolicitar otorga un CAEA para (período, orden).
// POST /api/wsfev1/caea-solicitar
func (h *WSFEHandler) FECAEASolicitar(c *fiber.Ctx) error {
	cuit := GetCuit(c)
	var in dto.FECAEASolicitarRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	lease, err := h.caea.Lease(c.Context(), cuit, in.Periodo, in.Orden)
	if err != nil {
		var reqErr *domwsfe.RequestError
		if errors.As(err, &reqErr) {
			return c.JSON(dto.CAEAResponse{
				Cuit:          cuit,
				Periodo:       in.Periodo,
				Orden:         in.Orden,
				Resultado:     "R",
				Errores:       reqErr.Errors,
				Observaciones: reqErr.Observations,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewCAEAResponse(cuit, lease))
}

// FECAEAConsultar consulta un CAEA ya otorgado.
// GET /api/wsfev1/caea-consultar?periodo=&orden=
func (h *WSFEHandler) FECAEAConsultar(c *fiber.Ctx) error {
	period := c.Query("periodo")
	fortnight := c.QueryInt("orden")
	if period == "" || fortnight == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "periodo y orden son requeridos"})
	}
	lease, err := h.caea.Query(c.Context(), period, fortnight)
	if err != nil {
		var reqErr *domwsfe.RequestError
		if errors.As(err, &reqErr) {
			return c.Status(fiber.StatusNotFound).JSON(dto.CAEAResponse{
				Periodo: period,
				Orden:   fortnight,
				Errores: reqErr.Errors,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewCAEAResponse(GetCuit(c), lease))
}

// FECAEARegInformativo informa un comprobante emitido bajo un CAEA.
// POST /api/wsfev1/caea-reg-informativo
func (h *WSFEHandler) FECAEARegInformativo(c *fiber.Ctx) error {
	cuit := GetCuit(c)
	var in dto.FECAEARegInformativoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CbteHasta != 0 && in.CbteHasta != in.CbteDesde {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "solo se informa de a un comprobante: cbte_desde debe ser igual a cbte_hasta"})
	}

	rec, err := h.caea.InformUsage(c.Context(), cuit, in.CAEA, in.PtoVta, in.CbteTipo, in.CbteDesde, in.ReceiptBody.ToEntity())
	if err != nil {
		var reqErr *domwsfe.RequestError
		if errors.As(err, &reqErr) {
			return c.JSON(dto.NewRejectedAuthorization(cuit, in.PtoVta, in.CbteTipo, in.CbteDesde, h.clock(), reqErr))
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.NewApprovedAuthorization(rec))
}

// FECAEASinMovimientoInformar declara sin movimiento un punto de venta.
// POST /api/wsfev1/caea-sin-movimiento
func (h *WSFEHandler) FECAEASinMovimientoInformar(c *fiber.Ctx) error {
	cuit := GetCuit(c)
	var in dto.FECAEASinMovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	if err := h.caea.DeclareUnused(c.Context(), cuit, in.PtoVta, in.CAEA); err != nil {
		var reqErr *domwsfe.RequestError
		if errors.As(err, &reqErr) {
			return c.JSON(dto.SinMovimientoResponse{
				CAEA:          in.CAEA,
				PtoVta:        in.PtoVta,
				Resultado:     "R",
				Errores:       reqErr.Errors,
				Observaciones: reqErr.Observations,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.SinMovimientoResponse{
		CAEA:       in.CAEA,
		PtoVta:     in.PtoVta,
		Resultado:  "A",
		FchProceso: h.clock().Format("20060102150405"),
	})
}

// FEDummy reporta el estado de los tres planos del servicio (público).
// GET /api/wsfev1/dummy
func (h *WSFEHandler) FEDummy(c *fiber.Ctx) error {
	return c.JSON(h.query.Status(c.Context()))
}
