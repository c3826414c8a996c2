package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wsfe-api/pkg/afip"
)

// ParamsHandler expone los catálogos de referencia (FEParamGet*). Datos
// estáticos de solo lectura.
type ParamsHandler struct{}

// NewParamsHandler construye el handler.
func NewParamsHandler() *ParamsHandler {
	return &ParamsHandler{}
}

// vatRateItem proyección JSON de una alícuota del catálogo.
type vatRateItem struct {
	ID       int    `json:"id"`
	Desc     string `json:"desc"`
	FchDesde string `json:"fch_desde"`
}

// TiposIva catálogo de alícuotas de IVA.
// GET /api/params/tipos-iva
func (h *ParamsHandler) TiposIva(c *fiber.Ctx) error {
	rates := afip.VatRates()
	out := make([]vatRateItem, 0, len(rates))
	for _, r := range rates {
		out = append(out, vatRateItem{ID: r.ID, Desc: r.Desc, FchDesde: r.Since})
	}
	return c.JSON(fiber.Map{"result_get": out})
}

// taxTypeItem proyección JSON de un tipo de tributo.
type taxTypeItem struct {
	ID       int    `json:"id"`
	Desc     string `json:"desc"`
	FchDesde string `json:"fch_desde"`
}

// TiposTributos catálogo de tipos de tributo.
// GET /api/params/tipos-tributos
func (h *ParamsHandler) TiposTributos(c *fiber.Ctx) error {
	types := afip.TaxTypes()
	out := make([]taxTypeItem, 0, len(types))
	for _, t := range types {
		out = append(out, taxTypeItem{ID: t.ID, Desc: t.Desc, FchDesde: t.Since})
	}
	return c.JSON(fiber.Map{"result_get": out})
}
