// Package afip contiene los catálogos de referencia del WSFEv1 (AFIP, Argentina):
// alícuotas de IVA, tipos de comprobante y tipos de tributo. Son datos estáticos
// de solo lectura; el motor de autorización los consulta pero nunca los muta.
package afip

import "github.com/shopspring/decimal"

// =============================================================================
// Alícuotas de IVA (FEParamGetTiposIva) — Id AFIP -> porcentaje.
// =============================================================================

const (
	VatRateZero       = 3 // 0%
	VatRateTenAndHalf = 4 // 10.5%
	VatRateTwentyOne  = 5 // 21%
	VatRateTwentySev  = 6 // 27%
	VatRateFive       = 8 // 5%
	VatRateTwoAndHalf = 9 // 2.5%
)

// VatRate describe una alícuota del catálogo FEParamGetTiposIva.
type VatRate struct {
	ID      int
	Desc    string
	Percent decimal.Decimal
	Since   string // AAAAMMDD de entrada en vigencia
}

// vatRates catálogo de alícuotas vigentes, indexado por Id AFIP.
var vatRates = map[int]VatRate{
	VatRateZero:       {ID: VatRateZero, Desc: "0%", Percent: decimal.NewFromFloat(0), Since: "20090220"},
	VatRateTenAndHalf: {ID: VatRateTenAndHalf, Desc: "10.5%", Percent: decimal.NewFromFloat(10.5), Since: "20090220"},
	VatRateTwentyOne:  {ID: VatRateTwentyOne, Desc: "21%", Percent: decimal.NewFromFloat(21), Since: "20090220"},
	VatRateTwentySev:  {ID: VatRateTwentySev, Desc: "27%", Percent: decimal.NewFromFloat(27), Since: "20090220"},
	VatRateFive:       {ID: VatRateFive, Desc: "5%", Percent: decimal.NewFromFloat(5), Since: "20141020"},
	VatRateTwoAndHalf: {ID: VatRateTwoAndHalf, Desc: "2.5%", Percent: decimal.NewFromFloat(2.5), Since: "20141020"},
}

// VatRateByID devuelve la alícuota para el Id dado y si existe en el catálogo.
func VatRateByID(id int) (VatRate, bool) {
	r, ok := vatRates[id]
	return r, ok
}

// VatRates devuelve el catálogo completo de alícuotas (copia, orden por Id).
func VatRates() []VatRate {
	out := make([]VatRate, 0, len(vatRates))
	for _, id := range []int{VatRateZero, VatRateTenAndHalf, VatRateTwentyOne, VatRateTwentySev, VatRateFive, VatRateTwoAndHalf} {
		out = append(out, vatRates[id])
	}
	return out
}

// =============================================================================
// Tipos de comprobante (CbteTipo) — subconjunto usado por el servicio.
// Los tipo C (emisor monotributista / exento) tienen reglas propias: no
// discriminan IVA y el neto gravado actúa como subtotal.
// =============================================================================

const (
	DocTypeFacturaA     = 1
	DocTypeNotaDebitoA  = 2
	DocTypeNotaCreditoA = 3
	DocTypeFacturaB     = 6
	DocTypeNotaDebitoB  = 7
	DocTypeNotaCreditoB = 8
	DocTypeFacturaC     = 11
	DocTypeNotaDebitoC  = 12
	DocTypeNotaCreditoC = 13
)

// categoryCDocTypes comprobantes clase C que el validador trata con el atajo
// de exención (la nota de débito C quedó fuera en el servicio original).
var categoryCDocTypes = map[int]bool{
	DocTypeFacturaC:     true,
	DocTypeNotaCreditoC: true,
}

// IsCategoryC indica si el tipo de comprobante pertenece a la clase C.
func IsCategoryC(docType int) bool {
	return categoryCDocTypes[docType]
}

// =============================================================================
// Tipos de tributo (FEParamGetTiposTributos).
// =============================================================================

// TaxType describe un tipo de tributo del catálogo.
type TaxType struct {
	ID    int
	Desc  string
	Since string
}

// TaxTypes devuelve el catálogo de tipos de tributo.
func TaxTypes() []TaxType {
	return []TaxType{
		{ID: 1, Desc: "Impuestos nacionales", Since: "20100917"},
		{ID: 2, Desc: "Impuestos provinciales", Since: "20100917"},
		{ID: 3, Desc: "Impuestos municipales", Since: "20100917"},
		{ID: 4, Desc: "Impuestos Internos", Since: "20100917"},
		{ID: 99, Desc: "Otro", Since: "20100917"},
	}
}
