package entity

import "github.com/shopspring/decimal"

// Receipt es el detalle de un comprobante presentado para autorización
// (FECAEDetRequest / FECAEADetRequest). Los importes usan decimal para que la
// aritmética tributaria sea exacta; nunca float64.
type Receipt struct {
	Concept         int             // Concepto: 1 productos, 2 servicios, 3 ambos
	CustomerDocType int             // DocTipo del receptor (80 CUIT, 96 DNI, 99 consumidor final)
	CustomerDocNum  string          // DocNro del receptor
	DocDate         string          // CbteFch en formato AAAAMMDD
	GrossTotal      decimal.Decimal // ImpTotal
	UntaxedTotal    decimal.Decimal // ImpTotConc: neto no gravado
	TaxableNetTotal decimal.Decimal // ImpNeto: neto gravado
	ExemptNetTotal  decimal.Decimal // ImpOpEx: operaciones exentas
	OtherTaxesTotal decimal.Decimal // ImpTrib: otros tributos
	VatTotal        decimal.Decimal // ImpIVA
	Currency        string          // MonId (PES, DOL, ...)
	CurrencyRate    decimal.Decimal // MonCotiz
	VatBreakdown    []VatEntry      // AlicIva; nil cuando no se informa el objeto Iva
	AssociatedDocs  []AssociatedDoc // CbtesAsoc (notas de crédito/débito)
}

// VatEntry es una línea del objeto Iva (AlicIva): alícuota, base y monto liquidado.
type VatEntry struct {
	RateID      int             // Id de alícuota según FEParamGetTiposIva
	TaxableBase decimal.Decimal // BaseImp
	Amount      decimal.Decimal // Importe
}

// AssociatedDoc referencia un comprobante asociado (CbteAsoc).
type AssociatedDoc struct {
	DocType int // Tipo
	Pos     int // PtoVta
	DocNum  int64
}

// HasVatBreakdown indica si el comprobante informa el objeto Iva.
func (r *Receipt) HasVatBreakdown() bool {
	return len(r.VatBreakdown) > 0
}
