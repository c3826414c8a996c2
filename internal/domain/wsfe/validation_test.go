package wsfe_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wsfe-api/internal/domain/entity"
	"github.com/jhoicas/wsfe-api/internal/domain/wsfe"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// buildFacturaB comprobante clase B consistente: neto 100, IVA 21% = 21,
// total 121. Es el punto de partida que cada test muta para violar una regla.
func buildFacturaB() *entity.Receipt {
	return &entity.Receipt{
		Concept:         1,
		CustomerDocType: 96,
		CustomerDocNum:  "12345678",
		DocDate:         "20260831",
		GrossTotal:      dec("121.00"),
		UntaxedTotal:    decimal.Zero,
		TaxableNetTotal: dec("100.00"),
		ExemptNetTotal:  decimal.Zero,
		OtherTaxesTotal: decimal.Zero,
		VatTotal:        dec("21.00"),
		Currency:        "PES",
		CurrencyRate:    dec("1"),
		VatBreakdown: []entity.VatEntry{
			{RateID: 5, TaxableBase: dec("100.00"), Amount: dec("21.00")},
		},
	}
}

// buildFacturaC comprobante clase C consistente: subtotal 100 más tributos 5,
// total 105, sin IVA discriminado.
func buildFacturaC() *entity.Receipt {
	return &entity.Receipt{
		Concept:         1,
		CustomerDocType: 99,
		CustomerDocNum:  "0",
		DocDate:         "20260831",
		GrossTotal:      dec("105.00"),
		UntaxedTotal:    decimal.Zero,
		TaxableNetTotal: dec("100.00"),
		ExemptNetTotal:  decimal.Zero,
		OtherTaxesTotal: dec("5.00"),
		VatTotal:        decimal.Zero,
		Currency:        "PES",
		CurrencyRate:    dec("1"),
	}
}

func obsCodes(reqErr *wsfe.RequestError) []string {
	var codes []string
	for _, o := range reqErr.Observations {
		codes = append(codes, o.Code)
	}
	return codes
}

// ──────────────────────────────────────────────────────────────────────────────
// Comprobantes que discriminan IVA (clases A y B)
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateReceipt_FacturaBConsistente_Aprueba(t *testing.T) {
	reqErr := wsfe.ValidateReceipt(6, buildFacturaB())
	assert.Nil(t, reqErr, "un comprobante aritméticamente consistente debe aprobar")
}

func TestValidateReceipt_AlicuotaDesconocida_Error10052(t *testing.T) {
	r := buildFacturaB()
	r.VatBreakdown[0].RateID = 7 // no existe en FEParamGetTiposIva

	reqErr := wsfe.ValidateReceipt(6, r)
	require.NotNil(t, reqErr)
	require.Len(t, reqErr.Errors, 1, "alícuota inexistente es error de servicio, no observación")
	assert.Equal(t, "10052", reqErr.Errors[0].Code)
	assert.Empty(t, reqErr.Observations)
}

func TestValidateReceipt_BaseImpCero_Observacion10020(t *testing.T) {
	r := buildFacturaB()
	r.VatBreakdown[0].TaxableBase = decimal.Zero

	reqErr := wsfe.ValidateReceipt(6, r)
	require.NotNil(t, reqErr)
	assert.Equal(t, []string{wsfe.ObsVatBaseRequired}, obsCodes(reqErr),
		"BaseImp en cero debe rechazar con 10020 y cortar ahí")
}

func TestValidateReceipt_BaseImpNegativa_Observacion10020(t *testing.T) {
	r := buildFacturaB()
	r.VatBreakdown[0].TaxableBase = dec("-100.00")

	reqErr := wsfe.ValidateReceipt(6, r)
	require.NotNil(t, reqErr)
	assert.Equal(t, []string{wsfe.ObsVatBaseRequired}, obsCodes(reqErr))
}

// La tolerancia sobre el importe de IVA es de un centavo: 21.01 para una base
// de 100 al 21% pasa; 21.02 ya no.
func TestValidateReceipt_ImporteIvaDentroDeTolerancia_Aprueba(t *testing.T) {
	r := buildFacturaB()
	r.VatBreakdown[0].Amount = dec("21.01")
	r.VatTotal = dec("21.01")
	r.GrossTotal = dec("121.01")

	reqErr := wsfe.ValidateReceipt(6, r)
	assert.Nil(t, reqErr, "una diferencia de 0.01 en el importe de IVA debe tolerarse")
}

func TestValidateReceipt_ImporteIvaFueraDeTolerancia_Observacion10051(t *testing.T) {
	r := buildFacturaB()
	r.VatBreakdown[0].Amount = dec("21.02")
	r.VatTotal = dec("21.02")
	r.GrossTotal = dec("121.02")

	reqErr := wsfe.ValidateReceipt(6, r)
	require.NotNil(t, reqErr)
	assert.Equal(t, []string{wsfe.ObsVatAmountMismatch}, obsCodes(reqErr),
		"una diferencia mayor a 0.01 debe rechazar con 10051")
}

func TestValidateReceipt_AlicuotaNoCeroConImpIvaCero_Observacion10018(t *testing.T) {
	r := buildFacturaB()
	// La línea declara alícuota 21% con su importe correcto, pero el ImpIVA
	// total viene en cero: contradicción que corta antes de conciliar totales.
	r.VatTotal = decimal.Zero
	r.GrossTotal = dec("100.00")

	reqErr := wsfe.ValidateReceipt(6, r)
	require.NotNil(t, reqErr)
	assert.Equal(t, []string{wsfe.ObsVatRequiredIfTotal}, obsCodes(reqErr))
}

func TestValidateReceipt_AlicuotaCeroConImpIvaCero_Aprueba(t *testing.T) {
	// IVA 0% (id 3) con ImpIVA en cero es el único caso legítimo de total cero
	// con objeto Iva presente.
	r := &entity.Receipt{
		GrossTotal:      dec("100.00"),
		TaxableNetTotal: dec("100.00"),
		VatTotal:        decimal.Zero,
		Currency:        "PES",
		CurrencyRate:    dec("1"),
		VatBreakdown: []entity.VatEntry{
			{RateID: 3, TaxableBase: dec("100.00"), Amount: decimal.Zero},
		},
	}
	reqErr := wsfe.ValidateReceipt(6, r)
	assert.Nil(t, reqErr)
}

func TestValidateReceipt_NetoPositivoSinObjetoIva_Observacion10070(t *testing.T) {
	r := buildFacturaB()
	r.VatBreakdown = nil

	reqErr := wsfe.ValidateReceipt(6, r)
	require.NotNil(t, reqErr)
	assert.Equal(t, []string{wsfe.ObsVatObjectRequired}, obsCodes(reqErr),
		"ImpNeto mayor a cero sin objeto IVA debe rechazar con 10070")
}

// La conciliación global acumula: si el total, la suma de IVA y la suma de
// bases están todos mal, las tres observaciones vuelven juntas.
func TestValidateReceipt_ConciliacionGlobal_AcumulaObservaciones(t *testing.T) {
	r := buildFacturaB()
	r.GrossTotal = dec("500.00")      // 10048
	r.VatTotal = dec("21.50")         // 10023 (la línea declara 21.00)
	r.TaxableNetTotal = dec("150.00") // 10061 (la base declara 100.00)

	reqErr := wsfe.ValidateReceipt(6, r)
	require.NotNil(t, reqErr)
	assert.ElementsMatch(t,
		[]string{wsfe.ObsTotalMismatch, wsfe.ObsVatSumMismatch, wsfe.ObsVatBaseSumMismatch},
		obsCodes(reqErr),
		"las observaciones de conciliación global deben acumularse, no cortar en la primera")
}

func TestValidateReceipt_TotalInconsistente_Observacion10048(t *testing.T) {
	r := buildFacturaB()
	r.GrossTotal = dec("120.99")

	reqErr := wsfe.ValidateReceipt(6, r)
	require.NotNil(t, reqErr)
	assert.Equal(t, []string{wsfe.ObsTotalMismatch}, obsCodes(reqErr))
}

func TestValidateReceipt_VariasAlicuotas_SumanContraTotales(t *testing.T) {
	// 21% sobre 100 y 10.5% sobre 200: IVA 21 + 21 = 42, neto 300, total 342.
	r := &entity.Receipt{
		GrossTotal:      dec("342.00"),
		TaxableNetTotal: dec("300.00"),
		VatTotal:        dec("42.00"),
		Currency:        "PES",
		CurrencyRate:    dec("1"),
		VatBreakdown: []entity.VatEntry{
			{RateID: 5, TaxableBase: dec("100.00"), Amount: dec("21.00")},
			{RateID: 4, TaxableBase: dec("200.00"), Amount: dec("21.00")},
		},
	}
	reqErr := wsfe.ValidateReceipt(6, r)
	assert.Nil(t, reqErr)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comprobantes clase C (tipos 11 y 13): atajo de exención
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateReceipt_FacturaCConsistente_Aprueba(t *testing.T) {
	reqErr := wsfe.ValidateReceipt(11, buildFacturaC())
	assert.Nil(t, reqErr)
}

func TestValidateReceipt_NotaCreditoCConsistente_Aprueba(t *testing.T) {
	reqErr := wsfe.ValidateReceipt(13, buildFacturaC())
	assert.Nil(t, reqErr, "el tipo 13 (nota de crédito C) también toma el atajo de clase C")
}

func TestValidateReceipt_FacturaC_AcumulaTodasLasObservaciones(t *testing.T) {
	r := buildFacturaC()
	r.UntaxedTotal = dec("1.00")   // 10043
	r.ExemptNetTotal = dec("2.00") // 10044
	r.VatTotal = dec("3.00")       // 10047
	r.GrossTotal = dec("104.00")   // 10048: ImpNeto + ImpTrib = 105
	r.VatBreakdown = []entity.VatEntry{
		{RateID: 5, TaxableBase: dec("10.00"), Amount: dec("2.10")}, // 10071
	}

	reqErr := wsfe.ValidateReceipt(11, r)
	require.NotNil(t, reqErr)
	assert.ElementsMatch(t,
		[]string{
			wsfe.ObsCatCUntaxedNotZero,
			wsfe.ObsCatCExemptNotZero,
			wsfe.ObsCatCVatNotZero,
			wsfe.ObsTotalMismatch,
			wsfe.ObsCatCVatNotAllowed,
		},
		obsCodes(reqErr),
		"clase C debe acumular todas sus observaciones en una sola respuesta")
	assert.Empty(t, reqErr.Errors)
}

// Para clase C, ImpIVA = 0.01 produce una única observación (10047): la
// conciliación de tipo C sigue cerrando porque no suma ImpIVA.
func TestValidateReceipt_FacturaC_IvaUnCentavo_SoloObservacion10047(t *testing.T) {
	r := buildFacturaC()
	r.VatTotal = dec("0.01")

	reqErr := wsfe.ValidateReceipt(11, r)
	require.NotNil(t, reqErr)
	assert.Equal(t, []string{wsfe.ObsCatCVatNotZero}, obsCodes(reqErr))
}

func TestValidateReceipt_FacturaC_TotalNoCierra_Observacion10048(t *testing.T) {
	r := buildFacturaC()
	r.GrossTotal = dec("104.00")

	reqErr := wsfe.ValidateReceipt(11, r)
	require.NotNil(t, reqErr)
	assert.Equal(t, []string{wsfe.ObsTotalMismatch}, obsCodes(reqErr),
		"en clase C el total debe ser ImpNeto + ImpTrib")
}

// La conciliación de clase C ignora ImpTotConc e ImpOpEx aunque vengan
// cargados: cada campo no nulo genera su observación propia, pero la suma
// sigue siendo ImpNeto + ImpTrib.
func TestValidateReceipt_FacturaC_ConciliacionIgnoraCamposProhibidos(t *testing.T) {
	r := buildFacturaC()
	r.UntaxedTotal = dec("50.00")
	// GrossTotal sigue siendo 105.00 = 100 + 5; no debe aparecer 10048.

	reqErr := wsfe.ValidateReceipt(11, r)
	require.NotNil(t, reqErr)
	assert.Equal(t, []string{wsfe.ObsCatCUntaxedNotZero}, obsCodes(reqErr))
}
