package wsfe

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wsfe-api/internal/domain/entity"
	"github.com/jhoicas/wsfe-api/pkg/afip"
)

// tolerancia admitida entre el importe de IVA declarado y el calculado.
var vatAmountTolerance = decimal.NewFromFloat(0.01)

var oneHundred = decimal.NewFromInt(100)

// ValidateReceipt aplica las reglas de consistencia aritmética del WSFEv1
// sobre un comprobante candidato. Devuelve nil si el comprobante es válido;
// en caso contrario un RequestError con las observaciones (o el error de
// servicio, si la petición es estructuralmente inválida, por ejemplo una
// alícuota inexistente en el catálogo).
//
// Precedencia de reglas:
//  1. Comprobantes clase C: atajo de exención. Se acumulan todas las
//     observaciones de la clase y se corta sin correr la conciliación global.
//  2. Resto: chequeo por línea de AlicIva (corta en la primera violación).
//  3. Conciliación global de totales (las observaciones se devuelven juntas).
func ValidateReceipt(docType int, r *entity.Receipt) *RequestError {
	if afip.IsCategoryC(docType) {
		return validateCategoryC(r)
	}
	return validateStandard(r)
}

// validateCategoryC reglas para comprobantes tipo C: no discriminan IVA y el
// neto gravado opera como subtotal.
func validateCategoryC(r *entity.Receipt) *RequestError {
	var observations []Observation

	if !r.UntaxedTotal.IsZero() {
		observations = append(observations, Observation{
			Code: ObsCatCUntaxedNotZero,
			Msg:  "El campo ImpTotConc (Importe Total del Concepto) para comprobantes tipo C debe ser igual a cero (0).",
		})
	}
	if !r.ExemptNetTotal.IsZero() {
		observations = append(observations, Observation{
			Code: ObsCatCExemptNotZero,
			Msg:  "El campo ImpOpEx (importe exento) para comprobantes tipo C debe ser igual a cero (0).",
		})
	}
	if !r.VatTotal.IsZero() {
		observations = append(observations, Observation{
			Code: ObsCatCVatNotZero,
			Msg:  "El campo ImpIVA (Importe de IVA) para comprobantes tipo C debe ser igual a cero (0).",
		})
	}
	if !r.TaxableNetTotal.Add(r.OtherTaxesTotal).Equal(r.GrossTotal) {
		observations = append(observations, Observation{
			Code: ObsTotalMismatch,
			Msg:  "El campo 'Importe Total' ImpTotal, debe ser igual a la suma de ImpNeto + ImpTrib. Donde ImpNeto es igual al Sub Total",
		})
	}
	if r.HasVatBreakdown() {
		observations = append(observations, Observation{
			Code: ObsCatCVatNotAllowed,
			Msg:  "Para comprobantes tipo C el objeto IVA no debe informarse.",
		})
	}

	if len(observations) > 0 {
		return Rejected(observations...)
	}
	return nil
}

// validateStandard reglas para comprobantes que discriminan IVA (clases A y B).
func validateStandard(r *entity.Receipt) *RequestError {
	baseSum := decimal.Zero
	amountSum := decimal.Zero

	if r.HasVatBreakdown() {
		for _, vat := range r.VatBreakdown {
			rate, ok := afip.VatRateByID(vat.RateID)
			if !ok {
				return Failed(ServiceError{
					Code: "10052",
					Msg:  "El campo Id de AlicIva no se corresponde con un identificador valido del metodo FEParamGetTiposIva.",
				})
			}

			if !vat.TaxableBase.IsPositive() {
				return Rejected(Observation{
					Code: ObsVatBaseRequired,
					Msg:  "El campo BaseImp en AlicIVA es obligatorio y debe ser mayor a 0 cero.",
				})
			}

			expected := vat.TaxableBase.Mul(rate.Percent).Div(oneHundred).Round(2)
			diff := vat.Amount.Sub(expected).Abs()
			if diff.GreaterThan(vatAmountTolerance) {
				return Rejected(Observation{
					Code: ObsVatAmountMismatch,
					Msg:  "Los importes informados en AlicIVA no se corresponden con los porcentajes.",
				})
			}

			// Alícuota distinta de IVA 0% con ImpIVA total en cero es contradictorio.
			if vat.RateID != afip.VatRateZero && r.VatTotal.IsZero() {
				return Rejected(Observation{
					Code: ObsVatRequiredIfTotal,
					Msg:  "Si ImpIva es igual a 0 el objeto Iva y AlicIva son obligatorios. Id iva = 3 (iva 0)",
				})
			}

			baseSum = baseSum.Add(vat.TaxableBase)
			amountSum = amountSum.Add(vat.Amount)
		}
	} else if r.TaxableNetTotal.IsPositive() {
		return Rejected(Observation{
			Code: ObsVatObjectRequired,
			Msg:  "Si ImpNeto es mayor a 0 el objeto IVA es obligatorio.",
		})
	}

	var observations []Observation

	grossExpected := r.UntaxedTotal.
		Add(r.TaxableNetTotal).
		Add(r.ExemptNetTotal).
		Add(r.OtherTaxesTotal).
		Add(r.VatTotal)
	if !grossExpected.Equal(r.GrossTotal) {
		observations = append(observations, Observation{
			Code: ObsTotalMismatch,
			Msg:  "El campo 'Importe Total' ImpTotal, debe ser igual a la suma de ImpTotConc + ImpNeto + ImpOpEx + ImpTrib + ImpIVA.",
		})
	}
	if !r.VatTotal.Equal(amountSum) {
		observations = append(observations, Observation{
			Code: ObsVatSumMismatch,
			Msg:  "La suma de los campos Importe en IVA debe ser igual al valor ingresado en ImpIVA.",
		})
	}
	if !r.TaxableNetTotal.Equal(baseSum) {
		observations = append(observations, Observation{
			Code: ObsVatBaseSumMismatch,
			Msg:  "La suma de los campos BaseImp en AlicIva debe ser igual al valor ingresado en ImpNeto.",
		})
	}

	if len(observations) > 0 {
		return Rejected(observations...)
	}
	return nil
}
