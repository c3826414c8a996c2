package wsfe

import (
	"fmt"
	"time"
)

// CAEADates describe la vigencia de un CAEA: desde/hasta y el tope para el
// régimen informativo.
type CAEADates struct {
	ValidFrom         time.Time
	ValidUntil        time.Time
	ReportingDeadline time.Time
}

// ComputeCAEADates calcula las fechas de vigencia de un CAEA para el período
// (AAAAMM) y la quincena pedidos, validando que `now` caiga dentro de la
// ventana de solicitud:
//
//	quincena 1: desde 5 días corridos antes del inicio del período hasta el
//	            día 15 a las 23:59:59; rige desde el día 1.
//	quincena 2: desde el día 11 hasta el último día del mes a las 23:59:59;
//	            rige desde el día 16.
//
// El tope informativo es la fecha de fin de vigencia más 5 días.
func ComputeCAEADates(now time.Time, period string, fortnight int) (CAEADates, *RequestError) {
	periodStart, err := time.ParseInLocation("200601", period, now.Location())
	if err != nil {
		return CAEADates{}, Failed(ServiceError{
			Code: "15004",
			Msg:  fmt.Sprintf("Campo Periodo: Debe tener formato AAAAMM. Valor recibido: %s", period),
		})
	}

	var firstRequest, lastRequest, validFrom time.Time
	switch fortnight {
	case 1:
		firstRequest = periodStart.AddDate(0, 0, -5)
		lastRequest = endOfDay(periodStart.AddDate(0, 0, 14))
		validFrom = periodStart
	case 2:
		firstRequest = periodStart.AddDate(0, 0, 10)
		lastRequest = endOfDay(periodStart.AddDate(0, 0, daysInMonth(periodStart)-1))
		validFrom = periodStart.AddDate(0, 0, 15)
	default:
		return CAEADates{}, Failed(ServiceError{
			Code: CodeInvalidFortnight,
			Msg:  "Campo Orden: Debe ser igual a 1 o 2.",
		})
	}

	if now.Before(firstRequest) || now.After(lastRequest) {
		return CAEADates{}, Failed(ServiceError{
			Code: CodeOutsideReqWindow,
			Msg: fmt.Sprintf("Fecha de envio podra ser desde 5 dias corridos anteriores al inicio hasta el "+
				"ultimo dia de cada quincena. Del %s hasta %s",
				firstRequest.Format("02/01/2006"), lastRequest.Format("02/01/2006")),
		})
	}

	return CAEADates{
		ValidFrom:         validFrom,
		ValidUntil:        lastRequest,
		ReportingDeadline: lastRequest.AddDate(0, 0, 5),
	}, nil
}

// endOfDay lleva el instante al último segundo del día (23:59:59).
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// daysInMonth cantidad de días del mes de t.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
