// Package wsfe contiene las reglas de negocio puras del autorizador de
// comprobantes: taxonomía de errores/observaciones, validación aritmética del
// comprobante y cálculo de vigencias de CAEA.
package wsfe

import (
	"fmt"
	"strings"
)

// Observation es una violación de regla de negocio detectada al validar un
// comprobante. No es fatal para el servicio: el comprobante se rechaza entero
// y el contribuyente reenvía el mismo número corregido (no consume secuencia).
type Observation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// ServiceError es un error estructural del protocolo (token vencido, número
// fuera de secuencia, CAEA duplicado...). Termina la petición sin comprometer
// estado alguno.
type ServiceError struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// RequestError agrupa errores y observaciones de una petición rechazada,
// replicando el par Errors/Observations de la respuesta WSFEv1.
// Implementa error para que los casos de uso lo devuelvan por el canal normal.
type RequestError struct {
	Errors       []ServiceError
	Observations []Observation
}

func (e *RequestError) Error() string {
	var parts []string
	for _, err := range e.Errors {
		parts = append(parts, fmt.Sprintf("[%s] %s", err.Code, err.Msg))
	}
	for _, obs := range e.Observations {
		parts = append(parts, fmt.Sprintf("obs [%s] %s", obs.Code, obs.Msg))
	}
	if len(parts) == 0 {
		return "petición rechazada"
	}
	return strings.Join(parts, "; ")
}

// Rejected construye un RequestError solo con observaciones.
func Rejected(observations ...Observation) *RequestError {
	return &RequestError{Observations: observations}
}

// Failed construye un RequestError solo con errores de servicio.
func Failed(errors ...ServiceError) *RequestError {
	return &RequestError{Errors: errors}
}

// Códigos de error del servicio, según el protocolo WSFEv1.
const (
	CodeTokenExpired       = "600"   // ValidacionDeToken: fechas del token no validan
	CodeNotFound           = "602"   // sin datos para los parámetros ingresados
	CodeUnknownCAEA        = "1200"  // el código informado no es un CAEA
	CodeCAEAUsed           = "1202"  // el CAEA ya fue usado en el punto de venta
	CodeCAEADeclared       = "1209"  // el punto de venta ya fue informado sin movimiento
	CodeOutOfSequence      = "10016" // número de comprobante no es el próximo a autorizar
	CodeInvalidFortnight   = "15005" // Orden debe ser 1 o 2
	CodeOutsideReqWindow   = "15006" // fecha de envío fuera de la ventana de solicitud
	CodeCAEAAlreadyGranted = "15008" // ya existe CAEA para el período y orden
)

// Códigos de observación del validador de comprobantes.
const (
	ObsVatRequiredIfTotal = "10018" // ImpIVA 0 exige alícuota 3 (IVA 0%)
	ObsVatBaseRequired    = "10020" // BaseImp obligatoria y mayor a cero
	ObsVatSumMismatch     = "10023" // suma de Importe en IVA != ImpIVA
	ObsCatCUntaxedNotZero = "10043" // ImpTotConc debe ser 0 en tipo C
	ObsCatCExemptNotZero  = "10044" // ImpOpEx debe ser 0 en tipo C
	ObsCatCVatNotZero     = "10047" // ImpIVA debe ser 0 en tipo C
	ObsTotalMismatch      = "10048" // ImpTotal != suma de componentes
	ObsVatAmountMismatch  = "10051" // importes de AlicIVA no corresponden al porcentaje
	ObsVatBaseSumMismatch = "10061" // suma de BaseImp != ImpNeto
	ObsVatObjectRequired  = "10070" // ImpNeto > 0 exige objeto IVA
	ObsCatCVatNotAllowed  = "10071" // tipo C no debe informar objeto IVA
)

// errOutOfSequence error estándar 10016, con el texto del servicio real.
func errOutOfSequence() ServiceError {
	return ServiceError{
		Code: CodeOutOfSequence,
		Msg: "El numero o fecha del comprobante no se corresponde con el proximo a autorizar. " +
			"Consultar metodo FECompUltimoAutorizado.",
	}
}

// ErrOutOfSequenceRequest respuesta completa para un rechazo por secuencia.
func ErrOutOfSequenceRequest() *RequestError {
	return Failed(errOutOfSequence())
}

// ErrNotFoundRequest error 602: no hay datos para los parámetros ingresados.
func ErrNotFoundRequest() *RequestError {
	return Failed(ServiceError{
		Code: CodeNotFound,
		Msg:  "No existen datos en nuestros registros para los parametros ingresados.",
	})
}
