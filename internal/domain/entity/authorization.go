package entity

import "time"

// Tipos de emisión de la autorización (EmisionTipo en FECompConsultar).
const (
	AuthKindCAE  = "CAE"  // código otorgado en línea, por comprobante
	AuthKindCAEA = "CAEA" // código anticipado por período/quincena
)

// AuthorizationRecord es el artefacto inmutable que queda registrado al
// autorizar un comprobante. Se crea una única vez y nunca se modifica.
type AuthorizationRecord struct {
	ID       string // uuid interno del registro
	Cuit     string // contribuyente emisor (eco del token validado)
	Pos      int    // PtoVta
	DocType  int    // CbteTipo
	DocNum   int64  // CbteDesde == CbteHasta (se autoriza de a un comprobante)
	Code     string // CAE o CAEA de 14 dígitos
	Kind     string // AuthKindCAE | AuthKindCAEA
	DueDate  time.Time
	IssuedAt time.Time // FchProceso
}

// CAEALease es el CAEA otorgado para un período y quincena. A lo sumo existe
// uno por (período, orden); jamás se reemite ni se pisa.
type CAEALease struct {
	ID                string // uuid interno
	Period            string // AAAAMM
	Fortnight         int    // Orden: 1 | 2
	Code              string // CAEA de 14 dígitos
	ValidFrom         time.Time
	ValidUntil        time.Time
	ReportingDeadline time.Time // FchTopeInf: tope para el régimen informativo
	IssuedAt          time.Time // FchProceso
}
