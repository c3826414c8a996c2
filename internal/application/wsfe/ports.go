// Package wsfe implementa los casos de uso del autorizador de comprobantes:
// emisión de CAE, otorgamiento y uso de CAEA, y consultas sobre los registros.
package wsfe

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/wsfe-api/internal/domain/repository"
)

// Stores agrupa los repositorios del autorizador. Los casos de uso los reciben
// vía TxRunner para mutaciones y directamente para lecturas.
type Stores struct {
	Sequences repository.SequenceRepository
	Receipts  repository.ReceiptRepository
	CAEA      repository.CAEARepository
}

// TxRunner ejecuta fn como unidad de trabajo atómica, serializada respecto de
// cualquier otra unidad que comparta alguna de las claves. Claves disjuntas
// avanzan en paralelo: no hay lock global. Si fn devuelve error, ningún efecto
// parcial queda visible para otros llamadores.
type TxRunner interface {
	Run(ctx context.Context, keys []string, fn func(s Stores) error) error
}

// Clock provee la hora del servicio; inyectable para tests deterministas.
type Clock func() time.Time

// CodeGenerator acuña códigos de autorización de 14 dígitos, únicos durante
// toda la vida del almacén (un CAE/CAEA jamás colisiona con uno ya emitido).
type CodeGenerator interface {
	NextCode() (string, error)
}

// Pinger comprueba la salud del backend de persistencia (FEDummy).
type Pinger interface {
	Ping(ctx context.Context) error
}

// SequenceKey clave de serialización por (punto de venta, tipo de comprobante).
func SequenceKey(pos, docType int) string {
	return fmt.Sprintf("seq/%d/%d", pos, docType)
}

// LeaseKey clave de serialización por (período, orden) de CAEA.
func LeaseKey(period string, fortnight int) string {
	return fmt.Sprintf("caea/%s/%d", period, fortnight)
}

// UsageKey clave de serialización por (CAEA, punto de venta) para las marcas
// de uso / sin movimiento.
func UsageKey(code string, pos int) string {
	return fmt.Sprintf("caea-uso/%s/%d", code, pos)
}
