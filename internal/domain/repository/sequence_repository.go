package repository

import "context"

// SequenceRepository es el libro de numeración: último comprobante autorizado
// por (punto de venta, tipo de comprobante). Es la única fuente de verdad para
// "cuál es el próximo número".
type SequenceRepository interface {
	// Last devuelve el último número autorizado para la clave, 0 si todavía
	// no se autorizó ninguno. Solo lectura.
	Last(ctx context.Context, pos, docType int) (int64, error)

	// ReserveNext incrementa el contador sii docNum == Last()+1; si no,
	// devuelve domain.ErrOutOfSequence sin mutar nada. El compare-and-increment
	// es atómico respecto de otros llamadores sobre la misma clave: es la
	// garantía de numeración correlativa sin huecos ni duplicados.
	ReserveNext(ctx context.Context, pos, docType int, docNum int64) error
}
