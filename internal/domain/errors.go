package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrOutOfSequence = errors.New("número de comprobante fuera de secuencia")
	ErrAlreadyLeased = errors.New("ya existe un CAEA para el período y orden")
	ErrInvalidInput  = errors.New("entrada inválida")
)
