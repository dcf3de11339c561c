package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los adaptadores los envuelven con fmt.Errorf("%w: ...") para añadir detalle;
// los llamadores comparan con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrValidation         = errors.New("entrada inválida")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrStorage            = errors.New("falla del almacenamiento")
)
