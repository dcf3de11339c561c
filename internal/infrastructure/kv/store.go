// Package kv implementa los almacenes clave-valor sobre los que corre el backend plano:
// Redis para dispositivos con servidor local, Badger como almacén embebido en disco
// y un almacén en memoria para tests.
package kv

import "errors"

var (
	// ErrLockTimeout no se obtuvo el bloqueo de la clave a tiempo.
	ErrLockTimeout = errors.New("kv: tiempo de espera agotado al bloquear la clave")
	// ErrLockLost el bloqueo expiró o pasó a otro dueño antes de escribir.
	ErrLockLost = errors.New("kv: bloqueo perdido antes de escribir")
)

// Lease bloqueo obtenido con Lock. Se pasa a Write para que el almacén verifique
// que sigue vigente en el momento de escribir.
type Lease interface {
	Release()
}
