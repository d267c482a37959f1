package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrUnavailable      = errors.New("almacén no disponible")
	ErrPermissionDenied = errors.New("permiso denegado")
	ErrUnknown          = errors.New("error desconocido del almacén")
	ErrInvalidInput     = errors.New("entrada inválida")
)

// ErrorKind clasifica los fallos del almacén de documentos.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindUnavailable
	KindPermissionDenied
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindUnavailable:
		return "Unavailable"
	case KindPermissionDenied:
		return "PermissionDenied"
	default:
		return "Unknown"
	}
}

// sentinel devuelve el error centinela asociado al tipo.
func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindUnavailable:
		return ErrUnavailable
	case KindPermissionDenied:
		return ErrPermissionDenied
	default:
		return ErrUnknown
	}
}

// StoreError envuelve un fallo de un adaptador de persistencia con la operación,
// la clave afectada y su clasificación.
type StoreError struct {
	Op   string // get, set, merge, delete, query, tx
	Key  string
	Kind ErrorKind
	Err  error
}

// NewStoreError construye un StoreError; con err nil devuelve nil.
func NewStoreError(op, key string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Key: key, Kind: kind, Err: err}
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %q: %s: %v", e.Op, e.Key, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, domain.ErrUnavailable) sobre un StoreError.
func (e *StoreError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf devuelve la clasificación de cualquier error de la cadena.
// Los errores que no provienen de un adaptador se consideran Unknown.
func KindOf(err error) ErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	default:
		return KindUnknown
	}
}
