package repository

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// ItemStore define el puerto del almacén de documentos de inventario (DIP).
// Get devuelve (nil, nil) si el documento no existe.
type ItemStore interface {
	Get(ctx context.Context, name string) (*entity.Item, error)
	// Set crea o reemplaza el documento completo.
	Set(ctx context.Context, item *entity.Item) error
	// Merge escribe solo los campos indicados; crea el documento si no existe.
	Merge(ctx context.Context, name string, fields entity.Fields) error
	Delete(ctx context.Context, name string) error
	// Query devuelve documentos ordenados por clave ascendente.
	Query(ctx context.Context, q entity.PageQuery) ([]*entity.Item, error)
}

// Transactor lo implementan los almacenes capaces de ejecutar lectura-modificación-escritura
// atómica. Dentro de fn, las lecturas deben preceder a las escrituras y Query no está disponible.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx ItemStore) error) error
}
