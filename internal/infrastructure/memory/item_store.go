// Package memory implementa el almacén de inventario en memoria (desarrollo y tests).
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var (
	_ repository.ItemStore  = (*ItemStore)(nil)
	_ repository.Transactor = (*ItemStore)(nil)
)

var errQueryInTx = errors.New("query no permitido dentro de una transacción")

// ItemStore mapa nombre → documento protegido por RWMutex.
// Los documentos se copian al entrar y al salir para no compartir punteros.
type ItemStore struct {
	mu   sync.RWMutex
	docs map[string]*entity.Item
	// fail, si no es nil, se devuelve en cada operación (simula caídas del backend).
	fail error
}

// NewItemStore crea un almacén vacío.
func NewItemStore() *ItemStore {
	return &ItemStore{docs: make(map[string]*entity.Item)}
}

// SetFailure hace que todas las operaciones fallen con err (nil restablece).
func (s *ItemStore) SetFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Len número de documentos.
func (s *ItemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *ItemStore) failure(op, key string) error {
	if s.fail == nil {
		return nil
	}
	return domain.NewStoreError(op, key, domain.KindOf(s.fail), s.fail)
}

// Get obtiene un documento por nombre.
func (s *ItemStore) Get(ctx context.Context, name string) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("get", name, domain.KindUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("get", name); err != nil {
		return nil, err
	}
	return s.docs[name].Clone(), nil
}

// Set crea o reemplaza el documento.
func (s *ItemStore) Set(ctx context.Context, item *entity.Item) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError("set", item.Name, domain.KindUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("set", item.Name); err != nil {
		return err
	}
	s.docs[item.Name] = item.Clone()
	return nil
}

// Merge escribe los campos dados; crea un documento parcial si no existe.
func (s *ItemStore) Merge(ctx context.Context, name string, fields entity.Fields) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError("merge", name, domain.KindUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("merge", name); err != nil {
		return err
	}
	s.merge(name, fields)
	return nil
}

func (s *ItemStore) merge(name string, fields entity.Fields) {
	doc, ok := s.docs[name]
	if !ok {
		doc = &entity.Item{Name: name}
		s.docs[name] = doc
	}
	fields.Apply(doc)
}

// Delete elimina el documento; borrar uno inexistente no es error.
func (s *ItemStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStoreError("delete", name, domain.KindUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("delete", name); err != nil {
		return err
	}
	delete(s.docs, name)
	return nil
}

// Query filtra por categoría, ordena por nombre y corta después del cursor.
func (s *ItemStore) Query(ctx context.Context, q entity.PageQuery) ([]*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("query", "", domain.KindUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failure("query", ""); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(s.docs))
	for name, doc := range s.docs {
		if q.Category != "" && doc.Category != q.Category {
			continue
		}
		if q.After != "" && name <= q.After {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if q.Limit > 0 && len(names) > q.Limit {
		names = names[:q.Limit]
	}

	out := make([]*entity.Item, 0, len(names))
	for _, name := range names {
		out = append(out, s.docs[name].Clone())
	}
	return out, nil
}

// RunInTransaction ejecuta fn con el almacén bloqueado en exclusiva.
func (s *ItemStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.ItemStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("tx", ""); err != nil {
		return err
	}
	return fn(ctx, &txStore{s: s})
}

// txStore opera sobre el mapa sin tomar el lock (ya lo tiene RunInTransaction).
type txStore struct {
	s *ItemStore
}

func (t *txStore) Get(_ context.Context, name string) (*entity.Item, error) {
	return t.s.docs[name].Clone(), nil
}

func (t *txStore) Set(_ context.Context, item *entity.Item) error {
	t.s.docs[item.Name] = item.Clone()
	return nil
}

func (t *txStore) Merge(_ context.Context, name string, fields entity.Fields) error {
	t.s.merge(name, fields)
	return nil
}

func (t *txStore) Delete(_ context.Context, name string) error {
	delete(t.s.docs, name)
	return nil
}

func (t *txStore) Query(context.Context, entity.PageQuery) ([]*entity.Item, error) {
	return nil, domain.NewStoreError("query", "", domain.KindUnknown, errQueryInTx)
}
