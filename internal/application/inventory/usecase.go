package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// DefaultPageSize tamaño de página cuando no se indica otro.
const DefaultPageSize = 10

// Options comportamiento configurable del caso de uso.
type Options struct {
	PageSize int
	// AtomicQuantity ejecuta alta/baja dentro de una transacción si el almacén implementa Transactor.
	// En false se usa lectura-y-escritura no atómica (última escritura gana).
	AtomicQuantity bool
	// GuardMissingOnEdit hace que editar un ítem inexistente devuelva ErrNotFound
	// en lugar de crear un documento parcial vía merge.
	GuardMissingOnEdit bool
}

// Page resultado de una consulta paginada. Cursor es la clave del último ítem,
// o el cursor de entrada si la página vino vacía.
type Page struct {
	Items  []*entity.Item
	Cursor string
}

// ItemUseCase ciclo de vida de los ítems de inventario sobre el almacén de documentos.
// No guarda estado de pantalla; eso lo hace Controller.
type ItemUseCase struct {
	store repository.ItemStore
	tx    repository.Transactor
	opts  Options
	log   *logger.Logger
}

// NewItemUseCase construye el caso de uso. Si store implementa Transactor y
// opts.AtomicQuantity está activo, alta/baja/edición corren en transacción.
func NewItemUseCase(store repository.ItemStore, opts Options, log *logger.Logger) *ItemUseCase {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if log == nil {
		log = logger.Nop()
	}
	uc := &ItemUseCase{store: store, opts: opts, log: log}
	if t, ok := store.(repository.Transactor); ok && opts.AtomicQuantity {
		uc.tx = t
	}
	return uc
}

// PageSize tamaño de página por defecto.
func (uc *ItemUseCase) PageSize() int { return uc.opts.PageSize }

// Atomic indica si alta/baja corren en transacción.
func (uc *ItemUseCase) Atomic() bool { return uc.tx != nil }

func (uc *ItemUseCase) run(ctx context.Context, fn func(ctx context.Context, s repository.ItemStore) error) error {
	if uc.tx != nil {
		return uc.tx.RunInTransaction(ctx, fn)
	}
	return fn(ctx, uc.store)
}

// Get obtiene un ítem; devuelve ErrNotFound si no existe.
func (uc *ItemUseCase) Get(ctx context.Context, name string) (*entity.Item, error) {
	if !entity.ValidName(name) {
		return nil, fmt.Errorf("nombre %q: %w", name, domain.ErrInvalidInput)
	}
	item, err := uc.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotFound)
	}
	return item, nil
}

// AddItem suma una unidad. Si el ítem existe reescribe el documento completo con quantity+1
// y los metadatos recibidos (los anteriores se descartan, no se mezclan); si no existe lo crea con quantity=1.
func (uc *ItemUseCase) AddItem(ctx context.Context, name string, d entity.Details) (*entity.Item, error) {
	if err := validate(name, d); err != nil {
		return nil, err
	}
	var out *entity.Item
	err := uc.run(ctx, func(ctx context.Context, s repository.ItemStore) error {
		existing, err := s.Get(ctx, name)
		if err != nil {
			return err
		}
		item := &entity.Item{
			Name:        name,
			Quantity:    1,
			Category:    d.Category,
			Description: d.Description,
			Price:       d.Price,
			Supplier:    d.Supplier,
		}
		if existing != nil {
			item.Quantity = existing.Quantity + 1
		}
		if err := s.Set(ctx, item); err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("item", name).Int64("quantity", out.Quantity).Msg("ítem agregado")
	return out, nil
}

// UpdateItemDetails mezcla category/description/price/supplier sin tocar quantity.
func (uc *ItemUseCase) UpdateItemDetails(ctx context.Context, name string, d entity.Details) error {
	if err := validate(name, d); err != nil {
		return err
	}
	err := uc.run(ctx, func(ctx context.Context, s repository.ItemStore) error {
		if uc.opts.GuardMissingOnEdit {
			existing, err := s.Get(ctx, name)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("%s: %w", name, domain.ErrNotFound)
			}
		}
		return s.Merge(ctx, name, d.Fields())
	})
	if err != nil {
		return err
	}
	uc.log.Debug().Str("item", name).Msg("detalles actualizados")
	return nil
}

// RemoveItem resta una unidad. Con quantity 1 elimina el documento; con más, escribe quantity-1
// dejando el resto de campos intactos; si no existe no hace nada.
// Devuelve el ítem resultante o nil si ya no existe.
func (uc *ItemUseCase) RemoveItem(ctx context.Context, name string) (*entity.Item, error) {
	if !entity.ValidName(name) {
		return nil, fmt.Errorf("nombre %q: %w", name, domain.ErrInvalidInput)
	}
	var out *entity.Item
	err := uc.run(ctx, func(ctx context.Context, s repository.ItemStore) error {
		existing, err := s.Get(ctx, name)
		if err != nil || existing == nil {
			return err
		}
		if existing.Quantity <= 1 {
			return s.Delete(ctx, name)
		}
		existing.Quantity--
		if err := s.Merge(ctx, name, entity.Fields{entity.FieldQuantity: existing.Quantity}); err != nil {
			return err
		}
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		uc.log.Debug().Str("item", name).Msg("ítem eliminado o inexistente")
	} else {
		uc.log.Debug().Str("item", name).Int64("quantity", out.Quantity).Msg("unidad retirada")
	}
	return out, nil
}

// QueryPage devuelve hasta pageSize ítems de la categoría (vacía = todas) posteriores al cursor.
func (uc *ItemUseCase) QueryPage(ctx context.Context, category string, pageSize int, cursor string) (*Page, error) {
	if !entity.ValidCategory(category) {
		return nil, fmt.Errorf("categoría %q: %w", category, domain.ErrInvalidInput)
	}
	if pageSize <= 0 {
		pageSize = uc.opts.PageSize
	}
	items, err := uc.store.Query(ctx, entity.PageQuery{Category: category, Limit: pageSize, After: cursor})
	if err != nil {
		return nil, err
	}
	page := &Page{Items: items, Cursor: cursor}
	if len(items) > 0 {
		page.Cursor = items[len(items)-1].Name
	}
	return page, nil
}

// ListAll recorre todas las páginas de la categoría (exportación completa).
func (uc *ItemUseCase) ListAll(ctx context.Context, category string) ([]*entity.Item, error) {
	var all []*entity.Item
	cursor := ""
	for {
		page, err := uc.QueryPage(ctx, category, uc.opts.PageSize, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) < uc.opts.PageSize {
			return all, nil
		}
		cursor = page.Cursor
	}
}

func validate(name string, d entity.Details) error {
	if !entity.ValidName(name) {
		return fmt.Errorf("nombre %q: %w", name, domain.ErrInvalidInput)
	}
	if !entity.ValidCategory(d.Category) {
		return fmt.Errorf("categoría %q: %w", d.Category, domain.ErrInvalidInput)
	}
	if p := strings.TrimSpace(d.Price); p != "" {
		if _, err := decimal.NewFromString(p); err != nil {
			return fmt.Errorf("precio %q: %w", d.Price, domain.ErrInvalidInput)
		}
	}
	return nil
}
