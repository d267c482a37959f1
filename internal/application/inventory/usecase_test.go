package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newUseCase(t *testing.T, opts inventory.Options) (*inventory.ItemUseCase, *memory.ItemStore) {
	t.Helper()
	store := memory.NewItemStore()
	return inventory.NewItemUseCase(store, opts, nil), store
}

func defaultOpts() inventory.Options {
	return inventory.Options{PageSize: 10, AtomicQuantity: true, GuardMissingOnEdit: true}
}

func food(desc, price, supplier string) entity.Details {
	return entity.Details{Category: entity.CategoryFood, Description: desc, Price: price, Supplier: supplier}
}

func mustGet(t *testing.T, uc *inventory.ItemUseCase, name string) *entity.Item {
	t.Helper()
	it, err := uc.Get(context.Background(), name)
	require.NoError(t, err)
	return it
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta / baja / edición
// ──────────────────────────────────────────────────────────────────────────────

func TestAddItem_NAltasDanCantidadN(t *testing.T) {
	for _, atomic := range []bool{true, false} {
		opts := defaultOpts()
		opts.AtomicQuantity = atomic
		uc, _ := newUseCase(t, opts)
		assert.Equal(t, atomic, uc.Atomic())

		for i := 0; i < 5; i++ {
			_, err := uc.AddItem(context.Background(), "rice", food("", "", ""))
			require.NoError(t, err)
		}
		assert.Equal(t, int64(5), mustGet(t, uc, "rice").Quantity, "atomic=%v", atomic)
	}
}

func TestAddItem_ConcurrentesAtomicoNoPierdeAltas(t *testing.T) {
	uc, _ := newUseCase(t, defaultOpts())
	require.True(t, uc.Atomic(), "atómico por defecto")

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.AddItem(context.Background(), "fresh", food("", "", ""))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(n), mustGet(t, uc, "fresh").Quantity)
}

// Escenario completo de la manzana: alta, alta con metadatos nuevos, baja, baja.
func TestApple_Escenario(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t, defaultOpts())

	it, err := uc.AddItem(ctx, "apple", food("Red", "1.50", "Farm"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), it.Quantity)

	it, err = uc.AddItem(ctx, "apple", food("Green", "2.00", "Orchard"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), it.Quantity)

	got := mustGet(t, uc, "apple")
	assert.Equal(t, int64(2), got.Quantity)
	assert.Equal(t, "Green", got.Description, "el alta sobrescribe los metadatos")
	assert.Equal(t, "2.00", got.Price)
	assert.Equal(t, "Orchard", got.Supplier)

	it, err = uc.RemoveItem(ctx, "apple")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, int64(1), it.Quantity)
	assert.Equal(t, int64(1), mustGet(t, uc, "apple").Quantity)

	it, err = uc.RemoveItem(ctx, "apple")
	require.NoError(t, err)
	assert.Nil(t, it)
	assert.Equal(t, 0, store.Len())

	_, err = uc.Get(ctx, "apple")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddItem_SobrescribeMetadatosVacios(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, defaultOpts())
	_, err := uc.AddItem(ctx, "milk", food("Whole", "0.99", "Dairy Co"))
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, "milk", entity.Details{Category: entity.CategoryBeverage})
	require.NoError(t, err)

	got := mustGet(t, uc, "milk")
	assert.Equal(t, int64(2), got.Quantity)
	assert.Equal(t, entity.CategoryBeverage, got.Category)
	assert.Empty(t, got.Description)
	assert.Empty(t, got.Price)
	assert.Empty(t, got.Supplier)
}

func TestRemoveItem_ConMasDeUnaConservaCampos(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, defaultOpts())
	for i := 0; i < 3; i++ {
		_, err := uc.AddItem(ctx, "bread", food("Rye", "3", "Bakery"))
		require.NoError(t, err)
	}

	_, err := uc.RemoveItem(ctx, "bread")
	require.NoError(t, err)

	got := mustGet(t, uc, "bread")
	assert.Equal(t, int64(2), got.Quantity)
	assert.Equal(t, "Rye", got.Description)
	assert.Equal(t, "3", got.Price)
	assert.Equal(t, "Bakery", got.Supplier)
	assert.Equal(t, entity.CategoryFood, got.Category)
}

func TestRemoveItem_InexistenteNoHaceNada(t *testing.T) {
	uc, store := newUseCase(t, defaultOpts())
	it, err := uc.RemoveItem(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, it)
	assert.Equal(t, 0, store.Len())
}

func TestUpdateItemDetails_NoCambiaCantidad(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, defaultOpts())
	for i := 0; i < 3; i++ {
		_, err := uc.AddItem(ctx, "soap", entity.Details{Category: entity.CategoryCleaning})
		require.NoError(t, err)
	}

	err := uc.UpdateItemDetails(ctx, "soap", entity.Details{
		Category: entity.CategoryOther, Description: "Lavender", Price: "4.25", Supplier: "Acme",
	})
	require.NoError(t, err)

	got := mustGet(t, uc, "soap")
	assert.Equal(t, int64(3), got.Quantity)
	assert.Equal(t, entity.CategoryOther, got.Category)
	assert.Equal(t, "Lavender", got.Description)
	assert.Equal(t, "4.25", got.Price)
	assert.Equal(t, "Acme", got.Supplier)
}

func TestUpdateItemDetails_InexistenteConGuardDevuelveNotFound(t *testing.T) {
	uc, store := newUseCase(t, defaultOpts())
	err := uc.UpdateItemDetails(context.Background(), "ghost", food("x", "", ""))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, store.Len(), "no debe escribir nada")
}

func TestUpdateItemDetails_SinGuardCreaDocumentoParcial(t *testing.T) {
	opts := defaultOpts()
	opts.GuardMissingOnEdit = false
	uc, store := newUseCase(t, opts)

	require.NoError(t, uc.UpdateItemDetails(context.Background(), "ghost", food("x", "", "")))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, int64(0), mustGet(t, uc, "ghost").Quantity)
}

func TestValidacion_EntradaInvalida(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t, defaultOpts())

	cases := []struct {
		name string
		d    entity.Details
	}{
		{"", food("", "", "")},
		{"a/b", food("", "", "")},
		{"__id__", food("", "", "")},
		{"ok", entity.Details{Category: "Toys"}},
		{"ok", food("", "abc", "")},
	}
	for _, tc := range cases {
		_, err := uc.AddItem(ctx, tc.name, tc.d)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%q %+v", tc.name, tc.d)
	}
	assert.Equal(t, 0, store.Len())

	_, err := uc.RemoveItem(ctx, "a/b")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFalloDelAlmacenSePropaga(t *testing.T) {
	uc, store := newUseCase(t, defaultOpts())
	store.SetFailure(domain.ErrUnavailable)

	_, err := uc.AddItem(context.Background(), "apple", food("", "", ""))
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	_, err = uc.QueryPage(context.Background(), "", 0, "")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas paginadas
// ──────────────────────────────────────────────────────────────────────────────

func TestQueryPage_FiltraPorCategoria(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, defaultOpts())
	_, _ = uc.AddItem(ctx, "apple", food("", "", ""))
	_, _ = uc.AddItem(ctx, "cola", entity.Details{Category: entity.CategoryBeverage})
	_, _ = uc.AddItem(ctx, "soap", entity.Details{Category: entity.CategoryCleaning})
	_, _ = uc.AddItem(ctx, "bread", food("", "", ""))

	page, err := uc.QueryPage(ctx, entity.CategoryFood, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, it := range page.Items {
		assert.Equal(t, entity.CategoryFood, it.Category)
	}

	_, err = uc.QueryPage(ctx, "Toys", 10, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQueryPage_CursorSinSolapamiento(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t, defaultOpts())
	for _, n := range []string{"e", "a", "d", "b", "c"} {
		_, err := uc.AddItem(ctx, n, food("", "", ""))
		require.NoError(t, err)
	}

	first, err := uc.QueryPage(ctx, "", 2, "")
	require.NoError(t, err)
	second, err := uc.QueryPage(ctx, "", 2, first.Cursor)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, names(first.Items))
	assert.Equal(t, "b", first.Cursor)
	assert.Equal(t, []string{"c", "d"}, names(second.Items))
	assert.Equal(t, "d", second.Cursor)

	third, err := uc.QueryPage(ctx, "", 2, second.Cursor)
	require.NoError(t, err)
	fourth, err := uc.QueryPage(ctx, "", 2, third.Cursor)
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, names(third.Items))
	assert.Empty(t, fourth.Items)
	assert.Equal(t, "e", fourth.Cursor, "página vacía conserva el cursor de entrada")
}

func TestListAll_RecorreTodasLasPaginas(t *testing.T) {
	ctx := context.Background()
	opts := defaultOpts()
	opts.PageSize = 2
	uc, _ := newUseCase(t, opts)
	for _, n := range []string{"a", "b", "c", "d"} {
		_, err := uc.AddItem(ctx, n, food("", "", ""))
		require.NoError(t, err)
	}
	_, err := uc.AddItem(ctx, "z", entity.Details{Category: entity.CategoryOther})
	require.NoError(t, err)

	all, err := uc.ListAll(ctx, entity.CategoryFood)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(all))
}

func names(items []*entity.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
