package inventory_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/csvexport"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/xmlexport"
)

func newController(t *testing.T, pageSize int) (*inventory.Controller, *memory.ItemStore) {
	t.Helper()
	store := memory.NewItemStore()
	opts := defaultOpts()
	opts.PageSize = pageSize
	uc := inventory.NewItemUseCase(store, opts, nil)
	exporters := []inventory.Exporter{csvexport.New(), xmlexport.New()}
	return inventory.NewController("test", uc, exporters, nil), store
}

func seedStore(t *testing.T, store *memory.ItemStore, items ...*entity.Item) {
	t.Helper()
	for _, it := range items {
		require.NoError(t, store.Set(context.Background(), it))
	}
}

func letters(n int) []*entity.Item {
	out := make([]*entity.Item, n)
	for i := 0; i < n; i++ {
		out[i] = &entity.Item{Name: string(rune('a' + i)), Quantity: 1, Category: entity.CategoryFood}
	}
	return out
}

func TestController_EstadoInicialIdle(t *testing.T) {
	c, _ := newController(t, 10)
	v := c.View()
	assert.Equal(t, inventory.StateIdle, v.State)
	assert.Empty(t, v.Items)
	assert.Equal(t, "test", v.SessionID)
}

func TestController_RefreshYLoadMore(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, 2)
	seedStore(t, store, letters(5)...)

	require.NoError(t, c.Refresh(ctx))
	v := c.View()
	assert.Equal(t, inventory.StateLoaded, v.State)
	assert.Equal(t, []string{"a", "b"}, names(v.Items))
	assert.Equal(t, "b", v.Cursor)

	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))
	v = c.View()
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names(v.Items))
	assert.Equal(t, "e", v.Cursor)

	// página vacía: sin cambios
	require.NoError(t, c.LoadMore(ctx))
	v = c.View()
	assert.Len(t, v.Items, 5)
	assert.Equal(t, "e", v.Cursor)
	assert.Equal(t, inventory.StateLoaded, v.State)
}

func TestController_LoadMoreConcurrenteNoDuplica(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, 2)
	seedStore(t, store, letters(10)...)
	require.NoError(t, c.Refresh(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.LoadMore(ctx))
		}()
	}
	wg.Wait()

	got := names(c.View().Items)
	assert.Len(t, got, 10)
	assert.True(t, sort.StringsAreSorted(got), "las páginas se agregan en orden: %v", got)
}

func TestController_AltasConcurrentesSinTransaccion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewItemStore()
	opts := defaultOpts()
	opts.AtomicQuantity = false
	uc := inventory.NewItemUseCase(store, opts, nil)
	require.False(t, uc.Atomic())
	c := inventory.NewController("test", uc, nil, nil)

	const n = 15
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.AddItem(ctx, "apple", food("", "", ""))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	it, err := store.Get(ctx, "apple")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, int64(n), it.Quantity, "la sesión aplica sus altas de a una")
	v := c.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, int64(n), v.Items[0].Quantity)
}

func TestController_SetCategoryFilterReiniciaCursor(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, 2)
	seedStore(t, store, letters(4)...)
	seedStore(t, store,
		&entity.Item{Name: "cola", Quantity: 1, Category: entity.CategoryBeverage},
		&entity.Item{Name: "water", Quantity: 1, Category: entity.CategoryBeverage},
	)

	require.NoError(t, c.Refresh(ctx))
	require.NoError(t, c.LoadMore(ctx))

	require.NoError(t, c.SetCategoryFilter(ctx, entity.CategoryBeverage))
	v := c.View()
	assert.Equal(t, entity.CategoryBeverage, v.Category)
	assert.Equal(t, []string{"cola", "water"}, names(v.Items))
	assert.Equal(t, "water", v.Cursor)

	require.NoError(t, c.SetCategoryFilter(ctx, ""))
	assert.Equal(t, []string{"a", "b"}, names(c.View().Items))

	assert.ErrorIs(t, c.SetCategoryFilter(ctx, "Toys"), domain.ErrInvalidInput)
}

func TestController_MutacionesRecargan(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(t, 10)

	it, err := c.AddItem(ctx, "apple", food("Red", "1.50", "Farm"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), it.Quantity)
	v := c.View()
	require.Len(t, v.Items, 1)
	assert.Equal(t, "apple", v.Items[0].Name)

	require.NoError(t, c.UpdateItemDetails(ctx, "apple", food("Green", "2", "Orchard")))
	v = c.View()
	assert.Equal(t, "Green", v.Items[0].Description)
	assert.Equal(t, int64(1), v.Items[0].Quantity)

	it, err = c.RemoveItem(ctx, "apple")
	require.NoError(t, err)
	assert.Nil(t, it)
	assert.Empty(t, c.View().Items)
}

func TestController_FalloDejaListaYMarcaError(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, 10)
	seedStore(t, store, letters(3)...)
	require.NoError(t, c.Refresh(ctx))

	store.SetFailure(domain.ErrUnavailable)
	err := c.Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	v := c.View()
	assert.Equal(t, inventory.StateError, v.State)
	assert.NotEmpty(t, v.LastError)
	assert.Len(t, v.Items, 3, "la lista mostrada no cambia")

	_, err = c.AddItem(ctx, "x", food("", "", ""))
	assert.ErrorIs(t, err, domain.ErrUnavailable)

	store.SetFailure(nil)
	require.NoError(t, c.Refresh(ctx))
	v = c.View()
	assert.Equal(t, inventory.StateLoaded, v.State)
	assert.Empty(t, v.LastError)
}

func TestController_LocalSearch(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, 10)
	seedStore(t, store,
		&entity.Item{Name: "apple", Quantity: 1},
		&entity.Item{Name: "Pineapple", Quantity: 1},
		&entity.Item{Name: "bread", Quantity: 1},
	)
	require.NoError(t, c.Refresh(ctx))

	got := c.LocalSearch("APP")
	assert.ElementsMatch(t, []string{"apple", "Pineapple"}, names(got))

	v := c.View()
	assert.Equal(t, "APP", v.Search)
	assert.Len(t, v.Items, 3)
	assert.Len(t, v.Visible, 2)

	assert.Len(t, c.LocalSearch(""), 3, "búsqueda vacía muestra todo")
}

func TestController_LocalSearchSoloSobreCargados(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, 2)
	seedStore(t, store, letters(4)...)
	require.NoError(t, c.Refresh(ctx))

	assert.Empty(t, c.LocalSearch("d"), "d no está cargado todavía")
}

func TestController_ExportCSV(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, 10)
	seedStore(t, store,
		&entity.Item{Name: "apple", Quantity: 2, Category: "Food", Description: "Red, crisp", Price: "1.50", Supplier: "Farm"},
		&entity.Item{Name: "soap", Quantity: 1, Category: "Cleaning"},
	)
	require.NoError(t, c.Refresh(ctx))
	c.LocalSearch("apple") // la búsqueda no afecta la exportación

	out, err := c.ExportVisible(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, "inventory.csv", out.FileName)
	assert.Equal(t, 2, out.Count)

	rows, err := csv.NewReader(bytes.NewReader(out.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "quantity", "category", "description", "price", "supplier"}, rows[0])
	assert.Equal(t, []string{"apple", "2", "Food", "Red, crisp", "1.50", "Farm"}, rows[1])
	assert.Equal(t, []string{"soap", "1", "Cleaning", "", "", ""}, rows[2])
}

func TestController_ExportAlcance(t *testing.T) {
	ctx := context.Background()
	c, store := newController(t, 2)
	seedStore(t, store, letters(5)...)
	require.NoError(t, c.Refresh(ctx))

	visible, err := c.ExportVisible(ctx, "csv", inventory.ScopeVisible)
	require.NoError(t, err)
	assert.Equal(t, 2, visible.Count, "solo las páginas cargadas")

	all, err := c.ExportVisible(ctx, "xml", inventory.ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, 5, all.Count)
	assert.Equal(t, "inventory.xml", all.FileName)

	_, err = c.ExportVisible(ctx, "docx", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = c.ExportVisible(ctx, "csv", "page")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
