// Package repotest contiene la batería común que cumple todo adaptador de repository.ItemStore.
package repotest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

// Factory devuelve un almacén vacío para cada subtest.
type Factory func(t *testing.T) repository.ItemStore

// Run ejecuta la batería sobre el adaptador.
func Run(t *testing.T, newStore Factory) {
	t.Run("GetInexistente", func(t *testing.T) {
		s := newStore(t)
		it, err := s.Get(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Nil(t, it)
	})

	t.Run("SetReemplaza", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Set(ctx, &entity.Item{Name: "apple", Quantity: 1, Category: "Food", Description: "Red"}))
		require.NoError(t, s.Set(ctx, &entity.Item{Name: "apple", Quantity: 2, Category: "Food"}))

		it, err := s.Get(ctx, "apple")
		require.NoError(t, err)
		require.NotNil(t, it)
		assert.Equal(t, "apple", it.Name)
		assert.Equal(t, int64(2), it.Quantity)
		assert.Empty(t, it.Description)
	})

	t.Run("MergeConservaCampos", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Set(ctx, &entity.Item{Name: "soap", Quantity: 3, Category: "Cleaning", Supplier: "Acme"}))
		require.NoError(t, s.Merge(ctx, "soap", entity.Fields{entity.FieldQuantity: int64(2)}))
		require.NoError(t, s.Merge(ctx, "soap", entity.Fields{entity.FieldDescription: "Lavender"}))

		it, err := s.Get(ctx, "soap")
		require.NoError(t, err)
		require.NotNil(t, it)
		assert.Equal(t, int64(2), it.Quantity)
		assert.Equal(t, "Cleaning", it.Category)
		assert.Equal(t, "Acme", it.Supplier)
		assert.Equal(t, "Lavender", it.Description)
	})

	t.Run("Delete", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.Set(ctx, &entity.Item{Name: "milk", Quantity: 1}))
		require.NoError(t, s.Delete(ctx, "milk"))
		it, err := s.Get(ctx, "milk")
		require.NoError(t, err)
		assert.Nil(t, it)
		assert.NoError(t, s.Delete(ctx, "milk"), "borrar inexistente no es error")
	})

	t.Run("QueryPaginaPorCursor", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		for _, n := range []string{"e", "a", "d", "b", "c"} {
			require.NoError(t, s.Set(ctx, &entity.Item{Name: n, Quantity: 1, Category: "Food"}))
		}
		require.NoError(t, s.Set(ctx, &entity.Item{Name: "cola", Quantity: 1, Category: "Beverage"}))

		first, err := s.Query(ctx, entity.PageQuery{Category: "Food", Limit: 2})
		require.NoError(t, err)
		second, err := s.Query(ctx, entity.PageQuery{Category: "Food", Limit: 2, After: "b"})
		require.NoError(t, err)
		rest, err := s.Query(ctx, entity.PageQuery{Category: "Food", Limit: 2, After: "d"})
		require.NoError(t, err)

		assert.Equal(t, []string{"a", "b"}, names(first))
		assert.Equal(t, []string{"c", "d"}, names(second))
		assert.Equal(t, []string{"e"}, names(rest))

		all, err := s.Query(ctx, entity.PageQuery{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, all, 6)
	})

	t.Run("Transaccion", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		txr, ok := s.(repository.Transactor)
		if !ok {
			t.Skip("el adaptador no implementa Transactor")
		}
		require.NoError(t, s.Set(ctx, &entity.Item{Name: "rice", Quantity: 1}))

		err := txr.RunInTransaction(ctx, func(ctx context.Context, tx repository.ItemStore) error {
			it, err := tx.Get(ctx, "rice")
			if err != nil {
				return err
			}
			return tx.Merge(ctx, "rice", entity.Fields{entity.FieldQuantity: it.Quantity + 1})
		})
		require.NoError(t, err)

		it, err := s.Get(ctx, "rice")
		require.NoError(t, err)
		assert.Equal(t, int64(2), it.Quantity)
	})
	t.Run("TransaccionesConcurrentesAlCrear", func(t *testing.T) {
		runConcurrentAdds(t, newStore(t))
	})
}

// concurrentAdds altas simultáneas del mismo ítem nuevo dentro de transacciones.
const concurrentAdds = 4

func runConcurrentAdds(t *testing.T, s repository.ItemStore) {
	ctx := context.Background()
	txr, ok := s.(repository.Transactor)
	if !ok {
		t.Skip("el adaptador no implementa Transactor")
	}

	var wg sync.WaitGroup
	errs := make(chan error, concurrentAdds)
	for i := 0; i < concurrentAdds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- txr.RunInTransaction(ctx, func(ctx context.Context, tx repository.ItemStore) error {
				it, err := tx.Get(ctx, "fresh")
				if err != nil {
					return err
				}
				next := &entity.Item{Name: "fresh", Quantity: 1, Category: "Food"}
				if it != nil {
					next.Quantity = it.Quantity + 1
				}
				return tx.Set(ctx, next)
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	it, err := s.Get(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, int64(concurrentAdds), it.Quantity, "ninguna alta concurrente se pierde, tampoco al crear")
}

func names(items []*entity.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
