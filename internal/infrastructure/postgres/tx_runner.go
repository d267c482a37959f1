package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
)

var _ repository.Transactor = (*TxItemStore)(nil)

// TxItemStore ItemRepo sobre el pool más RunInTransaction.
type TxItemStore struct {
	*ItemRepo
	pool *pgxpool.Pool
}

// NewTxItemStore construye el almacén transaccional con el pool.
func NewTxItemStore(pool *pgxpool.Pool, table string) *TxItemStore {
	return &TxItemStore{ItemRepo: NewItemRepository(pool, table), pool: pool}
}

// RunInTransaction inicia una transacción, ejecuta fn con un repo atado a la tx y hace Commit o Rollback.
func (s *TxItemStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.ItemStore) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrap("tx", "", fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repo := &ItemRepo{q: tx, table: s.table, inTx: true}
	if err := fn(ctx, repo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrap("tx", "", fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
