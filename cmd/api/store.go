package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventory-tracker/internal/domain/repository"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/firestoredb"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// openStore construye el almacén según STORE_BACKEND. close libera conexiones.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.ItemStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendFirestore:
		s, err := firestoredb.NewItemStore(ctx, firestoredb.Config{
			ProjectID:       cfg.Firestore.ProjectID,
			Collection:      cfg.Firestore.Collection,
			CredentialsFile: cfg.Firestore.CredentialsFile,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("project", cfg.Firestore.ProjectID).Str("collection", cfg.Firestore.Collection).Msg("firestore conectado")
		return s, func() {
			if err := s.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar cliente firestore")
			}
		}, nil

	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		s := postgres.NewTxItemStore(pool, cfg.DB.Table)
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Str("table", cfg.DB.Table).Msg("postgres conectado")
		return s, pool.Close, nil

	case config.BackendMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return memory.NewItemStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("backend desconocido %q", cfg.Store.Backend)
	}
}
