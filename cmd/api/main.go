package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/inventory-tracker/docs"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/csvexport"
	infrapdf "github.com/jhoicas/inventory-tracker/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/inventory-tracker/internal/interfaces/http"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("abrir almacén")
	}
	defer closeStore()

	itemUC := inventory.NewItemUseCase(store, inventory.Options{
		PageSize:           cfg.Inventory.PageSize,
		AtomicQuantity:     cfg.Inventory.AtomicQuantity,
		GuardMissingOnEdit: cfg.Inventory.GuardMissingOnEdit,
	}, log.Named("inventory"))
	log.Info().Bool("atomic", itemUC.Atomic()).Int("page_size", itemUC.PageSize()).Msg("caso de uso de inventario listo")

	exporters := []inventory.Exporter{
		csvexport.New(),
		infrapdf.NewReportGenerator("Inventario"),
		xmlexport.New(),
	}
	sessions := inventory.NewSessions(itemUC, exporters, inventory.SessionConfig{
		TTL:         cfg.Inventory.SessionTTL,
		MaxSessions: cfg.Inventory.MaxSessions,
	}, log.Named("sessions"))
	go sessions.Run(ctx, time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true, // los valores de Params/Query sobreviven a la petición
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Tracker API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  cfg.App.Name,
			"backend":  cfg.Store.Backend,
			"sessions": sessions.Len(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Items:    itemUC,
		Sessions: sessions,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
