package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Items    *inventory.ItemUseCase
	Sessions *inventory.Sessions
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Consultas sin estado
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Items)
	items.Get("/", itemHandler.List)
	items.Get("/:name", itemHandler.GetByName)

	// Sesiones: lista mostrada, filtro, cursor y búsqueda local
	sessions := api.Group("/sessions")
	sessionHandler := NewSessionHandler(deps.Sessions)
	sessions.Post("/", sessionHandler.Create)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Delete("/:id", sessionHandler.Close)
	sessions.Put("/:id/filter", sessionHandler.SetFilter)
	sessions.Post("/:id/refresh", sessionHandler.Refresh)
	sessions.Post("/:id/more", sessionHandler.LoadMore)
	sessions.Post("/:id/items", sessionHandler.AddItem)
	sessions.Patch("/:id/items/:name", sessionHandler.UpdateItem)
	sessions.Delete("/:id/items/:name", sessionHandler.RemoveItem)
	sessions.Get("/:id/export", sessionHandler.Export)
}
