package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
)

// maxPageSize límite de ítems por página en consultas sin sesión.
const maxPageSize = 100

// ItemHandler consultas de inventario sin estado de sesión.
type ItemHandler struct {
	uc *inventory.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// List godoc
// @Summary      Página de ítems
// @Description  Hasta limit ítems de la categoría, en orden ascendente de nombre, posteriores a cursor.
// @Tags         items
// @Produce      json
// @Param        category  query  string  false  "Food, Beverage, Cleaning u Other (vacío = todas)"
// @Param        limit     query  int     false  "Tamaño de página (por defecto 10, máx. 100)"
// @Param        cursor    query  string  false  "Nombre del último ítem de la página anterior"
// @Success      200  {object}  dto.ItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var q dto.PageRequest
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	q.DefaultPage(h.uc.PageSize(), maxPageSize)

	page, err := h.uc.QueryPage(c.UserContext(), q.Category, q.Limit, q.Cursor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ItemListResponse{
		Items: dto.ToItemResponses(page.Items),
		Page:  dto.PageResponse{Limit: q.Limit, Category: q.Category, Cursor: page.Cursor},
	})
}

// GetByName godoc
// @Summary      Obtener ítem por nombre
// @Tags         items
// @Produce      json
// @Param        name  path  string  true  "Nombre del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{name} [get]
func (h *ItemHandler) GetByName(c *fiber.Ctx) error {
	item, err := h.uc.Get(c.UserContext(), pathName(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToItemResponse(item))
}
