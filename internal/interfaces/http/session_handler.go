package http

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
)

// SessionHandler operaciones sobre la lista mostrada de una sesión.
type SessionHandler struct {
	sessions *inventory.Sessions
}

// NewSessionHandler construye el handler.
func NewSessionHandler(sessions *inventory.Sessions) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create godoc
// @Summary      Abrir sesión
// @Description  Crea una sesión y carga la primera página sin filtro.
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  dto.SessionView
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	ctrl, err := h.sessions.Create(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSessionView(ctrl.View()))
}

// Get godoc
// @Summary      Estado de la sesión
// @Description  Con q aplica la búsqueda local por nombre sobre la lista cargada (sin consultar el almacén).
// @Tags         sessions
// @Produce      json
// @Param        id  path   string  true   "ID de sesión"
// @Param        q   query  string  false  "Texto de búsqueda"
// @Success      200  {object}  dto.SessionView
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if c.Context().QueryArgs().Has("q") {
		// la sesión guarda el texto: copiarlo fuera del buffer de fasthttp
		ctrl.LocalSearch(utils.CopyString(c.Query("q")))
	}
	return c.JSON(toSessionView(ctrl.View()))
}

// Close godoc
// @Summary      Cerrar sesión
// @Tags         sessions
// @Param        id  path  string  true  "ID de sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id} [delete]
func (h *SessionHandler) Close(c *fiber.Ctx) error {
	if !h.sessions.Close(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sesión no encontrada"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetFilter godoc
// @Summary      Cambiar filtro de categoría
// @Description  Reinicia el cursor y reemplaza la lista con la primera página.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de sesión"
// @Param        body  body  dto.SetFilterRequest  true  "category (vacío = todas)"
// @Success      200  {object}  dto.SessionView
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/filter [put]
func (h *SessionHandler) SetFilter(c *fiber.Ctx) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SetFilterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := ctrl.SetCategoryFilter(c.UserContext(), in.Category); err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSessionView(ctrl.View()))
}

// Refresh godoc
// @Summary      Recargar primera página
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.SessionView
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/refresh [post]
func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if err := ctrl.Refresh(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSessionView(ctrl.View()))
}

// LoadMore godoc
// @Summary      Cargar más
// @Description  Agrega la página siguiente al cursor; una página vacía no cambia la lista.
// @Tags         sessions
// @Produce      json
// @Param        id  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.SessionView
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/more [post]
func (h *SessionHandler) LoadMore(c *fiber.Ctx) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if err := ctrl.LoadMore(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSessionView(ctrl.View()))
}

// AddItem godoc
// @Summary      Agregar una unidad
// @Description  Si el ítem existe suma 1 y reemplaza sus metadatos; si no, lo crea con cantidad 1.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de sesión"
// @Param        body  body  dto.AddItemRequest  true  "name, category, description, price, supplier"
// @Success      201  {object}  dto.MutationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/items [post]
func (h *SessionHandler) AddItem(c *fiber.Ctx) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	item, err := ctrl.AddItem(c.UserContext(), in.Name, in.Details())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MutationResponse{
		Item: dto.ToItemResponse(item),
		View: toSessionView(ctrl.View()),
	})
}

// UpdateItem godoc
// @Summary      Editar metadatos
// @Description  Mezcla category, description, price y supplier; la cantidad no cambia.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de sesión"
// @Param        name  path  string                 true  "Nombre del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "category, description, price, supplier"
// @Success      200  {object}  dto.SessionView
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/items/{name} [patch]
func (h *SessionHandler) UpdateItem(c *fiber.Ctx) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := ctrl.UpdateItemDetails(c.UserContext(), pathName(c), in.Details()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSessionView(ctrl.View()))
}

// RemoveItem godoc
// @Summary      Retirar una unidad
// @Description  Con cantidad 1 elimina el ítem; si no existe no hace nada.
// @Tags         sessions
// @Produce      json
// @Param        id    path  string  true  "ID de sesión"
// @Param        name  path  string  true  "Nombre del ítem"
// @Success      200  {object}  dto.MutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/items/{name} [delete]
func (h *SessionHandler) RemoveItem(c *fiber.Ctx) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	item, err := ctrl.RemoveItem(c.UserContext(), pathName(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MutationResponse{
		Item:    dto.ToItemResponse(item),
		Deleted: item == nil,
		View:    toSessionView(ctrl.View()),
	})
}

// Export godoc
// @Summary      Exportar inventario
// @Description  scope=visible (por defecto) exporta las páginas cargadas; scope=all recorre el almacén con el filtro actual.
// @Tags         sessions
// @Produce      text/csv
// @Produce      application/pdf
// @Produce      application/xml
// @Param        id      path   string  true   "ID de sesión"
// @Param        format  query  string  false  "csv (por defecto), pdf o xml"
// @Param        scope   query  string  false  "visible o all"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sessions/{id}/export [get]
func (h *SessionHandler) Export(c *fiber.Ctx) error {
	ctrl, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := ctrl.ExportVisible(c.UserContext(), c.Query("format"), c.Query("scope"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, out.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", out.FileName))
	return c.Send(out.Data)
}

// pathName nombre del ítem desde la ruta (puede venir escapado: espacios, acentos).
// Devuelve una copia: el nombre puede terminar como clave en el almacén.
func pathName(c *fiber.Ctx) string {
	raw := utils.CopyString(c.Params("name"))
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func toSessionView(v inventory.View) dto.SessionView {
	return dto.SessionView{
		SessionID: v.SessionID,
		State:     string(v.State),
		Category:  v.Category,
		Cursor:    v.Cursor,
		Search:    v.Search,
		Items:     dto.ToItemResponses(v.Items),
		Visible:   dto.ToItemResponses(v.Visible),
		LastError: v.LastError,
	}
}
