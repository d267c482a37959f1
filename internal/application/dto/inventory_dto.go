package dto

import "github.com/jhoicas/inventory-tracker/internal/domain/entity"

// AddItemRequest body para POST /api/sessions/:id/items.
type AddItemRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Supplier    string `json:"supplier"`
}

// Details metadatos del request.
func (r AddItemRequest) Details() entity.Details {
	return entity.Details{Category: r.Category, Description: r.Description, Price: r.Price, Supplier: r.Supplier}
}

// UpdateItemRequest body para PATCH /api/sessions/:id/items/:name (el nombre va en la ruta).
type UpdateItemRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Supplier    string `json:"supplier"`
}

// Details metadatos del request.
func (r UpdateItemRequest) Details() entity.Details {
	return entity.Details{Category: r.Category, Description: r.Description, Price: r.Price, Supplier: r.Supplier}
}

// SetFilterRequest body para PUT /api/sessions/:id/filter. Category vacío = todas.
type SetFilterRequest struct {
	Category string `json:"category"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	Name        string `json:"name"`
	Quantity    int64  `json:"quantity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Supplier    string `json:"supplier"`
}

// ItemListResponse página de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// MutationResponse resultado de agregar/retirar: el ítem tras la operación (nil si se eliminó) y la vista recargada.
type MutationResponse struct {
	Item    *ItemResponse `json:"item"`
	Deleted bool          `json:"deleted,omitempty"`
	View    SessionView   `json:"view"`
}

// SessionView estado de una sesión de inventario.
type SessionView struct {
	SessionID string         `json:"session_id"`
	State     string         `json:"state"`
	Category  string         `json:"category"`
	Cursor    string         `json:"cursor"`
	Search    string         `json:"search"`
	Items     []ItemResponse `json:"items"`   // lista cargada
	Visible   []ItemResponse `json:"visible"` // lista con la búsqueda local aplicada
	LastError string         `json:"last_error,omitempty"`
}

// ToItemResponse convierte la entidad.
func ToItemResponse(it *entity.Item) *ItemResponse {
	if it == nil {
		return nil
	}
	return &ItemResponse{
		Name:        it.Name,
		Quantity:    it.Quantity,
		Category:    it.Category,
		Description: it.Description,
		Price:       it.Price,
		Supplier:    it.Supplier,
	}
}

// ToItemResponses convierte una lista (nunca devuelve nil para serializar []).
func ToItemResponses(items []*entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *ToItemResponse(it))
	}
	return out
}
