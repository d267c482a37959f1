package dto

// PageRequest paginación por cursor para listados.
type PageRequest struct {
	Category string `query:"category"`
	Limit    int    `query:"limit"`
	Cursor   string `query:"cursor"`
}

// DefaultPage aplica el tamaño de página por defecto y el máximo.
func (p *PageRequest) DefaultPage(def, max int) {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit    int    `json:"limit"`
	Category string `json:"category"`
	Cursor   string `json:"cursor"` // clave del último ítem; pasar como cursor para la página siguiente
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
