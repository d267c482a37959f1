// Package docs registra la especificación OpenAPI de la API en swag.
// swagger.json se sirve en /docs con gofiber/contrib/swagger.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo metadatos de la API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Inventory Tracker API",
	Description:      "Inventario de ítems sobre un almacén de documentos: sesiones con filtro, paginación por cursor, búsqueda local y exportación.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
