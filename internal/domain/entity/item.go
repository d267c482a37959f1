package entity

import (
	"regexp"
	"strings"
)

// Nombres de campo del documento de inventario (iguales en Firestore, columnas SQL y exportaciones).
const (
	FieldName        = "name"
	FieldQuantity    = "quantity"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldSupplier    = "supplier"
)

// ExportFields orden canónico de columnas al exportar.
var ExportFields = []string{FieldName, FieldQuantity, FieldCategory, FieldDescription, FieldPrice, FieldSupplier}

// Item representa un documento del inventario. Name es la clave del documento.
// Quantity solo cambia vía alta/baja; al llegar a cero el documento se elimina.
type Item struct {
	Name        string `json:"name" firestore:"-"`
	Quantity    int64  `json:"quantity" firestore:"quantity"`
	Category    string `json:"category" firestore:"category"`
	Description string `json:"description" firestore:"description"`
	Price       string `json:"price" firestore:"price"` // texto numérico, se guarda tal cual
	Supplier    string `json:"supplier" firestore:"supplier"`
}

// Clone devuelve una copia independiente.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// Details metadatos editables de un ítem (todo menos nombre y cantidad).
type Details struct {
	Category    string
	Description string
	Price       string
	Supplier    string
}

// Fields devuelve los metadatos como mapa para una escritura merge.
func (d Details) Fields() Fields {
	return Fields{
		FieldCategory:    d.Category,
		FieldDescription: d.Description,
		FieldPrice:       d.Price,
		FieldSupplier:    d.Supplier,
	}
}

// Fields subconjunto de campos de un documento para escrituras merge.
// Los valores son string salvo FieldQuantity (int64).
type Fields map[string]interface{}

// Apply copia en item los campos conocidos presentes en f.
func (f Fields) Apply(item *Item) {
	for k, v := range f {
		switch k {
		case FieldQuantity:
			if q, ok := v.(int64); ok {
				item.Quantity = q
			}
		case FieldCategory:
			item.Category, _ = v.(string)
		case FieldDescription:
			item.Description, _ = v.(string)
		case FieldPrice:
			item.Price, _ = v.(string)
		case FieldSupplier:
			item.Supplier, _ = v.(string)
		}
	}
}

// PageQuery consulta paginada por cursor.
// Category vacío = todas; After vacío = desde el inicio.
type PageQuery struct {
	Category string
	Limit    int
	After    string
}

// Category valores permitidos por la interfaz de usuario.
const (
	CategoryFood     = "Food"
	CategoryBeverage = "Beverage"
	CategoryCleaning = "Cleaning"
	CategoryOther    = "Other"
)

// Categories lista ordenada de categorías válidas.
var Categories = []string{CategoryFood, CategoryBeverage, CategoryCleaning, CategoryOther}

// ValidCategory acepta vacío (sin seleccionar) o una de las categorías conocidas.
func ValidCategory(c string) bool {
	if c == "" {
		return true
	}
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

const maxNameBytes = 1500

var reservedName = regexp.MustCompile(`^__.*__$`)

// ValidName aplica las reglas de id de documento de Firestore a todos los backends.
func ValidName(name string) bool {
	if strings.TrimSpace(name) == "" || len(name) > maxNameBytes {
		return false
	}
	if strings.Contains(name, "/") || name == "." || name == ".." {
		return false
	}
	return !reservedName.MatchString(name)
}
