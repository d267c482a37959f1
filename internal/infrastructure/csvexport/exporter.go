// Package csvexport serializa el inventario a CSV (cabecera + una fila por ítem, comillas RFC 4180).
package csvexport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

var _ inventory.Exporter = (*Exporter)(nil)

// Exporter implementa inventory.Exporter para CSV.
type Exporter struct {
	comma rune
}

// New construye el exportador con coma como separador.
func New() *Exporter { return &Exporter{comma: ','} }

func (e *Exporter) Format() string      { return "csv" }
func (e *Exporter) ContentType() string { return "text/csv; charset=utf-8" }
func (e *Exporter) FileName() string    { return "inventory.csv" }

// Export escribe la cabecera con los nombres de campo y una fila por ítem.
func (e *Exporter) Export(_ context.Context, items []*entity.Item) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = e.comma

	if err := w.Write(entity.ExportFields); err != nil {
		return nil, fmt.Errorf("csv cabecera: %w", err)
	}
	for _, it := range items {
		rec := []string{
			it.Name,
			strconv.FormatInt(it.Quantity, 10),
			it.Category,
			it.Description,
			it.Price,
			it.Supplier,
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("csv fila %q: %w", it.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}
