package inventory

import (
	"context"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

// Exporter serializa una lista de ítems a un archivo descargable.
// Lo implementan los adaptadores csvexport, pdf y xmlexport.
type Exporter interface {
	Format() string // csv, pdf, xml
	ContentType() string
	FileName() string
	Export(ctx context.Context, items []*entity.Item) ([]byte, error)
}

// Export resultado listo para enviar como adjunto.
type Export struct {
	FileName    string
	ContentType string
	Data        []byte
	Count       int
}
