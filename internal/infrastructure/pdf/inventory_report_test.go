package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/pdf"
)

func TestExport_GeneraPDF(t *testing.T) {
	items := []*entity.Item{
		{Name: "apple", Quantity: 2, Category: "Food", Description: "Red", Price: "1.50", Supplier: "Farm"},
		{Name: "soap", Quantity: 1, Category: "Cleaning"},
	}
	g := pdf.NewReportGenerator("")
	data, err := g.Export(context.Background(), items)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "debe ser un documento PDF")
	assert.Equal(t, "inventory.pdf", g.FileName())
	assert.Equal(t, "application/pdf", g.ContentType())
}

func TestExport_ListaVacia(t *testing.T) {
	data, err := pdf.NewReportGenerator("Inventario").Export(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestTotals(t *testing.T) {
	tot := pdf.Totals([]*entity.Item{
		{Name: "apple", Quantity: 3, Price: "1.10"},
		{Name: "soap", Quantity: 2, Price: ""},
		{Name: "odd", Quantity: 1, Price: "n/a"},
		{Name: "milk", Quantity: 1, Price: " 0.90 "},
	})
	assert.Equal(t, int64(7), tot.Units)
	assert.True(t, decimal.RequireFromString("4.20").Equal(tot.Value), "valor = %s", tot.Value)
}
