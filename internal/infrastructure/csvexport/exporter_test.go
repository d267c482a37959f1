package csvexport_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/csvexport"
)

func TestExport_CabeceraYFilas(t *testing.T) {
	items := []*entity.Item{
		{Name: "apple", Quantity: 2, Category: "Food", Description: `say "hi", ok`, Price: "1.50", Supplier: "Farm"},
		{Name: "soap", Quantity: 1, Category: "Cleaning"},
	}
	data, err := csvexport.New().Export(context.Background(), items)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "1 cabecera + 2 filas")
	assert.Equal(t, entity.ExportFields, rows[0])
	assert.Equal(t, []string{"apple", "2", "Food", `say "hi", ok`, "1.50", "Farm"}, rows[1])
	assert.Equal(t, []string{"soap", "1", "Cleaning", "", "", ""}, rows[2])

	assert.Contains(t, string(data), `"say ""hi"", ok"`, "comillas según RFC 4180")
}

func TestExport_ListaVaciaSoloCabecera(t *testing.T) {
	data, err := csvexport.New().Export(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "name,quantity,category,description,price,supplier\n", string(data))
}

func TestExporter_Metadatos(t *testing.T) {
	e := csvexport.New()
	assert.Equal(t, "csv", e.Format())
	assert.Equal(t, "inventory.csv", e.FileName())
	assert.Contains(t, e.ContentType(), "text/csv")
}
