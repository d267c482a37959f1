package xmlexport

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

func TestExport_Documento(t *testing.T) {
	e := New()
	e.now = func() time.Time { return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC) }

	items := []*entity.Item{
		{Name: "apple & pear", Quantity: 2, Category: "Food", Price: "1.50"},
		{Name: "soap", Quantity: 1},
	}
	data, err := e.Export(context.Background(), items)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))

	root := doc.SelectElement("inventory")
	require.NotNil(t, root)
	assert.Equal(t, "2", root.SelectAttrValue("count", ""))
	assert.Equal(t, "2026-01-02T15:04:05Z", root.SelectAttrValue("exported", ""))

	els := root.SelectElements("item")
	require.Len(t, els, 2)
	assert.Equal(t, "apple & pear", els[0].SelectAttrValue("name", ""))
	assert.Equal(t, "2", els[0].SelectElement("quantity").Text())
	assert.Equal(t, "Food", els[0].SelectElement("category").Text())
	assert.Equal(t, "1.50", els[0].SelectElement("price").Text())
	assert.Nil(t, els[0].SelectElement("supplier"), "los campos vacíos se omiten")

	assert.Equal(t, "1", els[1].SelectElement("quantity").Text())
	assert.Nil(t, els[1].SelectElement("category"))
}
