// Package xmlexport serializa el inventario a XML con etree.
//
//	<inventory exported="2026-01-02T15:04:05Z" count="2">
//	  <item name="apple">
//	    <quantity>2</quantity>
//	    <category>Food</category>
//	    ...
//	  </item>
//	</inventory>
package xmlexport

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
)

var _ inventory.Exporter = (*Exporter)(nil)

// Exporter implementa inventory.Exporter para XML.
type Exporter struct {
	now func() time.Time
}

// New construye el exportador.
func New() *Exporter { return &Exporter{now: time.Now} }

func (e *Exporter) Format() string      { return "xml" }
func (e *Exporter) ContentType() string { return "application/xml; charset=utf-8" }
func (e *Exporter) FileName() string    { return "inventory.xml" }

// Export construye el documento; los campos vacíos se omiten.
func (e *Exporter) Export(_ context.Context, items []*entity.Item) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("inventory")
	root.CreateAttr("exported", e.now().UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(items)))

	for _, it := range items {
		el := root.CreateElement("item")
		el.CreateAttr(entity.FieldName, it.Name)
		el.CreateElement(entity.FieldQuantity).SetText(strconv.FormatInt(it.Quantity, 10))
		addText(el, entity.FieldCategory, it.Category)
		addText(el, entity.FieldDescription, it.Description)
		addText(el, entity.FieldPrice, it.Price)
		addText(el, entity.FieldSupplier, it.Supplier)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: %w", err)
	}
	return out, nil
}

func addText(parent *etree.Element, tag, value string) {
	if value == "" {
		return
	}
	parent.CreateElement(tag).SetText(value)
}
