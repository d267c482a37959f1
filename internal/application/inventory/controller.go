package inventory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// State estado de adquisición de la lista mostrada.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// Alcance de la exportación.
const (
	ScopeVisible = "visible" // solo páginas ya cargadas
	ScopeAll     = "all"     // recorre el almacén con el filtro actual
)

// View instantánea del estado de una sesión.
type View struct {
	SessionID string
	State     State
	Category  string
	Cursor    string
	Search    string
	Items     []*entity.Item // lista cargada
	Visible   []*entity.Item // Items filtrados por Search
	LastError string
}

// Controller mantiene la lista mostrada de una sesión: filtro, cursor, búsqueda local y estado.
// mu protege el estado; fetchMu serializa las consultas al almacén para que dos "cargar más"
// seguidos no dupliquen ni salten páginas; opMu serializa las mutaciones junto con su recarga.
// Cada consulta lleva una generación y un cambio de filtro invalida los resultados de
// consultas anteriores aún en vuelo.
type Controller struct {
	id        string
	uc        *ItemUseCase
	exporters map[string]Exporter
	log       *logger.Logger
	now       func() time.Time

	opMu    sync.Mutex
	fetchMu sync.Mutex

	mu         sync.Mutex
	state      State
	category   string
	cursor     string
	items      []*entity.Item
	search     string
	lastErr    error
	generation uint64
	pending    int // recargas (modo reemplazo) en curso
	lastUsed   time.Time
}

// NewController construye un controlador en estado idle (sin datos cargados).
func NewController(id string, uc *ItemUseCase, exporters []Exporter, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	c := &Controller{
		id:        id,
		uc:        uc,
		exporters: make(map[string]Exporter, len(exporters)),
		log:       log.WithStr("session", id),
		now:       time.Now,
		state:     StateIdle,
	}
	for _, e := range exporters {
		c.exporters[e.Format()] = e
	}
	c.lastUsed = c.now()
	return c
}

// ID identificador de la sesión.
func (c *Controller) ID() string { return c.id }

// LastUsed momento del último acceso.
func (c *Controller) LastUsed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

func (c *Controller) touch() {
	c.mu.Lock()
	c.lastUsed = c.now()
	c.mu.Unlock()
}

// View devuelve una copia del estado actual.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = c.now()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	v := View{
		SessionID: c.id,
		State:     c.state,
		Category:  c.category,
		Cursor:    c.cursor,
		Search:    c.search,
		Items:     cloneItems(c.items),
		Visible:   filterByName(c.items, c.search),
	}
	if c.lastErr != nil {
		v.LastError = c.lastErr.Error()
	}
	return v
}

// AddItem agrega una unidad (sobrescribiendo metadatos) y recarga la primera página.
func (c *Controller) AddItem(ctx context.Context, name string, d entity.Details) (*entity.Item, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.touch()
	item, err := c.uc.AddItem(ctx, name, d)
	if err != nil {
		return nil, c.fail(err)
	}
	return item, c.Refresh(ctx)
}

// UpdateItemDetails mezcla los metadatos y recarga.
func (c *Controller) UpdateItemDetails(ctx context.Context, name string, d entity.Details) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.touch()
	if err := c.uc.UpdateItemDetails(ctx, name, d); err != nil {
		return c.fail(err)
	}
	return c.Refresh(ctx)
}

// RemoveItem retira una unidad y recarga. Devuelve nil si el ítem ya no existe.
func (c *Controller) RemoveItem(ctx context.Context, name string) (*entity.Item, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.touch()
	item, err := c.uc.RemoveItem(ctx, name)
	if err != nil {
		return nil, c.fail(err)
	}
	return item, c.Refresh(ctx)
}

// SetCategoryFilter cambia el filtro; reinicia el cursor y reemplaza la lista.
func (c *Controller) SetCategoryFilter(ctx context.Context, category string) error {
	if !entity.ValidCategory(category) {
		return fmt.Errorf("categoría %q: %w", category, domain.ErrInvalidInput)
	}
	c.mu.Lock()
	c.category = category
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh consulta la primera página del filtro actual y reemplaza la lista mostrada.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetch(ctx, false)
}

// LoadMore agrega la página siguiente al cursor. Una página vacía no cambia nada.
func (c *Controller) LoadMore(ctx context.Context) error {
	return c.fetch(ctx, true)
}

func (c *Controller) fetch(ctx context.Context, appendMode bool) error {
	c.mu.Lock()
	if !appendMode {
		c.generation++
		c.pending++
		defer func() {
			c.mu.Lock()
			c.pending--
			c.mu.Unlock()
		}()
	}
	gen := c.generation
	c.lastUsed = c.now()
	c.mu.Unlock()

	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	c.mu.Lock()
	// una recarga posterior reemplaza la lista: esta consulta ya no aplica
	if gen != c.generation || (appendMode && c.pending > 0) {
		c.mu.Unlock()
		return nil
	}
	category := c.category
	cursor := ""
	if appendMode {
		cursor = c.cursor
	}
	c.state = StateLoading
	c.mu.Unlock()

	page, err := c.uc.QueryPage(ctx, category, c.uc.PageSize(), cursor)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	if err != nil {
		c.state = StateError
		c.lastErr = err
		c.log.Warn().Err(err).Bool("append", appendMode).Msg("consulta de inventario fallida")
		return err
	}
	c.state = StateLoaded
	c.lastErr = nil
	if appendMode {
		if len(page.Items) == 0 {
			return nil
		}
		c.items = append(c.items, page.Items...)
	} else {
		c.items = page.Items
	}
	c.cursor = page.Cursor
	return nil
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.state = StateError
	c.lastErr = err
	c.mu.Unlock()
	c.log.Warn().Err(err).Msg("operación de inventario fallida")
	return err
}

// LocalSearch guarda el texto de búsqueda y devuelve los ítems cargados cuyo nombre lo contiene
// (sin distinguir mayúsculas). No consulta el almacén.
func (c *Controller) LocalSearch(query string) []*entity.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = query
	c.lastUsed = c.now()
	return filterByName(c.items, query)
}

// ExportVisible serializa la lista cargada (ScopeVisible) o todo el inventario del filtro actual (ScopeAll).
// La búsqueda local no se aplica a la exportación.
func (c *Controller) ExportVisible(ctx context.Context, format, scope string) (*Export, error) {
	if format == "" {
		format = "csv"
	}
	exp, ok := c.exporters[format]
	if !ok {
		return nil, fmt.Errorf("formato %q: %w", format, domain.ErrInvalidInput)
	}

	var items []*entity.Item
	switch scope {
	case "", ScopeVisible:
		c.mu.Lock()
		items = cloneItems(c.items)
		c.lastUsed = c.now()
		c.mu.Unlock()
	case ScopeAll:
		c.mu.Lock()
		category := c.category
		c.mu.Unlock()
		var err error
		if items, err = c.uc.ListAll(ctx, category); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("alcance %q: %w", scope, domain.ErrInvalidInput)
	}

	data, err := exp.Export(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("exportar %s: %w", format, err)
	}
	c.log.Debug().Str("format", format).Int("count", len(items)).Msg("inventario exportado")
	return &Export{
		FileName:    exp.FileName(),
		ContentType: exp.ContentType(),
		Data:        data,
		Count:       len(items),
	}, nil
}

func filterByName(items []*entity.Item, query string) []*entity.Item {
	q := strings.ToLower(query)
	out := make([]*entity.Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it.Clone())
		}
	}
	return out
}

func cloneItems(items []*entity.Item) []*entity.Item {
	out := make([]*entity.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
