package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

// SessionConfig límites del registro de sesiones.
type SessionConfig struct {
	TTL         time.Duration // inactividad máxima; 0 = sin expiración
	MaxSessions int
}

// Sessions registro de controladores por id (una sesión por vista de usuario).
type Sessions struct {
	uc        *ItemUseCase
	exporters []Exporter
	cfg       SessionConfig
	log       *logger.Logger
	now       func() time.Time

	mu   sync.Mutex
	byID map[string]*Controller
}

// NewSessions construye el registro.
func NewSessions(uc *ItemUseCase, exporters []Exporter, cfg SessionConfig, log *logger.Logger) *Sessions {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Sessions{
		uc:        uc,
		exporters: exporters,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		byID:      make(map[string]*Controller),
	}
}

// Create abre una sesión y carga la primera página (sin filtro).
// Si la carga inicial falla la sesión no se registra.
func (s *Sessions) Create(ctx context.Context) (*Controller, error) {
	s.Sweep()

	s.mu.Lock()
	full := len(s.byID) >= s.cfg.MaxSessions
	s.mu.Unlock()
	if full {
		return nil, s.errFull()
	}

	c := NewController(uuid.New().String(), s.uc, s.exporters, s.log)
	c.now = s.now
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}

	// otras altas pudieron registrarse mientras se cargaba la primera página
	s.mu.Lock()
	if len(s.byID) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return nil, s.errFull()
	}
	s.byID[c.ID()] = c
	s.mu.Unlock()
	s.log.Debug().Str("session", c.ID()).Msg("sesión creada")
	return c, nil
}

func (s *Sessions) errFull() error {
	return fmt.Errorf("límite de %d sesiones: %w", s.cfg.MaxSessions, domain.ErrUnavailable)
}

// Get devuelve la sesión; ErrNotFound si no existe o expiró.
func (s *Sessions) Get(id string) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("sesión %s: %w", id, domain.ErrNotFound)
	}
	if s.expired(c) {
		delete(s.byID, id)
		return nil, fmt.Errorf("sesión %s expirada: %w", id, domain.ErrNotFound)
	}
	c.touch()
	return c, nil
}

// Close elimina la sesión. Devuelve false si no existía.
func (s *Sessions) Close(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	return true
}

// Len número de sesiones registradas.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Sweep elimina las sesiones inactivas y devuelve cuántas quitó.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, c := range s.byID {
		if s.expired(c) {
			delete(s.byID, id)
			n++
		}
	}
	if n > 0 {
		s.log.Debug().Int("expired", n).Msg("sesiones expiradas")
	}
	return n
}

func (s *Sessions) expired(c *Controller) bool {
	return s.cfg.TTL > 0 && s.now().Sub(c.LastUsed()) > s.cfg.TTL
}

// Run barre sesiones expiradas cada interval hasta que ctx termine.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
