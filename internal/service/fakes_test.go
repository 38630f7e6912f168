package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/desiigner97/farmaclinic-margenes/internal/model"
)

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	productos map[string]model.Producto
}

func newStubProductoRepo(productos ...model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[string]model.Producto)}
	for _, p := range productos {
		r.productos[p.ID] = p
	}
	return r
}

func (r *stubProductoRepo) ReplaceAll(_ context.Context, productos []model.Producto) error {
	r.productos = make(map[string]model.Producto, len(productos))
	for _, p := range productos {
		r.productos[p.ID] = p
	}
	return nil
}

func (r *stubProductoRepo) List(_ context.Context, _, _, _ string) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id string) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *stubProductoRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.productos)), nil
}

// ── In-memory HistorialRepository stub ───────────────────────────────────────

type stubHistorialRepo struct {
	mu     sync.Mutex
	lineas map[uuid.UUID]model.HistorialCalculo
	// deleteErr forces Delete to fail, for rollback paths.
	deleteErr error
}

func newStubHistorialRepo() *stubHistorialRepo {
	return &stubHistorialRepo{lineas: make(map[uuid.UUID]model.HistorialCalculo)}
}

func (r *stubHistorialRepo) Create(_ context.Context, h *model.HistorialCalculo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	r.lineas[h.ID] = *h
	return nil
}

func (r *stubHistorialRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.lineas, id)
	return nil
}

func (r *stubHistorialRepo) FindByID(_ context.Context, id uuid.UUID) (*model.HistorialCalculo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.lineas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &h, nil
}

func (r *stubHistorialRepo) ListBySesion(_ context.Context, sesionID uuid.UUID) ([]model.HistorialCalculo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.HistorialCalculo
	for _, h := range r.lineas {
		if h.SesionID == sesionID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubHistorialRepo) CountBySesion(_ context.Context, sesionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, h := range r.lineas {
		if h.SesionID == sesionID {
			total++
		}
	}
	return total, nil
}

func (r *stubHistorialRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.lineas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	h.Estado = estado
	r.lineas[id] = h
	return nil
}

// ── In-memory SesionRepository stub ──────────────────────────────────────────

type stubSesionRepo struct {
	mu       sync.Mutex
	sesiones map[uuid.UUID]model.SesionTrabajo
}

func newStubSesionRepo() *stubSesionRepo {
	return &stubSesionRepo{sesiones: make(map[uuid.UUID]model.SesionTrabajo)}
}

func (r *stubSesionRepo) Create(_ context.Context, s *model.SesionTrabajo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.Estado == "" {
		s.Estado = model.SesionEnProceso
	}
	r.sesiones[s.ID] = *s
	return nil
}

func (r *stubSesionRepo) Update(_ context.Context, s *model.SesionTrabajo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sesiones[s.ID] = *s
	return nil
}

func (r *stubSesionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SesionTrabajo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *stubSesionRepo) FindEnProcesoByUsuario(_ context.Context, usuario string) (*model.SesionTrabajo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var candidata *model.SesionTrabajo
	for _, s := range r.sesiones {
		if s.Usuario == usuario && s.Estado == model.SesionEnProceso {
			s := s
			if candidata == nil || s.CreatedAt.After(candidata.CreatedAt) {
				candidata = &s
			}
		}
	}
	if candidata == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return candidata, nil
}

func (r *stubSesionRepo) ListByEstado(_ context.Context, estado string) ([]model.SesionTrabajo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SesionTrabajo
	for _, s := range r.sesiones {
		if estado == "" || s.Estado == estado {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubSesionRepo) AjustarTotal(_ context.Context, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sesiones[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.TotalRegistros += delta
	r.sesiones[id] = s
	return nil
}

// ── In-memory PrecioSistemaRepository stub ───────────────────────────────────

type stubPrecioRepo struct {
	mu      sync.Mutex
	precios map[string]model.PrecioSistema // keyed by whichever code
}

func newStubPrecioRepo() *stubPrecioRepo {
	return &stubPrecioRepo{precios: make(map[string]model.PrecioSistema)}
}

func (r *stubPrecioRepo) seed(codigo string, precioCaja decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := codigo
	r.precios[codigo] = model.PrecioSistema{ID: uuid.New(), CodigoBarras: &c, PrecioCaja: precioCaja}
}

func (r *stubPrecioRepo) FindByCodigo(_ context.Context, codigoBarras, codRef string) (*model.PrecioSistema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if codigoBarras != "" {
		if p, ok := r.precios[codigoBarras]; ok {
			return &p, nil
		}
	}
	if codRef != "" {
		if p, ok := r.precios[codRef]; ok {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPrecioRepo) Upsert(_ context.Context, codigoBarras, codRef string, precioCaja decimal.Decimal, actualizadoPor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clave := codigoBarras
	if clave == "" {
		clave = codRef
	}
	if codigoBarras != "" {
		if p, ok := r.precios[codigoBarras]; ok {
			p.PrecioCaja = precioCaja
			p.ActualizadoPor = actualizadoPor
			r.precios[codigoBarras] = p
			return nil
		}
	}
	if codRef != "" {
		if p, ok := r.precios[codRef]; ok {
			p.PrecioCaja = precioCaja
			p.ActualizadoPor = actualizadoPor
			r.precios[codRef] = p
			return nil
		}
	}
	p := model.PrecioSistema{ID: uuid.New(), PrecioCaja: precioCaja, ActualizadoPor: actualizadoPor}
	if codigoBarras != "" {
		c := codigoBarras
		p.CodigoBarras = &c
	}
	if codRef != "" {
		c := codRef
		p.CodRef = &c
	}
	r.precios[clave] = p
	return nil
}

// ── In-memory DecisionRepository stub ────────────────────────────────────────

type stubDecisionRepo struct {
	mu         sync.Mutex
	decisiones map[uuid.UUID]model.DecisionComparacion // keyed by historial id
}

func newStubDecisionRepo() *stubDecisionRepo {
	return &stubDecisionRepo{decisiones: make(map[uuid.UUID]model.DecisionComparacion)}
}

func (r *stubDecisionRepo) Upsert(_ context.Context, d *model.DecisionComparacion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if previa, ok := r.decisiones[d.HistorialID]; ok {
		d.ID = previa.ID
	} else if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.decisiones[d.HistorialID] = *d
	return nil
}

func (r *stubDecisionRepo) ListBySesion(_ context.Context, sesionID uuid.UUID) ([]model.DecisionComparacion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DecisionComparacion
	for _, d := range r.decisiones {
		if d.SesionID == sesionID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubDecisionRepo) CountBySesion(_ context.Context, sesionID uuid.UUID) (int64, error) {
	list, _ := r.ListBySesion(context.Background(), sesionID)
	return int64(len(list)), nil
}

// ── Manual Programador ───────────────────────────────────────────────────────

// programadorManual captures scheduled callbacks so tests fire or cancel
// the undo timer deterministically.
type programadorManual struct {
	mu        sync.Mutex
	pendiente func()
	cancelado bool
}

func (p *programadorManual) Programar(_ time.Duration, fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pendiente = fn
	p.cancelado = false
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.cancelado = true
		p.pendiente = nil
	}
}

// disparar runs the last scheduled callback, as if the window expired.
func (p *programadorManual) disparar() {
	p.mu.Lock()
	fn := p.pendiente
	p.pendiente = nil
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// ── Invalidador stub ─────────────────────────────────────────────────────────

type stubInvalidador struct {
	mu      sync.Mutex
	codigos []string
}

func (s *stubInvalidador) Invalidar(_ context.Context, codigos ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codigos = append(s.codigos, codigos...)
}
