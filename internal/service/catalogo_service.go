package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/desiigner97/farmaclinic-margenes/internal/catalogo"
	"github.com/desiigner97/farmaclinic-margenes/internal/dto"
	"github.com/desiigner97/farmaclinic-margenes/internal/model"
	"github.com/desiigner97/farmaclinic-margenes/internal/pricing"
	"github.com/desiigner97/farmaclinic-margenes/internal/repository"
)

// EntradaCosto is the transient, per-product operator input: the typed
// box cost plus logistics data. It lives only for the browsing session
// and is never persisted — committing a ledger line clears the
// logistics fields but keeps the cost.
type EntradaCosto struct {
	CostoCaja   *decimal.Decimal
	Cajas       *int
	Lote        string
	Vencimiento *time.Time
}

type CatalogoService interface {
	Importar(ctx context.Context, nombreArchivo string, data []byte) (*dto.ImportarCatalogoResponse, error)
	SeedDemo(ctx context.Context) error
	Listar(ctx context.Context, q, proveedor, linea string) ([]dto.ProductoCotizado, error)
	FijarCosto(ctx context.Context, productoID string, req dto.FijarCostoRequest) (*dto.ProductoCotizado, error)
	FijarOverrides(ctx context.Context, productoID string, req dto.FijarOverridesRequest) (*dto.ProductoCotizado, error)
	RestaurarOverrides(ctx context.Context, productoID string) (*dto.ProductoCotizado, error)

	// EstadoTrabajo exposes the transient state for one product so the
	// ledger can price a commit; both returns may be nil.
	EstadoTrabajo(productoID string) (*EntradaCosto, *pricing.Override)
	// ParametrosEfectivos resolves catalog fractions against the
	// product's session-local override.
	ParametrosEfectivos(p *model.Producto) pricing.Parametros
	// LimpiarLogistica drops cajas/lote/vencimiento for a product after
	// its line was committed, keeping the entered cost.
	LimpiarLogistica(productoID string)
}

type catalogoService struct {
	repo repository.ProductoRepository

	// Session-scoped mutable state: one aggregate, mutated only through
	// the methods below. The workflow assumes a single concurrent
	// editor; the mutex protects against racing HTTP handlers, not
	// multi-operator semantics.
	mu        sync.Mutex
	costos    map[string]*EntradaCosto
	overrides map[string]*pricing.Override
}

func NewCatalogoService(repo repository.ProductoRepository) CatalogoService {
	return &catalogoService{
		repo:      repo,
		costos:    make(map[string]*EntradaCosto),
		overrides: make(map[string]*pricing.Override),
	}
}

// ── Importar ──────────────────────────────────────────────────────────────────

func (s *catalogoService) Importar(ctx context.Context, nombreArchivo string, data []byte) (*dto.ImportarCatalogoResponse, error) {
	productos, err := catalogo.Parse(nombreArchivo, data)
	if err != nil {
		return nil, err
	}
	if len(productos) == 0 {
		return nil, errors.New("El archivo no contiene productos válidos")
	}
	if err := s.repo.ReplaceAll(ctx, productos); err != nil {
		return nil, fmt.Errorf("reemplazar catálogo: %w", err)
	}

	// A new catalog invalidates every transient input: the old product
	// ids may no longer exist.
	s.mu.Lock()
	s.costos = make(map[string]*EntradaCosto)
	s.overrides = make(map[string]*pricing.Override)
	s.mu.Unlock()

	log.Info().Str("archivo", nombreArchivo).Int("productos", len(productos)).Msg("catálogo reemplazado")
	return &dto.ImportarCatalogoResponse{Archivo: nombreArchivo, Importados: len(productos)}, nil
}

// SeedDemo loads the demo rows when the catalog is empty (development
// convenience; never overwrites an imported catalog).
func (s *catalogoService) SeedDemo(ctx context.Context) error {
	total, err := s.repo.Count(ctx)
	if err != nil || total > 0 {
		return err
	}
	return s.repo.ReplaceAll(ctx, catalogo.Demo())
}

// ── Listar ────────────────────────────────────────────────────────────────────

func (s *catalogoService) Listar(ctx context.Context, q, proveedor, linea string) ([]dto.ProductoCotizado, error) {
	productos, err := s.repo.List(ctx, q, proveedor, linea)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoCotizado, 0, len(productos))
	for i := range productos {
		resp = append(resp, s.cotizado(&productos[i]))
	}
	return resp, nil
}

// ── Transient inputs ──────────────────────────────────────────────────────────

func (s *catalogoService) FijarCosto(ctx context.Context, productoID string, req dto.FijarCostoRequest) (*dto.ProductoCotizado, error) {
	producto, err := s.repo.FindByID(ctx, productoID)
	if err != nil {
		return nil, errors.New("Producto no encontrado")
	}

	costo, ok := pricing.ParseNumeroLocale(req.CostoCaja)
	if !ok || !costo.IsPositive() {
		return nil, errors.New("Ingresa un costo por caja válido")
	}
	var vencimiento *time.Time
	if req.Vencimiento != "" {
		t, err := time.Parse("2006-01-02", req.Vencimiento)
		if err != nil {
			return nil, errors.New("Fecha de vencimiento inválida")
		}
		vencimiento = &t
	}
	if req.Cajas != nil && *req.Cajas < 0 {
		return nil, errors.New("La cantidad de cajas no puede ser negativa")
	}

	s.mu.Lock()
	s.costos[productoID] = &EntradaCosto{
		CostoCaja:   &costo,
		Cajas:       req.Cajas,
		Lote:        req.Lote,
		Vencimiento: vencimiento,
	}
	s.mu.Unlock()

	c := s.cotizado(producto)
	return &c, nil
}

func (s *catalogoService) FijarOverrides(ctx context.Context, productoID string, req dto.FijarOverridesRequest) (*dto.ProductoCotizado, error) {
	producto, err := s.repo.FindByID(ctx, productoID)
	if err != nil {
		return nil, errors.New("Producto no encontrado")
	}

	// Parse all three before touching state: an invalid field rejects
	// the whole request with no partial change.
	campos := map[string]*string{"desc1_pct": req.Desc1, "desc2_pct": req.Desc2, "incremento_pct": req.Incremento}
	parseados := make(map[string]*decimal.Decimal, 3)
	for nombre, raw := range campos {
		if raw == nil {
			continue
		}
		d, err := pricing.ParsePorcentaje(*raw)
		if err != nil {
			return nil, fmt.Errorf("%s: porcentaje inválido", nombre)
		}
		parseados[nombre] = d // nil means "clear this override"
	}

	s.mu.Lock()
	ov := s.overrides[productoID]
	if ov == nil {
		ov = &pricing.Override{}
	}
	if req.Desc1 != nil {
		ov.Desc1 = parseados["desc1_pct"]
	}
	if req.Desc2 != nil {
		ov.Desc2 = parseados["desc2_pct"]
	}
	if req.Incremento != nil {
		ov.Incremento = parseados["incremento_pct"]
	}
	if ov.Vacia() {
		delete(s.overrides, productoID)
	} else {
		s.overrides[productoID] = ov
	}
	s.mu.Unlock()

	c := s.cotizado(producto)
	return &c, nil
}

// RestaurarOverrides reverts a product to its catalog parameters. It
// does not touch already-committed ledger lines — those are snapshots.
func (s *catalogoService) RestaurarOverrides(ctx context.Context, productoID string) (*dto.ProductoCotizado, error) {
	producto, err := s.repo.FindByID(ctx, productoID)
	if err != nil {
		return nil, errors.New("Producto no encontrado")
	}
	s.mu.Lock()
	delete(s.overrides, productoID)
	s.mu.Unlock()

	c := s.cotizado(producto)
	return &c, nil
}

// ── Hooks for the ledger ──────────────────────────────────────────────────────

func (s *catalogoService) EstadoTrabajo(productoID string) (*EntradaCosto, *pricing.Override) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entrada *EntradaCosto
	if e, ok := s.costos[productoID]; ok {
		copia := *e
		entrada = &copia
	}
	var ov *pricing.Override
	if o, ok := s.overrides[productoID]; ok {
		copia := *o
		ov = &copia
	}
	return entrada, ov
}

func (s *catalogoService) ParametrosEfectivos(p *model.Producto) pricing.Parametros {
	s.mu.Lock()
	ov := s.overrides[p.ID]
	s.mu.Unlock()
	return pricing.ResolverParametros(p.Desc1Pct, p.Desc2Pct, p.IncrementoPct, ov)
}

func (s *catalogoService) LimpiarLogistica(productoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.costos[productoID]; ok {
		e.Cajas = nil
		e.Lote = ""
		e.Vencimiento = nil
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *catalogoService) cotizado(p *model.Producto) dto.ProductoCotizado {
	s.mu.Lock()
	entrada := s.costos[p.ID]
	ov := s.overrides[p.ID]
	s.mu.Unlock()

	params := pricing.ResolverParametros(p.Desc1Pct, p.Desc2Pct, p.IncrementoPct, ov)

	costoCaja := p.CostoCaja
	if entrada != nil && entrada.CostoCaja != nil {
		costoCaja = *entrada.CostoCaja
	}
	cot := pricing.Cotizar(costoCaja, p.UnidadesPorCaja, params)

	resp := dto.ProductoCotizado{
		ID:                p.ID,
		CodigoBarras:      p.CodigoBarras,
		CodRef:            p.CodRef,
		Nombre:            p.Nombre,
		Proveedor:         p.Proveedor,
		Linea:             p.Linea,
		UnidadesPorCaja:   p.UnidadesPorCaja,
		CasoEspecial:      p.CasoEspecial,
		CostoCaja:         costoCaja,
		Desc1Pct:          params.Desc1,
		Desc2Pct:          params.Desc2,
		IncrementoPct:     params.Incremento,
		ParametrosManual:  params.Manual,
		CostoNetoCaja:     cot.CostoNetoCaja,
		CostoNetoUnidad:   cot.CostoNetoUnidad,
		PrecioFinalCaja:   cot.PrecioFinalCaja,
		PrecioFinalUnidad: cot.PrecioFinalUnidad,
	}
	if entrada != nil {
		resp.Cajas = entrada.Cajas
		resp.Lote = entrada.Lote
		if entrada.Vencimiento != nil {
			resp.Vencimiento = entrada.Vencimiento.Format("2006-01-02")
		}
	}
	return resp
}
