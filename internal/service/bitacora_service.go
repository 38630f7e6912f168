package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/desiigner97/farmaclinic-margenes/internal/dto"
	"github.com/desiigner97/farmaclinic-margenes/internal/model"
	"github.com/desiigner97/farmaclinic-margenes/internal/pricing"
	"github.com/desiigner97/farmaclinic-margenes/internal/repository"
)

var (
	ErrLineaNoEncontrada   = errors.New("Registro no encontrado en la bitácora")
	ErrSinEliminacion      = errors.New("No hay ninguna eliminación pendiente de deshacer")
	ErrReordenFueraDeRango = errors.New("Posición de reordenamiento fuera de rango")
)

// BitacoraService manages the active session's ledger: committing
// priced lines, reordering the local view, and the delete flow with its
// undo window. Deletes are two-phase: the line leaves the local view
// immediately but the row is only removed from the store after the undo
// window expires (or on explicit confirmation).
type BitacoraService interface {
	Registrar(ctx context.Context, usuario string, req dto.RegistrarLineaRequest) (*dto.BitacoraResponse, error)
	Lineas(ctx context.Context, usuario string) (*dto.BitacoraResponse, error)
	Reordenar(ctx context.Context, usuario string, desde, hasta int) (*dto.BitacoraResponse, error)
	Eliminar(ctx context.Context, usuario string, lineaID uuid.UUID) (*dto.BitacoraResponse, error)
	Deshacer(ctx context.Context, usuario string) (*dto.BitacoraResponse, error)
	EliminarAhora(ctx context.Context, usuario string) (*dto.BitacoraResponse, error)
}

type eliminacionPendiente struct {
	linea          model.HistorialCalculo
	indiceOriginal int
	// antes is the local order at the moment of the delete, kept so a
	// failed store delete can roll the view back exactly.
	antes        []model.HistorialCalculo
	comprometida bool
	restaurada   bool
	cancelar     func()
}

type estadoBitacora struct {
	sesionID  uuid.UUID
	lineas    []model.HistorialCalculo
	pendiente *eliminacionPendiente
}

type bitacoraService struct {
	historialRepo repository.HistorialRepository
	productoRepo  repository.ProductoRepository
	sesiones      SesionService
	catalogo      CatalogoService
	programador   Programador
	ventanaUndo   time.Duration

	mu      sync.Mutex
	estados map[string]*estadoBitacora // keyed by usuario
}

func NewBitacoraService(
	historialRepo repository.HistorialRepository,
	productoRepo repository.ProductoRepository,
	sesiones SesionService,
	catalogo CatalogoService,
	programador Programador,
	ventanaUndo time.Duration,
) BitacoraService {
	return &bitacoraService{
		historialRepo: historialRepo,
		productoRepo:  productoRepo,
		sesiones:      sesiones,
		catalogo:      catalogo,
		programador:   programador,
		ventanaUndo:   ventanaUndo,
		estados:       make(map[string]*estadoBitacora),
	}
}

// estadoDe loads (or refreshes) the operator's local ledger from the
// active session. Caller must NOT hold s.mu.
func (s *bitacoraService) estadoDe(ctx context.Context, usuario string) (*estadoBitacora, error) {
	sesion, lineas, err := s.sesiones.ResumirOCrear(ctx, usuario)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	estado, ok := s.estados[usuario]
	if !ok || estado.sesionID != sesion.ID {
		estado = &estadoBitacora{sesionID: sesion.ID, lineas: lineas}
		s.estados[usuario] = estado
	}
	return estado, nil
}

// ── Registrar ─────────────────────────────────────────────────────────────────

func (s *bitacoraService) Registrar(ctx context.Context, usuario string, req dto.RegistrarLineaRequest) (*dto.BitacoraResponse, error) {
	estado, err := s.estadoDe(ctx, usuario)
	if err != nil {
		return nil, err
	}

	producto, err := s.productoRepo.FindByID(ctx, req.ProductoID)
	if err != nil {
		return nil, errors.New("Producto no encontrado")
	}

	entrada, _ := s.catalogo.EstadoTrabajo(producto.ID)
	params := s.catalogo.ParametrosEfectivos(producto)

	// Cost priority: explicit request value, then the transient entry,
	// then the catalog cost.
	costoCaja := producto.CostoCaja
	if entrada != nil && entrada.CostoCaja != nil {
		costoCaja = *entrada.CostoCaja
	}
	if req.CostoCaja != "" {
		c, ok := pricing.ParseNumeroLocale(req.CostoCaja)
		if !ok || !c.IsPositive() {
			return nil, errors.New("Ingresa un costo por caja válido")
		}
		costoCaja = c
	}
	if !costoCaja.IsPositive() {
		return nil, errors.New("Ingresa el costo por caja antes de registrar")
	}

	cajas := 0
	if req.Cajas != nil {
		cajas = *req.Cajas
	} else if entrada != nil && entrada.Cajas != nil {
		cajas = *entrada.Cajas
	}
	lote := req.Lote
	if lote == "" && entrada != nil {
		lote = entrada.Lote
	}
	var vencimiento *time.Time
	if req.Vencimiento != "" {
		t, err := time.Parse("2006-01-02", req.Vencimiento)
		if err != nil {
			return nil, errors.New("Fecha de vencimiento inválida")
		}
		vencimiento = &t
	} else if entrada != nil {
		vencimiento = entrada.Vencimiento
	}

	cot := pricing.Cotizar(costoCaja, producto.UnidadesPorCaja, params)

	linea := model.HistorialCalculo{
		SesionID:          estado.sesionID,
		ProductoID:        producto.ID,
		Producto:          producto.Nombre,
		Proveedor:         producto.Proveedor,
		Linea:             producto.Linea,
		UnidadesPorCaja:   producto.UnidadesPorCaja,
		CostoCaja:         costoCaja,
		Desc1Pct:          params.Desc1,
		Desc2Pct:          params.Desc2,
		IncrementoPct:     params.Incremento,
		CostoNetoCaja:     cot.CostoNetoCaja,
		CostoNetoUnidad:   cot.CostoNetoUnidad,
		PrecioFinalCaja:   cot.PrecioFinalCaja,
		PrecioFinalUnidad: cot.PrecioFinalUnidad,
		Cajas:             cajas,
		Unidades:          cajas * producto.UnidadesPorCaja,
		Lote:              lote,
		Vencimiento:       vencimiento,
		ParametrosManual:  params.Manual,
		CasoEspecial:      producto.CasoEspecial,
		Estado:            model.LineaPendienteRevision,
		Usuario:           usuario,
	}
	if producto.CodigoBarras != nil {
		linea.CodigoBarras = *producto.CodigoBarras
	}
	if producto.CodRef != nil {
		linea.CodRef = *producto.CodRef
	}

	if err := s.historialRepo.Create(ctx, &linea); err != nil {
		return nil, err
	}
	if err := s.sesiones.AjustarTotal(ctx, estado.sesionID, 1); err != nil {
		log.Warn().Err(err).Str("sesion_id", estado.sesionID.String()).Msg("no se pudo ajustar el total de la sesión")
	}

	// Committing consumes the logistics entry; the cost stays so the
	// same product can be registered again without retyping it.
	s.catalogo.LimpiarLogistica(producto.ID)

	s.mu.Lock()
	estado.lineas = append(estado.lineas, linea)
	resp := s.respuesta(estado)
	s.mu.Unlock()
	return resp, nil
}

// ── Lectura y reorden ─────────────────────────────────────────────────────────

func (s *bitacoraService) Lineas(ctx context.Context, usuario string) (*dto.BitacoraResponse, error) {
	estado, err := s.estadoDe(ctx, usuario)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	resp := s.respuesta(estado)
	s.mu.Unlock()
	return resp, nil
}

// Reordenar moves a line within the local view only; persisted order is
// by created_at and review/export re-read the store.
func (s *bitacoraService) Reordenar(ctx context.Context, usuario string, desde, hasta int) (*dto.BitacoraResponse, error) {
	estado, err := s.estadoDe(ctx, usuario)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(estado.lineas)
	if desde < 0 || desde >= n || hasta < 0 || hasta >= n {
		return nil, ErrReordenFueraDeRango
	}
	if desde != hasta {
		linea := estado.lineas[desde]
		estado.lineas = append(estado.lineas[:desde], estado.lineas[desde+1:]...)
		resto := append([]model.HistorialCalculo{}, estado.lineas[hasta:]...)
		estado.lineas = append(append(estado.lineas[:hasta], linea), resto...)
	}
	return s.respuesta(estado), nil
}

// ── Eliminación en dos fases ──────────────────────────────────────────────────

func (s *bitacoraService) Eliminar(ctx context.Context, usuario string, lineaID uuid.UUID) (*dto.BitacoraResponse, error) {
	estado, err := s.estadoDe(ctx, usuario)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// Only one delete can be in flight; a new one force-commits the
	// previous so its undo window closes immediately.
	if p := estado.pendiente; p != nil {
		s.mu.Unlock()
		s.comprometer(ctx, usuario, p)
		s.mu.Lock()
	}

	indice := -1
	for i := range estado.lineas {
		if estado.lineas[i].ID == lineaID {
			indice = i
			break
		}
	}
	if indice < 0 {
		s.mu.Unlock()
		return nil, ErrLineaNoEncontrada
	}

	pendiente := &eliminacionPendiente{
		linea:          estado.lineas[indice],
		indiceOriginal: indice,
		antes:          append([]model.HistorialCalculo{}, estado.lineas...),
	}
	estado.lineas = append(estado.lineas[:indice], estado.lineas[indice+1:]...)
	estado.pendiente = pendiente
	pendiente.cancelar = s.programador.Programar(s.ventanaUndo, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.comprometer(ctx, usuario, pendiente)
	})
	resp := s.respuesta(estado)
	s.mu.Unlock()
	return resp, nil
}

func (s *bitacoraService) Deshacer(ctx context.Context, usuario string) (*dto.BitacoraResponse, error) {
	estado, err := s.estadoDe(ctx, usuario)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := estado.pendiente
	if p == nil || p.comprometida {
		return nil, ErrSinEliminacion
	}
	p.restaurada = true
	if p.cancelar != nil {
		p.cancelar()
	}
	// Reinsert where the line was, clamped in case the list shrank.
	indice := p.indiceOriginal
	if indice > len(estado.lineas) {
		indice = len(estado.lineas)
	}
	resto := append([]model.HistorialCalculo{}, estado.lineas[indice:]...)
	estado.lineas = append(append(estado.lineas[:indice], p.linea), resto...)
	estado.pendiente = nil
	return s.respuesta(estado), nil
}

func (s *bitacoraService) EliminarAhora(ctx context.Context, usuario string) (*dto.BitacoraResponse, error) {
	estado, err := s.estadoDe(ctx, usuario)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	p := estado.pendiente
	s.mu.Unlock()
	if p == nil {
		return nil, ErrSinEliminacion
	}
	if p.cancelar != nil {
		p.cancelar()
	}
	s.comprometer(ctx, usuario, p)
	s.mu.Lock()
	resp := s.respuesta(estado)
	s.mu.Unlock()
	return resp, nil
}

// comprometer performs the store-side delete for a pending removal.
// Safe against the timer and an explicit confirmation racing: the first
// caller wins, and a delete undone in time is never committed.
func (s *bitacoraService) comprometer(ctx context.Context, usuario string, p *eliminacionPendiente) {
	s.mu.Lock()
	estado := s.estados[usuario]
	if p.comprometida || p.restaurada {
		s.mu.Unlock()
		return
	}
	p.comprometida = true
	s.mu.Unlock()

	if err := s.historialRepo.Delete(ctx, p.linea.ID); err != nil {
		// Store delete failed: put the view back exactly as it was so
		// the operator does not lose a line that still exists.
		log.Error().Err(err).Str("linea_id", p.linea.ID.String()).Msg("no se pudo eliminar el registro; se restaura la bitácora")
		s.mu.Lock()
		if estado != nil && estado.pendiente == p {
			estado.lineas = p.antes
			estado.pendiente = nil
		}
		s.mu.Unlock()
		return
	}
	if err := s.sesiones.AjustarTotal(ctx, p.linea.SesionID, -1); err != nil {
		log.Warn().Err(err).Str("sesion_id", p.linea.SesionID.String()).Msg("no se pudo ajustar el total de la sesión")
	}

	s.mu.Lock()
	if estado != nil && estado.pendiente == p {
		estado.pendiente = nil
	}
	s.mu.Unlock()
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// respuesta builds the API view. Caller must hold s.mu.
func (s *bitacoraService) respuesta(estado *estadoBitacora) *dto.BitacoraResponse {
	lineas := make([]dto.LineaBitacora, 0, len(estado.lineas))
	for i := range estado.lineas {
		lineas = append(lineas, LineaADTO(&estado.lineas[i]))
	}
	return &dto.BitacoraResponse{
		SesionID:             estado.sesionID.String(),
		Lineas:               lineas,
		EliminacionPendiente: estado.pendiente != nil && !estado.pendiente.comprometida,
	}
}

// LineaADTO maps a ledger row to its API shape.
func LineaADTO(h *model.HistorialCalculo) dto.LineaBitacora {
	l := dto.LineaBitacora{
		ID:                h.ID.String(),
		SesionID:          h.SesionID.String(),
		ProductoID:        h.ProductoID,
		Producto:          h.Producto,
		Proveedor:         h.Proveedor,
		Linea:             h.Linea,
		CodigoBarras:      h.CodigoBarras,
		CodRef:            h.CodRef,
		UnidadesPorCaja:   h.UnidadesPorCaja,
		CostoCaja:         h.CostoCaja,
		Desc1Pct:          h.Desc1Pct,
		Desc2Pct:          h.Desc2Pct,
		IncrementoPct:     h.IncrementoPct,
		CostoNetoCaja:     h.CostoNetoCaja,
		CostoNetoUnidad:   h.CostoNetoUnidad,
		PrecioFinalCaja:   h.PrecioFinalCaja,
		PrecioFinalUnidad: h.PrecioFinalUnidad,
		Cajas:             h.Cajas,
		Unidades:          h.Unidades,
		Lote:              h.Lote,
		ParametrosManual:  h.ParametrosManual,
		CasoEspecial:      h.CasoEspecial,
		Estado:            h.Estado,
		Usuario:           h.Usuario,
		CreatedAt:         h.CreatedAt.Format(time.RFC3339),
	}
	if h.Vencimiento != nil {
		l.Vencimiento = h.Vencimiento.Format("2006-01-02")
	}
	return l
}
