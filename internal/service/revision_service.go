package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/desiigner97/farmaclinic-margenes/internal/dto"
	"github.com/desiigner97/farmaclinic-margenes/internal/model"
	"github.com/desiigner97/farmaclinic-margenes/internal/repository"
)

var (
	ErrSesionNoRevisable  = errors.New("La sesión no está enviada a revisión")
	ErrSinPrecioAnterior  = errors.New("La acción requiere un precio anterior de sistema")
	ErrLineaFueraDeSesion = errors.New("El registro no pertenece a la sesión")
)

// InvalidadorPrecios drops cached price lookups after a decision
// changes the system price.
type InvalidadorPrecios interface {
	Invalidar(ctx context.Context, codigos ...string)
}

// RevisionService reconciles a finalized session's computed unit prices
// against the previously known system prices. Every decision is an
// audit row; all actions except "reprocesar" also write the resolved
// price back to the system price table.
type RevisionService interface {
	Lineas(ctx context.Context, sesionID uuid.UUID) (*dto.RevisionResponse, error)
	Decidir(ctx context.Context, sesionID uuid.UUID, revisor string, req dto.DecidirRequest) (*dto.DecisionResponse, error)
	FinalizarRevision(ctx context.Context, sesionID uuid.UUID) (*dto.SesionResponse, error)
}

type revisionService struct {
	sesionRepo    repository.SesionRepository
	historialRepo repository.HistorialRepository
	precioRepo    repository.PrecioSistemaRepository
	decisionRepo  repository.DecisionRepository
	invalidador   InvalidadorPrecios
}

func NewRevisionService(
	sesionRepo repository.SesionRepository,
	historialRepo repository.HistorialRepository,
	precioRepo repository.PrecioSistemaRepository,
	decisionRepo repository.DecisionRepository,
	invalidador InvalidadorPrecios,
) RevisionService {
	return &revisionService{
		sesionRepo:    sesionRepo,
		historialRepo: historialRepo,
		precioRepo:    precioRepo,
		decisionRepo:  decisionRepo,
		invalidador:   invalidador,
	}
}

var cienPct = decimal.NewFromInt(100)

func (s *revisionService) Lineas(ctx context.Context, sesionID uuid.UUID) (*dto.RevisionResponse, error) {
	sesion, err := s.sesionRepo.FindByID(ctx, sesionID)
	if err != nil {
		return nil, ErrSesionNoEncontrada
	}
	lineas, err := s.historialRepo.ListBySesion(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	decisiones, err := s.decisionRepo.ListBySesion(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	porLinea := make(map[uuid.UUID]*model.DecisionComparacion, len(decisiones))
	for i := range decisiones {
		porLinea[decisiones[i].HistorialID] = &decisiones[i]
	}

	resp := &dto.RevisionResponse{
		SesionID: sesionID.String(),
		Estado:   sesion.Estado,
		Lineas:   make([]dto.LineaRevision, 0, len(lineas)),
	}
	for i := range lineas {
		h := &lineas[i]
		lr := dto.LineaRevision{
			HistorialID:       h.ID.String(),
			Producto:          h.Producto,
			Proveedor:         h.Proveedor,
			CodigoBarras:      h.CodigoBarras,
			CodRef:            h.CodRef,
			UnidadesPorCaja:   h.UnidadesPorCaja,
			PrecioNuevoUnidad: h.PrecioFinalUnidad,
			ParametrosManual:  h.ParametrosManual,
			CasoEspecial:      h.CasoEspecial,
		}
		if anterior, err := s.precioAnteriorUnidad(ctx, h); err != nil {
			return nil, err
		} else if anterior != nil {
			lr.PrecioAnteriorUnidad = anterior
			delta := deltaPct(*anterior, h.PrecioFinalUnidad)
			lr.DeltaPct = &delta
		}
		if d, ok := porLinea[h.ID]; ok {
			lr.Decidida = true
			lr.Accion = d.Accion
			resp.Decididas++
		}
		resp.Lineas = append(resp.Lineas, lr)
	}
	return resp, nil
}

func (s *revisionService) Decidir(ctx context.Context, sesionID uuid.UUID, revisor string, req dto.DecidirRequest) (*dto.DecisionResponse, error) {
	sesion, err := s.sesionRepo.FindByID(ctx, sesionID)
	if err != nil {
		return nil, ErrSesionNoEncontrada
	}
	if sesion.Estado != model.SesionEnviadaRevision {
		return nil, ErrSesionNoRevisable
	}

	historialID, err := uuid.Parse(req.HistorialID)
	if err != nil {
		return nil, ErrLineaNoEncontrada
	}
	linea, err := s.historialRepo.FindByID(ctx, historialID)
	if err != nil {
		return nil, ErrLineaNoEncontrada
	}
	if linea.SesionID != sesionID {
		return nil, ErrLineaFueraDeSesion
	}

	anterior, err := s.precioAnteriorUnidad(ctx, linea)
	if err != nil {
		return nil, err
	}

	nuevo := linea.PrecioFinalUnidad
	var final decimal.Decimal
	switch req.Accion {
	case model.AccionMantenerAnterior:
		if anterior == nil {
			return nil, ErrSinPrecioAnterior
		}
		final = *anterior
	case model.AccionUsarNuevo:
		final = nuevo
	case model.AccionPromedio:
		if anterior == nil {
			return nil, ErrSinPrecioAnterior
		}
		final = anterior.Add(nuevo).Div(decimal.NewFromInt(2))
	case model.AccionReprocesar:
		// Advisory: the line goes back to pending and nothing is written
		// to the system prices.
		final = nuevo
	default:
		return nil, errors.New("Acción de revisión desconocida")
	}

	decision := &model.DecisionComparacion{
		SesionID:             sesionID,
		HistorialID:          historialID,
		Accion:               req.Accion,
		PrecioAnteriorUnidad: anterior,
		PrecioNuevoUnidad:    nuevo,
		PrecioFinalUnidad:    final,
		Motivo:               req.Motivo,
		Revisor:              revisor,
	}
	if err := s.decisionRepo.Upsert(ctx, decision); err != nil {
		return nil, err
	}

	if req.Accion == model.AccionReprocesar {
		if err := s.historialRepo.UpdateEstado(ctx, historialID, model.LineaPendienteRevision); err != nil {
			return nil, err
		}
	} else {
		// Lines without barcode or reference code (sheet rows with a
		// generated id) cannot be looked up later: the decision is
		// recorded but no system price is written for them.
		if linea.CodigoBarras != "" || linea.CodRef != "" {
			// The system price table stores box prices; the decided unit
			// price scales back up by the pack size.
			precioCaja := final.Mul(decimal.NewFromInt(int64(linea.UnidadesPorCaja)))
			if err := s.precioRepo.Upsert(ctx, linea.CodigoBarras, linea.CodRef, precioCaja, revisor); err != nil {
				return nil, err
			}
			if s.invalidador != nil {
				s.invalidador.Invalidar(ctx, linea.CodigoBarras, linea.CodRef)
			}
		}
		if err := s.historialRepo.UpdateEstado(ctx, historialID, model.LineaRevisada); err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("sesion_id", sesionID.String()).
		Str("historial_id", historialID.String()).
		Str("accion", req.Accion).
		Str("revisor", revisor).
		Msg("decisión registrada")

	return &dto.DecisionResponse{
		HistorialID:          req.HistorialID,
		Accion:               req.Accion,
		PrecioAnteriorUnidad: anterior,
		PrecioNuevoUnidad:    nuevo,
		PrecioFinalUnidad:    final,
		Motivo:               req.Motivo,
		Revisor:              revisor,
	}, nil
}

// FinalizarRevision closes an enviada_revision session. Full decision
// coverage is not required: undecided lines simply keep their pending
// state.
func (s *revisionService) FinalizarRevision(ctx context.Context, sesionID uuid.UUID) (*dto.SesionResponse, error) {
	sesion, err := s.sesionRepo.FindByID(ctx, sesionID)
	if err != nil {
		return nil, ErrSesionNoEncontrada
	}
	if sesion.Estado != model.SesionEnviadaRevision {
		return nil, ErrSesionNoRevisable
	}
	ahora := time.Now()
	sesion.Estado = model.SesionRevisada
	sesion.RevisadaAt = &ahora
	if err := s.sesionRepo.Update(ctx, sesion); err != nil {
		return nil, err
	}
	log.Info().Str("sesion_id", sesionID.String()).Msg("revisión finalizada")
	resp := SesionADTO(sesion)
	return &resp, nil
}

// precioAnteriorUnidad derives the unit price from the stored box price.
// Returns nil when the product has no usable system price.
func (s *revisionService) precioAnteriorUnidad(ctx context.Context, h *model.HistorialCalculo) (*decimal.Decimal, error) {
	p, err := s.precioRepo.FindByCodigo(ctx, h.CodigoBarras, h.CodRef)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !p.PrecioCaja.IsPositive() || h.UnidadesPorCaja <= 0 {
		return nil, nil
	}
	unidad := p.PrecioCaja.Div(decimal.NewFromInt(int64(h.UnidadesPorCaja)))
	return &unidad, nil
}

func deltaPct(anterior, nuevo decimal.Decimal) decimal.Decimal {
	return nuevo.Sub(anterior).Div(anterior).Mul(cienPct)
}
