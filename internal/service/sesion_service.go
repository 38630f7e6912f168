package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/desiigner97/farmaclinic-margenes/internal/dto"
	"github.com/desiigner97/farmaclinic-margenes/internal/infra"
	"github.com/desiigner97/farmaclinic-margenes/internal/model"
	"github.com/desiigner97/farmaclinic-margenes/internal/repository"
)

var (
	ErrSesionNoEncontrada = errors.New("Sesión no encontrada")
	ErrSesionNoActiva     = errors.New("La sesión no está en proceso")
	ErrSesionVacia        = errors.New("No se puede finalizar una sesión sin registros")
)

type SesionService interface {
	// ResumirOCrear returns the operator's en_proceso session, creating
	// one when none exists, together with its persisted ledger.
	ResumirOCrear(ctx context.Context, usuario string) (*model.SesionTrabajo, []model.HistorialCalculo, error)
	Crear(ctx context.Context, usuario, nombre string) (*model.SesionTrabajo, error)
	Finalizar(ctx context.Context, sesionID uuid.UUID, usuario string) (*dto.FinalizarSesionResponse, error)
	Listar(ctx context.Context, estado string) ([]model.SesionTrabajo, error)
	ObtenerPorID(ctx context.Context, sesionID uuid.UUID) (*model.SesionTrabajo, error)
	// AjustarTotal keeps the running counter in sync as ledger lines are
	// added or removed. The counter is advisory; Finalizar recounts.
	AjustarTotal(ctx context.Context, sesionID uuid.UUID, delta int) error
}

type sesionService struct {
	repo          repository.SesionRepository
	historialRepo repository.HistorialRepository
	mailer        *infra.Mailer
}

func NewSesionService(repo repository.SesionRepository, historialRepo repository.HistorialRepository, mailer *infra.Mailer) SesionService {
	return &sesionService{repo: repo, historialRepo: historialRepo, mailer: mailer}
}

func (s *sesionService) ResumirOCrear(ctx context.Context, usuario string) (*model.SesionTrabajo, []model.HistorialCalculo, error) {
	sesion, err := s.repo.FindEnProcesoByUsuario(ctx, usuario)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sesion, err = s.Crear(ctx, usuario, "")
		if err != nil {
			return nil, nil, err
		}
		return sesion, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	lineas, err := s.historialRepo.ListBySesion(ctx, sesion.ID)
	if err != nil {
		return nil, nil, err
	}
	return sesion, lineas, nil
}

func (s *sesionService) Crear(ctx context.Context, usuario, nombre string) (*model.SesionTrabajo, error) {
	// One en_proceso session per operator: creating a second one would
	// split the ledger.
	if _, err := s.repo.FindEnProcesoByUsuario(ctx, usuario); err == nil {
		return nil, errors.New("Ya existe una sesión en proceso; finalízala antes de crear otra")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if nombre == "" {
		nombre = fmt.Sprintf("Sesión %s", time.Now().Format("02/01/2006 15:04"))
	}
	sesion := &model.SesionTrabajo{
		Nombre:  nombre,
		Usuario: usuario,
		Estado:  model.SesionEnProceso,
	}
	if err := s.repo.Create(ctx, sesion); err != nil {
		return nil, err
	}
	log.Info().Str("sesion_id", sesion.ID.String()).Str("usuario", usuario).Msg("sesión creada")
	return sesion, nil
}

func (s *sesionService) Finalizar(ctx context.Context, sesionID uuid.UUID, usuario string) (*dto.FinalizarSesionResponse, error) {
	sesion, err := s.repo.FindByID(ctx, sesionID)
	if err != nil {
		return nil, ErrSesionNoEncontrada
	}
	if sesion.Estado != model.SesionEnProceso {
		return nil, ErrSesionNoActiva
	}

	// The persisted count is authoritative: local views can be stale
	// after undos and pending deletes.
	total, err := s.historialRepo.CountBySesion(ctx, sesionID)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrSesionVacia
	}

	ahora := time.Now()
	sesion.Estado = model.SesionEnviadaRevision
	sesion.TotalRegistros = int(total)
	sesion.FinalizadaAt = &ahora
	if err := s.repo.Update(ctx, sesion); err != nil {
		return nil, err
	}

	nueva, err := s.Crear(ctx, usuario, "")
	if err != nil {
		return nil, err
	}

	if s.mailer != nil && s.mailer.Configurado() {
		if err := s.mailer.NotificarRevision(sesion.Nombre, usuario, int(total)); err != nil {
			log.Warn().Err(err).Str("sesion_id", sesionID.String()).Msg("no se pudo notificar al revisor")
		}
	}
	log.Info().
		Str("sesion_id", sesionID.String()).
		Int64("registros", total).
		Msg("sesión enviada a revisión")

	return &dto.FinalizarSesionResponse{
		Finalizada:  SesionADTO(sesion),
		NuevaSesion: SesionADTO(nueva),
	}, nil
}

func (s *sesionService) Listar(ctx context.Context, estado string) ([]model.SesionTrabajo, error) {
	return s.repo.ListByEstado(ctx, estado)
}

func (s *sesionService) ObtenerPorID(ctx context.Context, sesionID uuid.UUID) (*model.SesionTrabajo, error) {
	sesion, err := s.repo.FindByID(ctx, sesionID)
	if err != nil {
		return nil, ErrSesionNoEncontrada
	}
	return sesion, nil
}

func (s *sesionService) AjustarTotal(ctx context.Context, sesionID uuid.UUID, delta int) error {
	return s.repo.AjustarTotal(ctx, sesionID, delta)
}

// SesionADTO maps a session row to its API shape.
func SesionADTO(s *model.SesionTrabajo) dto.SesionResponse {
	resp := dto.SesionResponse{
		ID:             s.ID.String(),
		Nombre:         s.Nombre,
		Usuario:        s.Usuario,
		Estado:         s.Estado,
		TotalRegistros: s.TotalRegistros,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
	if s.FinalizadaAt != nil {
		v := s.FinalizadaAt.Format(time.RFC3339)
		resp.FinalizadaAt = &v
	}
	if s.RevisadaAt != nil {
		v := s.RevisadaAt.Format(time.RFC3339)
		resp.RevisadaAt = &v
	}
	return resp
}
