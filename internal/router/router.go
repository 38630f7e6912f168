package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/desiigner97/farmaclinic-margenes/internal/config"
	"github.com/desiigner97/farmaclinic-margenes/internal/handler"
	"github.com/desiigner97/farmaclinic-margenes/internal/infra"
	"github.com/desiigner97/farmaclinic-margenes/internal/middleware"
	"github.com/desiigner97/farmaclinic-margenes/internal/repository"
	"github.com/desiigner97/farmaclinic-margenes/internal/service"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)
	precioCache := infra.NewPrecioCache(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	historialRepo := repository.NewHistorialRepository(db)
	sesionRepo := repository.NewSesionRepository(db)
	precioRepo := repository.NewPrecioSistemaRepository(db)
	decisionRepo := repository.NewDecisionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	catalogoSvc := service.NewCatalogoService(productoRepo)
	sesionSvc := service.NewSesionService(sesionRepo, historialRepo, mailer)
	bitacoraSvc := service.NewBitacoraService(
		historialRepo, productoRepo, sesionSvc, catalogoSvc,
		service.NewProgramador(), cfg.VentanaUndo(),
	)
	revisionSvc := service.NewRevisionService(sesionRepo, historialRepo, precioRepo, decisionRepo, precioCache)
	exportSvc := service.NewExportService(sesionRepo, historialRepo, decisionRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	bitacoraH := handler.NewBitacoraHandler(bitacoraSvc)
	sesionesH := handler.NewSesionesHandler(sesionSvc)
	revisionH := handler.NewRevisionHandler(revisionSvc)
	exportH := handler.NewExportHandler(exportSvc)
	consultaH := handler.NewConsultaPreciosHandler(precioRepo, precioCache)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required, the sales floor scans here
	r.GET("/v1/precio/:codigo", consultaH.Consultar)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: facturador, revisor, administrador — declared per-endpoint
		operadores := middleware.RequireRole("facturador", "administrador")
		revisores := middleware.RequireRole("revisor", "administrador")
		todos := middleware.RequireRole("facturador", "revisor", "administrador")

		// Catálogo — lectura para todos, importación y edición para operadores
		v1.GET("/catalogo", todos, catalogoH.Listar)
		catalogo := v1.Group("/catalogo", operadores)
		{
			catalogo.POST("/importar", catalogoH.Importar)
			catalogo.PUT("/:id/costo", catalogoH.FijarCosto)
			catalogo.PUT("/:id/overrides", catalogoH.FijarOverrides)
			catalogo.DELETE("/:id/overrides", catalogoH.RestaurarOverrides)
		}

		// Bitácora de la sesión activa
		bitacora := v1.Group("/bitacora", operadores)
		{
			bitacora.GET("", bitacoraH.Lineas)
			bitacora.POST("", bitacoraH.Registrar)
			bitacora.POST("/reordenar", bitacoraH.Reordenar)
			bitacora.POST("/deshacer", bitacoraH.Deshacer)
			bitacora.POST("/eliminar-ahora", bitacoraH.EliminarAhora)
			bitacora.DELETE("/:id", bitacoraH.Eliminar)
		}

		// Sesiones de trabajo
		v1.GET("/sesiones", todos, sesionesH.Listar)
		v1.GET("/sesiones/activa", operadores, sesionesH.Activa)
		v1.POST("/sesiones", operadores, sesionesH.Crear)
		v1.POST("/sesiones/:id/finalizar", operadores, sesionesH.Finalizar)
		v1.GET("/sesiones/:id/export.xlsx", todos, exportH.ExportarXLSX)
		v1.GET("/sesiones/:id/reporte.pdf", todos, exportH.ReportePDF)

		// Revisión de precios
		revision := v1.Group("/revision", revisores)
		{
			revision.GET("/:sesionId/lineas", revisionH.Lineas)
			revision.POST("/:sesionId/decisiones", revisionH.Decidir)
			revision.POST("/:sesionId/finalizar", revisionH.Finalizar)
		}

		// Usuarios — solo administradores
		usuarios := v1.Group("/auth/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
