package router

import (
	"time"

	"bodegon/internal/config"
	"bodegon/internal/handler"
	"bodegon/internal/infra"
	"bodegon/internal/middleware"
	"bodegon/internal/repository"
	"bodegon/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, backoffice *infra.BackofficeHTTP) *gin.Engine {
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

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cuadreRepo := repository.NewCuadreRepository(db)
	costoRepo := repository.NewCostoRepository(db)
	fondoRepo := repository.NewFondoRepository(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	ivaPct := decimal.NewFromFloat(cfg.IVAPct)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, backoffice, ivaPct)
	cuadreSvc := service.NewCuadreService(cuadreRepo, ventaRepo, costoRepo, fondoRepo, backoffice)
	fondoSvc := service.NewFondoService(fondoRepo)
	precioSvc := service.NewPrecioService(productoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ventasH := handler.NewVentasHandler(ventaSvc)
	cuadreH := handler.NewCuadreHandler(cuadreSvc)
	fondoH := handler.NewFondoHandler(fondoSvc)
	preciosH := handler.NewPreciosHandler(precioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, backoffice))

	// Protected routes — tokens come from the central auth service
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		v1.POST("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.RegistrarVenta)
		v1.GET("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ListarVentas)
		v1.DELETE("/ventas/:id", middleware.RequireRole("supervisor", "administrador"), ventasH.AnularVenta)

		fondo := v1.Group("/fondo", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			fondo.POST("", fondoH.Abrir)
			fondo.GET("", fondoH.Obtener)
		}

		cuadre := v1.Group("/cuadre")
		{
			cuadre.GET("/resumen", middleware.RequireRole("cajero", "supervisor", "administrador"), cuadreH.Resumen)
			cuadre.POST("", middleware.RequireRole("cajero", "supervisor", "administrador"), cuadreH.Cerrar)
			cuadre.GET("/historial", middleware.RequireRole("supervisor", "administrador"), cuadreH.Historial)
		}

		v1.POST("/precios/cotizar", middleware.RequireRole("cajero", "supervisor", "administrador"), preciosH.Cotizar)
		v1.GET("/productos/buscar", middleware.RequireRole("cajero", "supervisor", "administrador"), preciosH.BuscarProductos)
		v1.GET("/productos/barcode/:codigo", middleware.RequireRole("cajero", "supervisor", "administrador"), preciosH.PorCodigoBarras)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
