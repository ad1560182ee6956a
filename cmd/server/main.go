package main

import (
	"errors"
	"strings"

	"entregas-backend/internal/audit"
	"entregas-backend/internal/auth"
	"entregas-backend/internal/cache"
	"entregas-backend/internal/clientes"
	"entregas-backend/internal/config"
	"entregas-backend/internal/database"
	"entregas-backend/internal/domain"
	"entregas-backend/internal/entregas"
	"entregas-backend/internal/events"
	"entregas-backend/internal/inventario"
	"entregas-backend/internal/logger"
	"entregas-backend/internal/metrics"
	"entregas-backend/internal/models"
	"entregas-backend/internal/pagos"
	"entregas-backend/internal/pedidos"
	"entregas-backend/internal/repartidores"
	"entregas-backend/internal/repository"
	"entregas-backend/internal/zonas"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func errorHandler(c *fiber.Ctx, err error) error {
	var nerr *domain.NoEncontradoError
	if errors.As(err, &nerr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nerr.Mensaje})
	}
	var verr *domain.ValidacionError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Mensaje})
	}
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{"error": ferr.Message})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Recurso no encontrado"})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("error inesperado")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error interno del servidor"})
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)

	db := database.Init(cfg)

	rdb, err := cache.New(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo inicializar Redis")
	}
	denylist := cache.NewTokenDenylist(rdb)

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	// Repositorios
	zonaRepo := repository.NewZonaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	repartidorRepo := repository.NewRepartidorRepository(db)
	tipoProductoRepo := repository.NewTipoProductoRepository(db)
	tipoPagoRepo := repository.NewTipoPagoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	entregaRepo := repository.NewEntregaRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Servicios
	recorder := audit.NewRecorder(auditRepo)
	stockSvc := inventario.NewStockService(productoRepo, tipoProductoRepo)
	pedidoSvc := pedidos.NewService(pedidoRepo, clienteRepo, productoRepo, pagoRepo, stockSvc, publisher)
	pagoSvc := pagos.NewService(pagoRepo, pedidoRepo, tipoPagoRepo, publisher)
	entregaSvc := entregas.NewService(entregaRepo, pedidoRepo, repartidorRepo, zonaRepo, publisher)

	// Handlers
	authH := auth.NewHandler(cfg, userRepo, clienteRepo, denylist)
	zonaH := zonas.NewHandler(zonaRepo)
	clienteH := clientes.NewHandler(clienteRepo, zonaRepo)
	repartidorH := repartidores.NewHandler(repartidorRepo, zonaRepo)
	inventarioH := inventario.NewHandler(stockSvc, tipoProductoRepo)
	pedidoH := pedidos.NewHandler(pedidoSvc, recorder)
	pagoH := pagos.NewHandler(pagoSvc, tipoPagoRepo, recorder)
	entregaH := entregas.NewHandler(entregaSvc, recorder)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	// Auth público
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/register-admin", authH.RegisterAdmin)
	api.Post("/auth/login", authH.Login)

	// Rutas autenticadas
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg, denylist))

	protected.Get("/auth/me", authH.Me)
	protected.Post("/auth/logout", authH.Logout)

	// Consultas del propio cliente
	protected.Get("/pedidos/mis-pedidos", pedidoH.MisPedidos)
	protected.Get("/pedidos/mis-pedidos-impagos", pedidoH.MisPedidosImpagos)
	protected.Get("/entregas/mis-entregas", entregaH.MisEntregas)

	// Un cliente autenticado puede armar su pedido, sus líneas y registrar el pago.
	protected.Post("/pedidos", pedidoH.Crear)
	protected.Put("/pedidos/:nro", pedidoH.Actualizar)
	protected.Get("/pedidos/:nro/lineas", pedidoH.ListarLineas)
	protected.Post("/pedidos/:nro/lineas", pedidoH.AgregarLinea)
	protected.Put("/lineas/:id", pedidoH.ActualizarLinea)
	protected.Delete("/lineas/:id", pedidoH.EliminarLinea)
	protected.Post("/pagos", pagoH.Crear)

	// Catálogos: lectura para cualquier usuario autenticado
	protected.Get("/zonas", zonaH.Listar)
	protected.Get("/zonas/activas", zonaH.ListarActivas)
	protected.Get("/zonas/:id", zonaH.Buscar)
	protected.Get("/productos", inventarioH.ListarProductos)
	protected.Get("/productos/activos", inventarioH.ListarProductosActivos)
	protected.Get("/productos/:codigo", inventarioH.BuscarProducto)
	protected.Get("/tipos-producto", inventarioH.ListarTiposProducto)
	protected.Get("/tipos-producto/activos", inventarioH.ListarTiposProductoActivos)
	protected.Get("/tipos-pago", pagoH.ListarTiposPago)
	protected.Get("/tipos-pago/activos", pagoH.ListarTiposPagoActivos)

	// Administración
	admin := protected.Group("")
	admin.Use(auth.RequireRole(models.RoleAdmin))

	admin.Post("/zonas", zonaH.Crear)
	admin.Put("/zonas/:id", zonaH.Actualizar)
	admin.Delete("/zonas/:id", zonaH.Eliminar)

	admin.Post("/clientes", clienteH.Crear)
	admin.Get("/clientes", clienteH.Listar)
	admin.Get("/clientes/activos", clienteH.ListarActivos)
	admin.Get("/clientes/:id", clienteH.Buscar)
	admin.Put("/clientes/:id", clienteH.Actualizar)
	admin.Delete("/clientes/:id", clienteH.Eliminar)

	admin.Post("/repartidores", repartidorH.Crear)
	admin.Get("/repartidores", repartidorH.Listar)
	admin.Get("/repartidores/activos", repartidorH.ListarActivos)
	admin.Get("/repartidores/:id", repartidorH.Buscar)
	admin.Put("/repartidores/:id", repartidorH.Actualizar)
	admin.Delete("/repartidores/:id", repartidorH.Eliminar)

	admin.Post("/productos", inventarioH.CrearProducto)
	admin.Put("/productos/:codigo", inventarioH.ActualizarProducto)
	admin.Delete("/productos/:codigo", inventarioH.EliminarProducto)
	admin.Post("/productos/:codigo/stock", inventarioH.AjustarStock)

	admin.Post("/tipos-producto", inventarioH.CrearTipoProducto)
	admin.Put("/tipos-producto/:id", inventarioH.ActualizarTipoProducto)
	admin.Delete("/tipos-producto/:id", inventarioH.EliminarTipoProducto)

	admin.Post("/tipos-pago", pagoH.CrearTipoPago)
	admin.Put("/tipos-pago/:id", pagoH.ActualizarTipoPago)
	admin.Delete("/tipos-pago/:id", pagoH.EliminarTipoPago)

	admin.Get("/pedidos", pedidoH.Listar)
	admin.Get("/pedidos/filter", pedidoH.Filtrar)
	admin.Get("/pedidos/sin-pago", pedidoH.ListarSinPago)
	admin.Get("/pedidos/pagos-sin-entrega", pedidoH.ListarPagadosSinEntrega)
	admin.Get("/pedidos/export", pedidoH.Exportar)
	admin.Get("/pedidos/:nro", pedidoH.Buscar)
	admin.Delete("/pedidos/:nro", pedidoH.Eliminar)

	admin.Get("/pagos", pagoH.Listar)
	admin.Get("/pagos/:id", pagoH.Buscar)
	admin.Put("/pagos/:id", pagoH.Actualizar)
	admin.Delete("/pagos/:id", pagoH.Eliminar)

	admin.Post("/entregas", entregaH.Crear)
	admin.Get("/entregas", entregaH.Listar)
	admin.Get("/entregas/filter", entregaH.Filtrar)
	admin.Get("/entregas/:id", entregaH.Buscar)
	admin.Put("/entregas/:id", entregaH.Actualizar)
	admin.Delete("/entregas/:id", entregaH.Eliminar)

	admin.Get("/audit-logs", audit.ListHandler(auditRepo))

	log.Info().Str("port", cfg.HTTPPort).Msg("servidor escuchando")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("el servidor se detuvo")
	}
}
