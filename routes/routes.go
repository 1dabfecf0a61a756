package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/handlers"
	"github.com/GiamMoon/SistemaAutomotriz-sub000/middleware"
	"github.com/GiamMoon/SistemaAutomotriz-sub000/models"
)

// SetupRoutes configura todas las rutas de la aplicación. La autenticación
// se aplica aquí, de forma uniforme por grupo, no dentro de los handlers.
func SetupRoutes(app *fiber.App, h *handlers.Handler, auth *middleware.Auth, reqLogger *middleware.RequestLogger) {
	// Middleware global
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(reqLogger.Middleware())
	app.Use(middleware.DefaultRateLimiter())

	// Avatares subidos, servidos estáticamente
	app.Static("/uploads", "./uploads")

	// Ruta de salud del sistema
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Sistema Automotriz API",
			"version": "1.0.0",
		})
	})

	api := app.Group("/api")

	// === RUTAS PÚBLICAS (formulario de agendamiento) ===
	api.Post("/citas", h.CrearCita)
	api.Get("/clientes/buscar", h.BuscarCliente)
	api.Get("/vehiculos/cliente", h.ObtenerVehiculosPorCliente)
	api.Get("/servicios/activos", h.ObtenerServiciosActivos)

	// === AUTENTICACIÓN ===
	api.Post("/login", middleware.AuthRateLimiter(), h.Login)
	api.Post("/register", middleware.AuthRateLimiter(), h.RegistrarUsuario)
	api.Post("/logout", h.Logout)

	// === RUTAS PROTEGIDAS (panel administrativo) ===
	admin := api.Group("/", auth.Middleware(), auth.RequireRole(models.RolAdmin, models.RolAsesor))

	// --- CITAS ---
	admin.Get("/citas", h.ObtenerCitas)
	admin.Get("/citas/:id", h.ObtenerCitaPorID)
	admin.Put("/citas/:id", h.ActualizarCita)
	admin.Patch("/citas/:id/cancelar", h.CancelarCita)
	admin.Patch("/citas/:id/completar", h.CompletarCita)

	// --- SERVICIOS ---
	admin.Get("/servicios", h.ObtenerServicios)
	admin.Post("/servicios", h.CrearServicio)
	admin.Put("/servicios/:id", h.ActualizarServicio)
	admin.Patch("/servicios/:id/toggle", h.ToggleServicio)
	admin.Delete("/servicios/:id", h.EliminarServicio)

	// --- VEHÍCULOS ---
	admin.Get("/vehiculos", h.ObtenerVehiculos)
	admin.Get("/vehiculos/count", h.ContarVehiculos)
	admin.Post("/vehiculos", h.CrearVehiculo)
	admin.Put("/vehiculos/:id", h.ActualizarVehiculo)
	admin.Delete("/vehiculos/:id", h.EliminarVehiculo)

	// --- CLIENTES ---
	admin.Get("/clientes", h.ObtenerClientes)
	admin.Get("/clientes/count", h.ContarClientes)
	admin.Put("/clientes/:id", h.ActualizarCliente)

	// --- PERFIL Y AVATAR ---
	admin.Get("/usuarios/perfil", h.ObtenerPerfil)
	admin.Post("/users/:id/avatar", middleware.BodySizeLimit(handlers.AvatarMaxBytes+64*1024), h.SubirAvatar)

	// --- MFA ---
	admin.Post("/mfa/setup", h.SetupMFA)
	admin.Post("/mfa/verify", h.VerifyMFA)
	admin.Post("/mfa/disable", h.DisableMFA)

	// --- REPORTES Y LOGS ---
	admin.Get("/reportes/resumen", h.ObtenerResumen)
	admin.Get("/logs", auth.RequireRole(models.RolAdmin), h.ObtenerLogs)
}
