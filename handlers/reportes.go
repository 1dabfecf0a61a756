package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/models"
)

// ResumenDashboard son los contadores que muestra el panel principal
type ResumenDashboard struct {
	CitasPendientes  int       `json:"citas_pendientes"`
	CitasCompletadas int       `json:"citas_completadas"`
	CitasCanceladas  int       `json:"citas_canceladas"`
	CitasHoy         int       `json:"citas_hoy"`
	TotalClientes    int       `json:"total_clientes"`
	TotalVehiculos   int       `json:"total_vehiculos"`
	ServiciosActivos int       `json:"servicios_activos"`
	FechaGeneracion  time.Time `json:"fecha_generacion"`
}

// ObtenerResumen genera los contadores del dashboard administrativo
func (h *Handler) ObtenerResumen(c *fiber.Ctx) error {
	ctx := context.Background()
	resumen := ResumenDashboard{FechaGeneracion: time.Now()}

	// Cada contador falla a cero de forma independiente; un error en uno
	// no deja el dashboard en blanco.
	if err := h.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM Citas WHERE estado = $1", models.EstadoPendiente).Scan(&resumen.CitasPendientes); err != nil {
		resumen.CitasPendientes = 0
	}
	if err := h.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM Citas WHERE estado = $1", models.EstadoCompletada).Scan(&resumen.CitasCompletadas); err != nil {
		resumen.CitasCompletadas = 0
	}
	if err := h.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM Citas WHERE estado = $1", models.EstadoCancelada).Scan(&resumen.CitasCanceladas); err != nil {
		resumen.CitasCanceladas = 0
	}

	hoy := time.Now().Format("2006-01-02")
	if err := h.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM Citas WHERE fecha_cita = $1", hoy).Scan(&resumen.CitasHoy); err != nil {
		resumen.CitasHoy = 0
	}

	if err := h.db.QueryRow(ctx, "SELECT COUNT(*) FROM Clientes").Scan(&resumen.TotalClientes); err != nil {
		resumen.TotalClientes = 0
	}
	if err := h.db.QueryRow(ctx, "SELECT COUNT(*) FROM Vehiculos").Scan(&resumen.TotalVehiculos); err != nil {
		resumen.TotalVehiculos = 0
	}
	if err := h.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM Servicios WHERE activo = true").Scan(&resumen.ServiciosActivos); err != nil {
		resumen.ServiciosActivos = 0
	}

	return c.JSON(fiber.Map{
		"resumen": resumen,
	})
}
