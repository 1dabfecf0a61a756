package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/models"
)

// ObtenerServicios lista todos los servicios para el panel administrativo
func (h *Handler) ObtenerServicios(c *fiber.Ctx) error {
	return h.listarServicios(c, false)
}

// ObtenerServiciosActivos lista solo los servicios seleccionables en el
// formulario público de agendamiento.
func (h *Handler) ObtenerServiciosActivos(c *fiber.Ctx) error {
	return h.listarServicios(c, true)
}

func (h *Handler) listarServicios(c *fiber.Ctx, soloActivos bool) error {
	query := `SELECT id_servicio, nombre, activo, fecha_creacion FROM Servicios`
	if soloActivos {
		query += ` WHERE activo = true`
	}
	query += ` ORDER BY nombre`

	rows, err := h.db.Query(context.Background(), query)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al obtener servicios",
		})
	}
	defer rows.Close()

	var servicios []models.Servicio
	for rows.Next() {
		var servicio models.Servicio
		err := rows.Scan(&servicio.IDServicio, &servicio.Nombre, &servicio.Activo, &servicio.FechaCreacion)
		if err != nil {
			continue
		}
		servicios = append(servicios, servicio)
	}

	return c.JSON(fiber.Map{
		"servicios": servicios,
		"total":     len(servicios),
	})
}

// CrearServicio registra un nuevo servicio con nombre único
func (h *Handler) CrearServicio(c *fiber.Ctx) error {
	var servicio models.Servicio
	if err := c.BodyParser(&servicio); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Datos inválidos",
		})
	}

	nombre := strings.TrimSpace(servicio.Nombre)
	if nombre == "" {
		return respuestaValidacion(c, []ErrorCampo{
			{Campo: "nombre", Mensaje: "El nombre del servicio es requerido"},
		})
	}

	// Pre-chequeo de nombre duplicado; la restricción única respalda
	var existe bool
	err := h.db.QueryRow(context.Background(),
		"SELECT EXISTS(SELECT 1 FROM Servicios WHERE LOWER(nombre) = LOWER($1))", nombre).Scan(&existe)
	if err != nil {
		return respuestaError(c, err, "Error al verificar el servicio")
	}
	if existe {
		return c.Status(409).JSON(fiber.Map{
			"error": "Ya existe un servicio con ese nombre",
		})
	}

	err = h.db.QueryRow(context.Background(),
		`INSERT INTO Servicios (nombre, activo, fecha_creacion)
		 VALUES ($1, true, NOW()) RETURNING id_servicio`,
		nombre).Scan(&servicio.IDServicio)
	if err != nil {
		return respuestaError(c, err, "Error al crear el servicio")
	}

	servicio.Nombre = nombre
	servicio.Activo = true
	return c.Status(201).JSON(fiber.Map{
		"mensaje":  "Servicio creado exitosamente",
		"servicio": servicio,
	})
}

// ActualizarServicio renombra un servicio. La verificación de duplicado y
// el update van en una sola transacción.
func (h *Handler) ActualizarServicio(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var servicio models.Servicio
	if err := c.BodyParser(&servicio); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Datos inválidos",
		})
	}

	nombre := strings.TrimSpace(servicio.Nombre)
	if nombre == "" {
		return respuestaValidacion(c, []ErrorCampo{
			{Campo: "nombre", Mensaje: "El nombre del servicio es requerido"},
		})
	}

	ctx := context.Background()
	tx, err := h.db.Begin(ctx)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al iniciar la transacción",
		})
	}
	defer tx.Rollback(ctx)

	var existe bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM Servicios WHERE LOWER(nombre) = LOWER($1) AND id_servicio <> $2)",
		nombre, id).Scan(&existe)
	if err != nil {
		return respuestaError(c, err, "Error al verificar el servicio")
	}
	if existe {
		return c.Status(409).JSON(fiber.Map{
			"error": "Ya existe otro servicio con ese nombre",
		})
	}

	tag, err := tx.Exec(ctx,
		"UPDATE Servicios SET nombre = $1 WHERE id_servicio = $2", nombre, id)
	if err != nil {
		return respuestaError(c, err, "Error al actualizar el servicio")
	}
	if tag.RowsAffected() == 0 {
		return c.Status(404).JSON(fiber.Map{
			"error": "Servicio no encontrado",
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al confirmar la transacción",
		})
	}

	return c.JSON(fiber.Map{
		"mensaje": "Servicio actualizado exitosamente",
	})
}

// ToggleServicio activa o desactiva un servicio para nuevos agendamientos.
// Las citas históricas que lo referencian no se tocan.
func (h *Handler) ToggleServicio(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var activo bool
	err = h.db.QueryRow(context.Background(),
		"UPDATE Servicios SET activo = NOT activo WHERE id_servicio = $1 RETURNING activo",
		id).Scan(&activo)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "Servicio no encontrado",
		})
	}

	return c.JSON(fiber.Map{
		"mensaje": "Servicio actualizado exitosamente",
		"activo":  activo,
	})
}

// EliminarServicio borra un servicio solo si ninguna cita lo referencia.
// servicio_principal guarda texto, así que la referencia se busca tanto
// con el formato centinela como con el id crudo.
func (h *Handler) EliminarServicio(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	ref := models.ServicioRef{IDServicio: id}
	var citas int
	err = h.db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM Citas WHERE servicio_principal = $1 OR servicio_principal = $2",
		ref.Texto(), strconv.Itoa(id)).Scan(&citas)
	if err != nil {
		return respuestaError(c, err, "Error al verificar las citas del servicio")
	}
	if citas > 0 {
		return c.Status(409).JSON(fiber.Map{
			"error": "El servicio está referenciado por citas y no puede eliminarse",
		})
	}

	tag, err := h.db.Exec(context.Background(),
		"DELETE FROM Servicios WHERE id_servicio = $1", id)
	if err != nil {
		return respuestaError(c, err, "Error al eliminar el servicio")
	}
	if tag.RowsAffected() == 0 {
		return c.Status(404).JSON(fiber.Map{
			"error": "Servicio no encontrado",
		})
	}

	userEmail, _ := c.Locals("user_email").(string)
	userRol, _ := c.Locals("user_rol").(string)
	h.logger.LogEvento(models.LogLevelWarning, "Servicio eliminado", userEmail, userRol,
		map[string]interface{}{
			"servicio_id": id,
			"action":      "servicio_deleted",
		})

	return c.JSON(fiber.Map{
		"mensaje": "Servicio eliminado exitosamente",
	})
}
