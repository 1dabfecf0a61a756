package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/models"
)

// ObtenerVehiculos lista todos los vehículos con los datos del dueño
func (h *Handler) ObtenerVehiculos(c *fiber.Ctx) error {
	rows, err := h.db.Query(context.Background(), `
		SELECT v.id_vehiculo, v.id_cliente, v.marca, v.modelo, v.ano, v.placa, v.fecha_creacion,
		       cl.nombres || ' ' || cl.apellidos AS nombre_cliente, cl.telefono
		FROM Vehiculos v
		JOIN Clientes cl ON v.id_cliente = cl.id_cliente
		ORDER BY v.fecha_creacion DESC`)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al obtener vehículos",
		})
	}
	defer rows.Close()

	var vehiculos []models.VehiculoDetalle
	for rows.Next() {
		var vehiculo models.VehiculoDetalle
		err := rows.Scan(&vehiculo.IDVehiculo, &vehiculo.IDCliente, &vehiculo.Marca,
			&vehiculo.Modelo, &vehiculo.Ano, &vehiculo.Placa, &vehiculo.FechaCreacion,
			&vehiculo.NombreCliente, &vehiculo.TelefonoCliente)
		if err != nil {
			continue
		}
		vehiculos = append(vehiculos, vehiculo)
	}

	return c.JSON(fiber.Map{
		"vehiculos": vehiculos,
		"total":     len(vehiculos),
	})
}

// ObtenerVehiculosPorCliente devuelve los vehículos del cliente con el
// teléfono dado. Lo usa el selector del formulario de agendamiento.
func (h *Handler) ObtenerVehiculosPorCliente(c *fiber.Ctx) error {
	telefono := strings.TrimSpace(c.Query("telefono"))
	if telefono == "" {
		return respuestaValidacion(c, []ErrorCampo{
			{Campo: "telefono", Mensaje: "El teléfono es requerido"},
		})
	}

	rows, err := h.db.Query(context.Background(), `
		SELECT v.id_vehiculo, v.id_cliente, v.marca, v.modelo, v.ano, v.placa, v.fecha_creacion
		FROM Vehiculos v
		JOIN Clientes cl ON v.id_cliente = cl.id_cliente
		WHERE cl.telefono = $1
		ORDER BY v.marca, v.modelo`, telefono)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al obtener vehículos",
		})
	}
	defer rows.Close()

	var vehiculos []models.Vehiculo
	for rows.Next() {
		var vehiculo models.Vehiculo
		err := rows.Scan(&vehiculo.IDVehiculo, &vehiculo.IDCliente, &vehiculo.Marca,
			&vehiculo.Modelo, &vehiculo.Ano, &vehiculo.Placa, &vehiculo.FechaCreacion)
		if err != nil {
			continue
		}
		vehiculos = append(vehiculos, vehiculo)
	}

	return c.JSON(fiber.Map{
		"vehiculos": vehiculos,
		"total":     len(vehiculos),
	})
}

// CrearVehiculo registra un vehículo para un cliente existente. La
// verificación del cliente y el alta van en una sola transacción.
func (h *Handler) CrearVehiculo(c *fiber.Ctx) error {
	var vehiculo models.Vehiculo
	if err := c.BodyParser(&vehiculo); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Datos inválidos",
		})
	}

	var errores []ErrorCampo
	if vehiculo.IDCliente <= 0 {
		errores = append(errores, ErrorCampo{Campo: "id_cliente", Mensaje: "El cliente es requerido"})
	}
	if strings.TrimSpace(vehiculo.Marca) == "" {
		errores = append(errores, ErrorCampo{Campo: "marca", Mensaje: "La marca es requerida"})
	}
	if strings.TrimSpace(vehiculo.Modelo) == "" {
		errores = append(errores, ErrorCampo{Campo: "modelo", Mensaje: "El modelo es requerido"})
	}
	if vehiculo.Ano == 0 {
		errores = append(errores, ErrorCampo{Campo: "ano", Mensaje: "El año es requerido"})
	}
	if strings.TrimSpace(vehiculo.Placa) == "" {
		errores = append(errores, ErrorCampo{Campo: "placa", Mensaje: "La placa es requerida"})
	}
	if len(errores) > 0 {
		return respuestaValidacion(c, errores)
	}

	placa := strings.ToUpper(strings.TrimSpace(vehiculo.Placa))

	ctx := context.Background()
	tx, err := h.db.Begin(ctx)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al iniciar la transacción",
		})
	}
	defer tx.Rollback(ctx)

	var existeCliente bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM Clientes WHERE id_cliente = $1)", vehiculo.IDCliente).Scan(&existeCliente)
	if err != nil {
		return respuestaError(c, err, "Error al verificar el cliente")
	}
	if !existeCliente {
		return c.Status(404).JSON(fiber.Map{
			"error": "Cliente no encontrado",
		})
	}

	// Pre-chequeo de placa; la restricción única es la guardia final
	var existePlaca bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM Vehiculos WHERE placa = $1)", placa).Scan(&existePlaca)
	if err != nil {
		return respuestaError(c, err, "Error al verificar la placa")
	}
	if existePlaca {
		return c.Status(409).JSON(fiber.Map{
			"error": fmt.Sprintf("Ya existe un vehículo registrado con la placa %s", placa),
		})
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO Vehiculos (id_cliente, marca, modelo, ano, placa, fecha_creacion)
		 VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id_vehiculo`,
		vehiculo.IDCliente, strings.TrimSpace(vehiculo.Marca), strings.TrimSpace(vehiculo.Modelo),
		vehiculo.Ano, placa).Scan(&vehiculo.IDVehiculo)
	if err != nil {
		return respuestaError(c, err, "Error al registrar el vehículo")
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al confirmar la transacción",
		})
	}

	vehiculo.Placa = placa
	return c.Status(201).JSON(fiber.Map{
		"mensaje":  "Vehículo registrado exitosamente",
		"vehiculo": vehiculo,
	})
}

// ActualizarVehiculo actualiza los datos de un vehículo existente
func (h *Handler) ActualizarVehiculo(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var vehiculo models.Vehiculo
	if err := c.BodyParser(&vehiculo); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Datos inválidos",
		})
	}

	placa := strings.ToUpper(strings.TrimSpace(vehiculo.Placa))
	if placa == "" {
		return respuestaValidacion(c, []ErrorCampo{
			{Campo: "placa", Mensaje: "La placa es requerida"},
		})
	}

	// La placa debe seguir siendo única, excluyendo el propio registro
	var existePlaca bool
	err = h.db.QueryRow(context.Background(),
		"SELECT EXISTS(SELECT 1 FROM Vehiculos WHERE placa = $1 AND id_vehiculo <> $2)",
		placa, id).Scan(&existePlaca)
	if err != nil {
		return respuestaError(c, err, "Error al verificar la placa")
	}
	if existePlaca {
		return c.Status(409).JSON(fiber.Map{
			"error": fmt.Sprintf("Ya existe otro vehículo con la placa %s", placa),
		})
	}

	tag, err := h.db.Exec(context.Background(),
		`UPDATE Vehiculos SET marca = $1, modelo = $2, ano = $3, placa = $4
		 WHERE id_vehiculo = $5`,
		strings.TrimSpace(vehiculo.Marca), strings.TrimSpace(vehiculo.Modelo),
		vehiculo.Ano, placa, id)
	if err != nil {
		return respuestaError(c, err, "Error al actualizar el vehículo")
	}
	if tag.RowsAffected() == 0 {
		return c.Status(404).JSON(fiber.Map{
			"error": "Vehículo no encontrado",
		})
	}

	return c.JSON(fiber.Map{
		"mensaje": "Vehículo actualizado exitosamente",
	})
}

// EliminarVehiculo borra un vehículo siempre que ninguna cita lo referencie
func (h *Handler) EliminarVehiculo(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var citas int
	err = h.db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM Citas WHERE id_vehiculo = $1", id).Scan(&citas)
	if err != nil {
		return respuestaError(c, err, "Error al verificar las citas del vehículo")
	}
	if citas > 0 {
		return c.Status(409).JSON(fiber.Map{
			"error": "El vehículo tiene citas registradas y no puede eliminarse",
		})
	}

	tag, err := h.db.Exec(context.Background(),
		"DELETE FROM Vehiculos WHERE id_vehiculo = $1", id)
	if err != nil {
		// La llave foránea de Citas respalda el chequeo anterior
		return respuestaError(c, err, "Error al eliminar el vehículo")
	}
	if tag.RowsAffected() == 0 {
		return c.Status(404).JSON(fiber.Map{
			"error": "Vehículo no encontrado",
		})
	}

	return c.JSON(fiber.Map{
		"mensaje": "Vehículo eliminado exitosamente",
	})
}

// ContarVehiculos devuelve el total de vehículos registrados
func (h *Handler) ContarVehiculos(c *fiber.Ctx) error {
	var total int
	err := h.db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM Vehiculos").Scan(&total)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al contar vehículos",
		})
	}

	return c.JSON(fiber.Map{
		"total": total,
	})
}
