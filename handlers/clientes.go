package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/models"
)

// BuscarCliente busca un cliente por teléfono y devuelve sus vehículos.
// Lo usa el formulario de agendamiento para autocompletar.
func (h *Handler) BuscarCliente(c *fiber.Ctx) error {
	telefono := strings.TrimSpace(c.Query("telefono"))
	if telefono == "" {
		return respuestaValidacion(c, []ErrorCampo{
			{Campo: "telefono", Mensaje: "El teléfono es requerido"},
		})
	}

	var cliente models.ClienteConVehiculos
	err := h.db.QueryRow(context.Background(),
		`SELECT id_cliente, nombres, apellidos, email, telefono, fecha_creacion
		 FROM Clientes WHERE telefono = $1`, telefono).Scan(
		&cliente.IDCliente, &cliente.Nombres, &cliente.Apellidos,
		&cliente.Email, &cliente.Telefono, &cliente.FechaCreacion)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "Cliente no encontrado",
		})
	}

	rows, err := h.db.Query(context.Background(),
		`SELECT id_vehiculo, id_cliente, marca, modelo, ano, placa, fecha_creacion
		 FROM Vehiculos WHERE id_cliente = $1 ORDER BY marca, modelo`, cliente.IDCliente)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al obtener los vehículos del cliente",
		})
	}
	defer rows.Close()

	for rows.Next() {
		var vehiculo models.Vehiculo
		err := rows.Scan(&vehiculo.IDVehiculo, &vehiculo.IDCliente, &vehiculo.Marca,
			&vehiculo.Modelo, &vehiculo.Ano, &vehiculo.Placa, &vehiculo.FechaCreacion)
		if err != nil {
			continue
		}
		cliente.Vehiculos = append(cliente.Vehiculos, vehiculo)
	}

	return c.JSON(fiber.Map{
		"cliente": cliente,
	})
}

// ObtenerClientes lista todos los clientes para el panel administrativo
func (h *Handler) ObtenerClientes(c *fiber.Ctx) error {
	rows, err := h.db.Query(context.Background(),
		`SELECT id_cliente, nombres, apellidos, email, telefono, fecha_creacion
		 FROM Clientes ORDER BY fecha_creacion DESC`)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al obtener clientes",
		})
	}
	defer rows.Close()

	var clientes []models.Cliente
	for rows.Next() {
		var cliente models.Cliente
		err := rows.Scan(&cliente.IDCliente, &cliente.Nombres, &cliente.Apellidos,
			&cliente.Email, &cliente.Telefono, &cliente.FechaCreacion)
		if err != nil {
			continue
		}
		clientes = append(clientes, cliente)
	}

	return c.JSON(fiber.Map{
		"clientes": clientes,
		"total":    len(clientes),
	})
}

// ActualizarCliente actualiza los datos de contacto de un cliente
func (h *Handler) ActualizarCliente(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var cliente models.Cliente
	if err := c.BodyParser(&cliente); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Datos inválidos",
		})
	}

	var errores []ErrorCampo
	if strings.TrimSpace(cliente.Nombres) == "" {
		errores = append(errores, ErrorCampo{Campo: "nombres", Mensaje: "Los nombres son requeridos"})
	}
	if strings.TrimSpace(cliente.Telefono) == "" {
		errores = append(errores, ErrorCampo{Campo: "telefono", Mensaje: "El teléfono es requerido"})
	}
	if len(errores) > 0 {
		return respuestaValidacion(c, errores)
	}

	tag, err := h.db.Exec(context.Background(),
		`UPDATE Clientes SET nombres = $1, apellidos = $2, email = $3, telefono = $4
		 WHERE id_cliente = $5`,
		strings.TrimSpace(cliente.Nombres), strings.TrimSpace(cliente.Apellidos),
		cliente.Email, strings.TrimSpace(cliente.Telefono), id)
	if err != nil {
		return respuestaError(c, err, "Error al actualizar el cliente")
	}
	if tag.RowsAffected() == 0 {
		return c.Status(404).JSON(fiber.Map{
			"error": "Cliente no encontrado",
		})
	}

	return c.JSON(fiber.Map{
		"mensaje": "Cliente actualizado exitosamente",
	})
}

// ContarClientes devuelve el total de clientes registrados
func (h *Handler) ContarClientes(c *fiber.Ctx) error {
	var total int
	err := h.db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM Clientes").Scan(&total)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al contar clientes",
		})
	}

	return c.JSON(fiber.Map{
		"total": total,
	})
}
