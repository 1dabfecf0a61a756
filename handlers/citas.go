package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/models"
)

// validarCitaRequest revisa los campos estructurales del formulario de
// agendamiento antes de tocar la base de datos.
func validarCitaRequest(req models.CitaRequest) []ErrorCampo {
	var errores []ErrorCampo

	if strings.TrimSpace(req.NombresCliente) == "" {
		errores = append(errores, ErrorCampo{Campo: "nombres_cliente", Mensaje: "Los nombres del cliente son requeridos"})
	}
	if strings.TrimSpace(req.TelefonoCliente) == "" {
		errores = append(errores, ErrorCampo{Campo: "telefono_cliente", Mensaje: "El teléfono del cliente es requerido"})
	}
	if strings.TrimSpace(req.FechaCita) == "" {
		errores = append(errores, ErrorCampo{Campo: "fecha_cita", Mensaje: "La fecha de la cita es requerida"})
	}
	if strings.TrimSpace(req.HoraCita) == "" {
		errores = append(errores, ErrorCampo{Campo: "hora_cita", Mensaje: "La hora de la cita es requerida"})
	}
	if strings.TrimSpace(req.ServicioID) == "" {
		errores = append(errores, ErrorCampo{Campo: "servicio_id", Mensaje: "El servicio es requerido"})
	}

	if req.EsVehiculoNuevo() {
		// Vehículo nuevo: todos los atributos son obligatorios
		if strings.TrimSpace(req.MarcaVehiculo) == "" {
			errores = append(errores, ErrorCampo{Campo: "marca_vehiculo", Mensaje: "La marca del vehículo es requerida"})
		}
		if strings.TrimSpace(req.ModeloVehiculo) == "" {
			errores = append(errores, ErrorCampo{Campo: "modelo_vehiculo", Mensaje: "El modelo del vehículo es requerido"})
		}
		if req.AnoVehiculo == 0 {
			errores = append(errores, ErrorCampo{Campo: "ano_vehiculo", Mensaje: "El año del vehículo es requerido"})
		}
		if strings.TrimSpace(req.PlacaVehiculo) == "" {
			errores = append(errores, ErrorCampo{Campo: "placa_vehiculo", Mensaje: "La placa del vehículo es requerida"})
		}
	} else if req.VehiculoID <= 0 {
		errores = append(errores, ErrorCampo{Campo: "vehiculo_id", Mensaje: "Debe seleccionar un vehículo existente o registrar uno nuevo"})
	}

	return errores
}

// CrearCita ejecuta el flujo de agendamiento completo dentro de una sola
// transacción: resolver o crear el cliente por teléfono, resolver o crear
// el vehículo, resolver la referencia al servicio e insertar la cita.
// Cualquier fallo revierte todo; nunca queda un cliente o vehículo creado
// a medias sin su cita.
func (h *Handler) CrearCita(c *fiber.Ctx) error {
	var req models.CitaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Datos inválidos",
		})
	}

	if errores := validarCitaRequest(req); len(errores) > 0 {
		return respuestaValidacion(c, errores)
	}

	ref, err := models.ResolverServicioRef(req.ServicioID)
	if err != nil {
		return respuestaValidacion(c, []ErrorCampo{
			{Campo: "servicio_id", Mensaje: "El servicio debe ser un ID numérico u \"otros\""},
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

	// 1. Resolver cliente por teléfono; el teléfono es la única clave de
	// deduplicación, no se reconcilian diferencias de nombre.
	telefono := strings.TrimSpace(req.TelefonoCliente)
	var idCliente int
	err = tx.QueryRow(ctx,
		"SELECT id_cliente FROM Clientes WHERE telefono = $1", telefono).Scan(&idCliente)
	if errors.Is(err, pgx.ErrNoRows) {
		var email *string
		if e := strings.TrimSpace(req.EmailCliente); e != "" {
			email = &e
		}
		err = tx.QueryRow(ctx,
			`INSERT INTO Clientes (nombres, apellidos, email, telefono, fecha_creacion)
			 VALUES ($1, $2, $3, $4, NOW()) RETURNING id_cliente`,
			strings.TrimSpace(req.NombresCliente), strings.TrimSpace(req.ApellidosCliente),
			email, telefono).Scan(&idCliente)
	}
	if err != nil {
		return respuestaError(c, err, "Error al resolver el cliente")
	}

	// 2. Resolver vehículo
	var idVehiculo int
	if req.EsVehiculoNuevo() {
		placa := strings.ToUpper(strings.TrimSpace(req.PlacaVehiculo))

		// Pre-chequeo de placa duplicada; la restricción única de la base
		// de datos sigue siendo la guardia autoritativa.
		var existe bool
		err = tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM Vehiculos WHERE placa = $1)", placa).Scan(&existe)
		if err != nil {
			return respuestaError(c, err, "Error al verificar la placa")
		}
		if existe {
			return c.Status(409).JSON(fiber.Map{
				"error": fmt.Sprintf("Ya existe un vehículo registrado con la placa %s", placa),
			})
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO Vehiculos (id_cliente, marca, modelo, ano, placa, fecha_creacion)
			 VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id_vehiculo`,
			idCliente, strings.TrimSpace(req.MarcaVehiculo), strings.TrimSpace(req.ModeloVehiculo),
			req.AnoVehiculo, placa).Scan(&idVehiculo)
		if err != nil {
			return respuestaError(c, err, "Error al registrar el vehículo")
		}
	} else {
		// Vehículo existente: debe pertenecer al cliente resuelto por
		// teléfono. Un id de otro cliente se rechaza explícitamente, no
		// como "no encontrado".
		var idDueno int
		err = tx.QueryRow(ctx,
			"SELECT id_cliente FROM Vehiculos WHERE id_vehiculo = $1", req.VehiculoID).Scan(&idDueno)
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{
				"error": "Vehículo no encontrado",
			})
		}
		if err != nil {
			return respuestaError(c, err, "Error al verificar el vehículo")
		}
		if idDueno != idCliente {
			return c.Status(409).JSON(fiber.Map{
				"error": "El vehículo seleccionado no pertenece al cliente indicado",
			})
		}
		idVehiculo = req.VehiculoID
	}

	// 3. Insertar la cita. No se verifica la existencia del servicio al
	// escribir; servicio_principal guarda el texto centinela.
	var motivo *string
	if m := strings.TrimSpace(req.MotivoDetalle); m != "" {
		motivo = &m
	}

	var idCita int
	err = tx.QueryRow(ctx,
		`INSERT INTO Citas (id_cliente, id_vehiculo, fecha_cita, hora_cita, kilometraje,
		                    servicio_principal, motivo_detalle, estado, creado_por_id, fecha_creacion)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW()) RETURNING id_cita`,
		idCliente, idVehiculo, req.FechaCita, req.HoraCita, req.Kilometraje,
		ref.Texto(), motivo, models.EstadoPendiente, req.CreadoPorID).Scan(&idCita)
	if err != nil {
		return respuestaError(c, err, "Error al crear la cita")
	}

	if err := tx.Commit(ctx); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al confirmar la transacción",
		})
	}

	h.logger.LogEvento(models.LogLevelSuccess, "Cita creada", req.EmailCliente, "",
		map[string]interface{}{
			"cita_id":     idCita,
			"cliente_id":  idCliente,
			"vehiculo_id": idVehiculo,
			"telefono":    telefono,
			"action":      "cita_created",
		})

	return c.Status(201).JSON(fiber.Map{
		"mensaje": "Cita agendada exitosamente",
		"citaId":  idCita,
	})
}

// ObtenerCitas lista las citas con los datos del cliente, vehículo y
// usuarios, opcionalmente filtradas por rango de fechas.
func (h *Handler) ObtenerCitas(c *fiber.Ctx) error {
	query := `
		SELECT ci.id_cita, ci.id_cliente, ci.id_vehiculo, ci.fecha_cita, ci.hora_cita,
		       ci.kilometraje, ci.servicio_principal, ci.motivo_detalle, ci.estado,
		       ci.creado_por_id, ci.modificado_por_id, ci.fecha_creacion, ci.fecha_modificacion,
		       cl.nombres || ' ' || cl.apellidos AS nombre_cliente, cl.telefono,
		       v.marca, v.modelo, v.placa,
		       uc.nombre || ' ' || uc.apellido AS creado_por,
		       um.nombre || ' ' || um.apellido AS modificado_por
		FROM Citas ci
		JOIN Clientes cl ON ci.id_cliente = cl.id_cliente
		JOIN Vehiculos v ON ci.id_vehiculo = v.id_vehiculo
		LEFT JOIN Usuarios uc ON ci.creado_por_id = uc.id_usuario
		LEFT JOIN Usuarios um ON ci.modificado_por_id = um.id_usuario`

	var conditions []string
	var args []interface{}
	argIndex := 1

	if fechaInicio := c.Query("fecha_inicio"); fechaInicio != "" {
		conditions = append(conditions, fmt.Sprintf("ci.fecha_cita >= $%d", argIndex))
		args = append(args, fechaInicio)
		argIndex++
	}
	if fechaFin := c.Query("fecha_fin"); fechaFin != "" {
		conditions = append(conditions, fmt.Sprintf("ci.fecha_cita <= $%d", argIndex))
		args = append(args, fechaFin)
		argIndex++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ci.fecha_cita DESC, ci.hora_cita DESC"

	rows, err := h.db.Query(context.Background(), query, args...)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al obtener citas",
		})
	}
	defer rows.Close()

	var citas []models.CitaDetalle
	for rows.Next() {
		var cita models.CitaDetalle
		err := rows.Scan(&cita.IDCita, &cita.IDCliente, &cita.IDVehiculo, &cita.FechaCita, &cita.HoraCita,
			&cita.Kilometraje, &cita.ServicioPrincipal, &cita.MotivoDetalle, &cita.Estado,
			&cita.CreadoPorID, &cita.ModificadoPorID, &cita.FechaCreacion, &cita.FechaModificacion,
			&cita.NombreCliente, &cita.TelefonoCliente,
			&cita.MarcaVehiculo, &cita.ModeloVehiculo, &cita.PlacaVehiculo,
			&cita.CreadoPor, &cita.ModificadoPor)
		if err != nil {
			continue
		}
		citas = append(citas, cita)
	}

	return c.JSON(fiber.Map{
		"citas": citas,
		"total": len(citas),
	})
}

// ObtenerCitaPorID obtiene el detalle de una cita. El texto centinela de
// servicio_principal se resuelve contra la tabla Servicios al leer.
func (h *Handler) ObtenerCitaPorID(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var cita models.CitaDetalle
	err = h.db.QueryRow(context.Background(), `
		SELECT ci.id_cita, ci.id_cliente, ci.id_vehiculo, ci.fecha_cita, ci.hora_cita,
		       ci.kilometraje, ci.servicio_principal, ci.motivo_detalle, ci.estado,
		       ci.creado_por_id, ci.modificado_por_id, ci.fecha_creacion, ci.fecha_modificacion,
		       cl.nombres || ' ' || cl.apellidos, cl.telefono,
		       v.marca, v.modelo, v.placa
		FROM Citas ci
		JOIN Clientes cl ON ci.id_cliente = cl.id_cliente
		JOIN Vehiculos v ON ci.id_vehiculo = v.id_vehiculo
		WHERE ci.id_cita = $1`, id).Scan(
		&cita.IDCita, &cita.IDCliente, &cita.IDVehiculo, &cita.FechaCita, &cita.HoraCita,
		&cita.Kilometraje, &cita.ServicioPrincipal, &cita.MotivoDetalle, &cita.Estado,
		&cita.CreadoPorID, &cita.ModificadoPorID, &cita.FechaCreacion, &cita.FechaModificacion,
		&cita.NombreCliente, &cita.TelefonoCliente,
		&cita.MarcaVehiculo, &cita.ModeloVehiculo, &cita.PlacaVehiculo)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "Cita no encontrada",
		})
	}

	if ref, ok := models.ParseServicioRef(cita.ServicioPrincipal); ok && !ref.Otros {
		var nombre string
		if err := h.db.QueryRow(context.Background(),
			"SELECT nombre FROM Servicios WHERE id_servicio = $1", ref.IDServicio).Scan(&nombre); err == nil {
			cita.NombreServicio = &nombre
		}
	}

	return c.JSON(fiber.Map{
		"cita": cita,
	})
}

// ActualizarCita actualiza fecha, hora, kilometraje, servicio y notas de
// una cita existente. El estado no cambia por esta vía.
func (h *Handler) ActualizarCita(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	var req models.CitaUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Datos inválidos",
		})
	}

	var errores []ErrorCampo
	if strings.TrimSpace(req.FechaCita) == "" {
		errores = append(errores, ErrorCampo{Campo: "fecha_cita", Mensaje: "La fecha de la cita es requerida"})
	}
	if strings.TrimSpace(req.HoraCita) == "" {
		errores = append(errores, ErrorCampo{Campo: "hora_cita", Mensaje: "La hora de la cita es requerida"})
	}
	if strings.TrimSpace(req.ServicioID) == "" {
		errores = append(errores, ErrorCampo{Campo: "servicio_id", Mensaje: "El servicio es requerido"})
	}
	if len(errores) > 0 {
		return respuestaValidacion(c, errores)
	}

	ref, err := models.ResolverServicioRef(req.ServicioID)
	if err != nil {
		return respuestaValidacion(c, []ErrorCampo{
			{Campo: "servicio_id", Mensaje: "El servicio debe ser un ID numérico u \"otros\""},
		})
	}

	var existe bool
	err = h.db.QueryRow(context.Background(),
		"SELECT EXISTS(SELECT 1 FROM Citas WHERE id_cita = $1)", id).Scan(&existe)
	if err != nil {
		return respuestaError(c, err, "Error al verificar la cita")
	}
	if !existe {
		return c.Status(404).JSON(fiber.Map{
			"error": "Cita no encontrada",
		})
	}

	var motivo *string
	if m := strings.TrimSpace(req.MotivoDetalle); m != "" {
		motivo = &m
	}
	modificadoPor := usuarioAutenticado(c)

	_, err = h.db.Exec(context.Background(),
		`UPDATE Citas SET fecha_cita = $1, hora_cita = $2, kilometraje = $3,
		        servicio_principal = $4, motivo_detalle = $5,
		        modificado_por_id = $6, fecha_modificacion = NOW()
		 WHERE id_cita = $7`,
		req.FechaCita, req.HoraCita, req.Kilometraje, ref.Texto(), motivo, modificadoPor, id)
	if err != nil {
		return respuestaError(c, err, "Error al actualizar la cita")
	}

	return c.JSON(fiber.Map{
		"mensaje": "Cita actualizada exitosamente",
	})
}

// CancelarCita marca una cita como cancelada
func (h *Handler) CancelarCita(c *fiber.Ctx) error {
	return h.cambiarEstadoCita(c, models.EstadoCancelada, "Cita cancelada exitosamente")
}

// CompletarCita marca una cita como completada
func (h *Handler) CompletarCita(c *fiber.Ctx) error {
	return h.cambiarEstadoCita(c, models.EstadoCompletada, "Cita completada exitosamente")
}

// cambiarEstadoCita aplica una transición de estado y estampa quién y
// cuándo la hizo. La capa SQL no impide repetir la transición sobre una
// cita ya terminal; el panel oculta los botones en ese caso.
func (h *Handler) cambiarEstadoCita(c *fiber.Ctx, estado, mensaje string) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	modificadoPor := usuarioAutenticado(c)

	tag, err := h.db.Exec(context.Background(),
		`UPDATE Citas SET estado = $1, modificado_por_id = $2, fecha_modificacion = NOW()
		 WHERE id_cita = $3`,
		estado, modificadoPor, id)
	if err != nil {
		return respuestaError(c, err, "Error al actualizar la cita")
	}
	if tag.RowsAffected() == 0 {
		return c.Status(404).JSON(fiber.Map{
			"error": "Cita no encontrada",
		})
	}

	userEmail, _ := c.Locals("user_email").(string)
	userRol, _ := c.Locals("user_rol").(string)
	h.logger.LogEvento(models.LogLevelInfo, mensaje, userEmail, userRol,
		map[string]interface{}{
			"cita_id": id,
			"estado":  estado,
			"action":  "cita_estado",
		})

	return c.JSON(fiber.Map{
		"mensaje": mensaje,
	})
}

// usuarioAutenticado devuelve el id del usuario del token, si hay sesión
func usuarioAutenticado(c *fiber.Ctx) *int {
	if userID, ok := c.Locals("user_id").(int); ok {
		return &userID
	}
	return nil
}
