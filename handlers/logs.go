package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/models"
)

// ObtenerLogs lista los logs de peticiones con filtros opcionales
func (h *Handler) ObtenerLogs(c *fiber.Ctx) error {
	// Parámetros de paginación
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := (page - 1) * limit

	// Construir query dinámicamente según los filtros presentes
	var conditions []string
	var args []interface{}
	argIndex := 1

	if logLevel := c.Query("log_level"); logLevel != "" {
		conditions = append(conditions, fmt.Sprintf("log_level = $%d", argIndex))
		args = append(args, logLevel)
		argIndex++
	}
	if method := c.Query("method"); method != "" {
		conditions = append(conditions, fmt.Sprintf("method = $%d", argIndex))
		args = append(args, method)
		argIndex++
	}
	if statusCode := c.Query("status_code"); statusCode != "" {
		if code, err := strconv.Atoi(statusCode); err == nil {
			conditions = append(conditions, fmt.Sprintf("status_code = $%d", argIndex))
			args = append(args, code)
			argIndex++
		}
	}
	if email := c.Query("email"); email != "" {
		conditions = append(conditions, fmt.Sprintf("email ILIKE $%d", argIndex))
		args = append(args, "%"+email+"%")
		argIndex++
	}
	if path := c.Query("path"); path != "" {
		conditions = append(conditions, fmt.Sprintf("path ILIKE $%d", argIndex))
		args = append(args, "%"+path+"%")
		argIndex++
	}
	if fechaInicio := c.Query("fecha_inicio"); fechaInicio != "" {
		if fecha, err := time.Parse("2006-01-02", fechaInicio); err == nil {
			conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", argIndex))
			args = append(args, fecha)
			argIndex++
		}
	}
	if fechaFin := c.Query("fecha_fin"); fechaFin != "" {
		if fecha, err := time.Parse("2006-01-02", fechaFin); err == nil {
			conditions = append(conditions, fmt.Sprintf("timestamp < $%d", argIndex))
			args = append(args, fecha.AddDate(0, 0, 1))
			argIndex++
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	err := h.db.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM logs"+whereClause, args...).Scan(&total)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al contar logs",
		})
	}

	query := fmt.Sprintf(`
		SELECT id_log, method, path, status_code, response_time, user_agent, ip,
		       body, query, email, rol, log_level, environment, timestamp
		FROM logs%s
		ORDER BY timestamp DESC
		LIMIT $%d OFFSET $%d`, whereClause, argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := h.db.Query(context.Background(), query, args...)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al obtener logs",
		})
	}
	defer rows.Close()

	var logs []models.Log
	for rows.Next() {
		var logEntry models.Log
		err := rows.Scan(&logEntry.IDLog, &logEntry.Method, &logEntry.Path,
			&logEntry.StatusCode, &logEntry.ResponseTime, &logEntry.UserAgent, &logEntry.IP,
			&logEntry.Body, &logEntry.Query, &logEntry.Email, &logEntry.Rol,
			&logEntry.LogLevel, &logEntry.Environment, &logEntry.Timestamp)
		if err != nil {
			continue
		}
		logs = append(logs, logEntry)
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
