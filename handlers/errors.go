package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorCampo es una entrada de la lista estructurada de errores de validación
type ErrorCampo struct {
	Campo   string `json:"campo"`
	Mensaje string `json:"mensaje"`
}

// Códigos de error de PostgreSQL que se traducen a respuestas específicas
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// CodigoHTTPParaError traduce un error del driver a un status HTTP y un
// mensaje. La restricción única de la base de datos es la guardia
// autoritativa contra duplicados; el pre-chequeo en los handlers es solo
// una optimización de UX, así que el 23505 siempre termina en 409.
func CodigoHTTPParaError(err error, mensajeGenerico string) (int, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return 409, "Ya existe un registro con ese valor"
		case pgForeignKeyViolation:
			return 409, "El registro está referenciado por otros datos"
		}
	}
	return 500, mensajeGenerico
}

// respuestaError responde con el status y mensaje que corresponden al error
func respuestaError(c *fiber.Ctx, err error, mensajeGenerico string) error {
	status, mensaje := CodigoHTTPParaError(err, mensajeGenerico)
	return c.Status(status).JSON(fiber.Map{
		"error": mensaje,
	})
}

// respuestaValidacion responde 400 con la lista estructurada de campos inválidos
func respuestaValidacion(c *fiber.Ctx, errores []ErrorCampo) error {
	return c.Status(400).JSON(fiber.Map{
		"error":   "Datos inválidos",
		"errores": errores,
	})
}
