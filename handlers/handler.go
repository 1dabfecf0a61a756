package handlers

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/middleware"
)

// Handler agrupa las dependencias de todos los handlers HTTP. El pool se
// inyecta aquí en lugar de vivir como global de paquete.
type Handler struct {
	db     *pgxpool.Pool
	auth   *middleware.Auth
	logger *middleware.RequestLogger
}

// New crea el conjunto de handlers sobre el pool y middleware dados
func New(db *pgxpool.Pool, auth *middleware.Auth, logger *middleware.RequestLogger) *Handler {
	return &Handler{db: db, auth: auth, logger: logger}
}
