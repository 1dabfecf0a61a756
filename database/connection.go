package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect crea el pool de conexiones a PostgreSQL a partir de DATABASE_URL.
// El pool se devuelve al llamador para inyectarlo en handlers y middleware;
// no se guarda en una variable global del paquete.
func Connect() (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, fmt.Errorf("error al parsear la URL de la base de datos: %w", err)
	}
	config.MaxConns = 30 // Número máximo de conexiones abiertas al mismo tiempo
	config.MinConns = 5  // Conexiones que se mantienen abiertas en espera
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("error al crear el pool de conexiones: %w", err)
	}

	// Probar que la base de datos responde antes de arrancar el servidor
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var version string
	if err := pool.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error al probar la conexión: %w", err)
	}

	return pool, nil
}
