package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestCodigoHTTPParaErrorUnico(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "vehiculos_placa_key"}
	status, mensaje := CodigoHTTPParaError(err, "Error genérico")
	if status != 409 {
		t.Fatalf("violación de unicidad: status %d, quiere 409", status)
	}
	if mensaje == "Error genérico" {
		t.Fatalf("violación de unicidad no debería usar el mensaje genérico")
	}
}

func TestCodigoHTTPParaErrorForaneo(t *testing.T) {
	err := &pgconn.PgError{Code: "23503"}
	status, _ := CodigoHTTPParaError(err, "Error genérico")
	if status != 409 {
		t.Fatalf("violación de llave foránea: status %d, quiere 409", status)
	}
}

func TestCodigoHTTPParaErrorEnvuelto(t *testing.T) {
	// El error del driver suele llegar envuelto; errors.As debe encontrarlo
	base := &pgconn.PgError{Code: "23505"}
	err := fmt.Errorf("insert vehiculo: %w", base)
	status, _ := CodigoHTTPParaError(err, "Error genérico")
	if status != 409 {
		t.Fatalf("error envuelto: status %d, quiere 409", status)
	}
}

func TestCodigoHTTPParaErrorGenerico(t *testing.T) {
	status, mensaje := CodigoHTTPParaError(errors.New("conexión perdida"), "Error al crear la cita")
	if status != 500 {
		t.Fatalf("error desconocido: status %d, quiere 500", status)
	}
	if mensaje != "Error al crear la cita" {
		t.Fatalf("error desconocido: mensaje %q", mensaje)
	}
}

func TestCodigoHTTPParaErrorOtroCodigoPG(t *testing.T) {
	// Un código PG no mapeado cae en el 500 genérico
	err := &pgconn.PgError{Code: "42P01"}
	status, _ := CodigoHTTPParaError(err, "Error genérico")
	if status != 500 {
		t.Fatalf("código PG no mapeado: status %d, quiere 500", status)
	}
}
