package models

import (
	"time"
)

// Cliente representa la tabla Clientes en la base de datos.
// El teléfono funciona como clave natural de deduplicación: el flujo de
// agendamiento busca por teléfono y reutiliza el registro si ya existe.
type Cliente struct {
	IDCliente     int       `json:"id_cliente" db:"id_cliente"`
	Nombres       string    `json:"nombres" db:"nombres"`
	Apellidos     string    `json:"apellidos" db:"apellidos"`
	Email         *string   `json:"email,omitempty" db:"email"`
	Telefono      string    `json:"telefono" db:"telefono"`
	FechaCreacion time.Time `json:"fecha_creacion" db:"fecha_creacion"`
}

// ClienteConVehiculos es la respuesta de la búsqueda por teléfono
type ClienteConVehiculos struct {
	Cliente
	Vehiculos []Vehiculo `json:"vehiculos"`
}
