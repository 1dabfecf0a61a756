package models

import (
	"time"
)

// Vehiculo representa la tabla Vehiculos en la base de datos.
// La placa es única a nivel global, no por cliente.
type Vehiculo struct {
	IDVehiculo    int       `json:"id_vehiculo" db:"id_vehiculo"`
	IDCliente     int       `json:"id_cliente" db:"id_cliente"`
	Marca         string    `json:"marca" db:"marca" validate:"required,max=50"`
	Modelo        string    `json:"modelo" db:"modelo" validate:"required,max=50"`
	Ano           int       `json:"ano" db:"ano"`
	Placa         string    `json:"placa" db:"placa" validate:"required,max=10"`
	FechaCreacion time.Time `json:"fecha_creacion" db:"fecha_creacion"`
}

// VehiculoDetalle incluye los datos del dueño para los listados del panel
type VehiculoDetalle struct {
	Vehiculo
	NombreCliente   string `json:"nombre_cliente"`
	TelefonoCliente string `json:"telefono_cliente"`
}
