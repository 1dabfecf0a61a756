package models

import (
	"time"
)

// Servicio representa la tabla Servicios en la base de datos.
// Los servicios se desactivan (activo = false), nunca se borran mientras
// alguna cita los referencie.
type Servicio struct {
	IDServicio    int       `json:"id_servicio" db:"id_servicio"`
	Nombre        string    `json:"nombre" db:"nombre" validate:"required,max=100"`
	Activo        bool      `json:"activo" db:"activo"`
	FechaCreacion time.Time `json:"fecha_creacion" db:"fecha_creacion"`
}
