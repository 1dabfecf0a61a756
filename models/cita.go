package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Estados posibles de una cita
const (
	EstadoPendiente  = "Pendiente"
	EstadoCancelada  = "Cancelada"
	EstadoCompletada = "Completada"
)

// Cita representa la tabla Citas en la base de datos
type Cita struct {
	IDCita            int        `json:"id_cita" db:"id_cita"`
	IDCliente         int        `json:"id_cliente" db:"id_cliente"`
	IDVehiculo        int        `json:"id_vehiculo" db:"id_vehiculo"`
	FechaCita         string     `json:"fecha_cita" db:"fecha_cita"`
	HoraCita          string     `json:"hora_cita" db:"hora_cita"`
	Kilometraje       *int       `json:"kilometraje,omitempty" db:"kilometraje"`
	ServicioPrincipal string     `json:"servicio_principal" db:"servicio_principal"`
	MotivoDetalle     *string    `json:"motivo_detalle,omitempty" db:"motivo_detalle"`
	Estado            string     `json:"estado" db:"estado" validate:"oneof=Pendiente Cancelada Completada"`
	CreadoPorID       *int       `json:"creado_por_id,omitempty" db:"creado_por_id"`
	ModificadoPorID   *int       `json:"modificado_por_id,omitempty" db:"modificado_por_id"`
	FechaCreacion     time.Time  `json:"fecha_creacion" db:"fecha_creacion"`
	FechaModificacion *time.Time `json:"fecha_modificacion,omitempty" db:"fecha_modificacion"`
}

// CitaDetalle incluye los nombres del cliente, vehículo y usuarios para los listados
type CitaDetalle struct {
	Cita
	NombreCliente   string  `json:"nombre_cliente"`
	TelefonoCliente string  `json:"telefono_cliente"`
	MarcaVehiculo   string  `json:"marca_vehiculo"`
	ModeloVehiculo  string  `json:"modelo_vehiculo"`
	PlacaVehiculo   string  `json:"placa_vehiculo"`
	NombreServicio  *string `json:"nombre_servicio,omitempty"`
	CreadoPor       *string `json:"creado_por,omitempty"`
	ModificadoPor   *string `json:"modificado_por,omitempty"`
}

// CitaRequest representa la solicitud del formulario de agendamiento.
// is_new_vehicle y servicio_id llegan como texto desde el formulario
// ("1"/"0", id numérico u "otros"), igual que en el frontend original.
type CitaRequest struct {
	NombresCliente   string `json:"nombres_cliente"`
	ApellidosCliente string `json:"apellidos_cliente"`
	TelefonoCliente  string `json:"telefono_cliente"`
	EmailCliente     string `json:"email_cliente"`
	IsNewVehicle     string `json:"is_new_vehicle"`
	VehiculoID       int    `json:"vehiculo_id"`
	MarcaVehiculo    string `json:"marca_vehiculo"`
	ModeloVehiculo   string `json:"modelo_vehiculo"`
	AnoVehiculo      int    `json:"ano_vehiculo"`
	PlacaVehiculo    string `json:"placa_vehiculo"`
	ServicioID       string `json:"servicio_id"`
	FechaCita        string `json:"fecha_cita"`
	HoraCita         string `json:"hora_cita"`
	Kilometraje      *int   `json:"kilometraje,omitempty"`
	MotivoDetalle    string `json:"motivo_detalle"`
	CreadoPorID      *int   `json:"creado_por_id,omitempty"`
}

// EsVehiculoNuevo interpreta la bandera textual del formulario
func (r CitaRequest) EsVehiculoNuevo() bool {
	return r.IsNewVehicle == "1" || strings.EqualFold(r.IsNewVehicle, "true")
}

// CitaUpdateRequest son los campos editables de una cita existente.
// El estado no se modifica por esta vía; para eso están cancelar/completar.
type CitaUpdateRequest struct {
	FechaCita     string `json:"fecha_cita"`
	HoraCita      string `json:"hora_cita"`
	Kilometraje   *int   `json:"kilometraje,omitempty"`
	ServicioID    string `json:"servicio_id"`
	MotivoDetalle string `json:"motivo_detalle"`
}

// Texto centinela almacenado en servicio_principal. El formato externo se
// conserva byte a byte por compatibilidad con los datos históricos.
const (
	ServicioOtrosTexto = "Otros servicios / Diagnóstico"
	servicioIDPrefijo  = "Servicio ID: "
)

// ServicioRef es la variante interna detrás del texto centinela:
// o bien una referencia numérica a Servicios, o bien "otros".
type ServicioRef struct {
	IDServicio int
	Otros      bool
}

// Texto devuelve la representación almacenada en servicio_principal
func (r ServicioRef) Texto() string {
	if r.Otros {
		return ServicioOtrosTexto
	}
	return fmt.Sprintf("%s%d", servicioIDPrefijo, r.IDServicio)
}

// ParseServicioRef interpreta el texto almacenado en servicio_principal.
// Devuelve false si el texto no corresponde a ninguno de los dos formatos.
func ParseServicioRef(texto string) (ServicioRef, bool) {
	if texto == ServicioOtrosTexto {
		return ServicioRef{Otros: true}, true
	}
	resto, encontrado := strings.CutPrefix(texto, servicioIDPrefijo)
	if !encontrado {
		return ServicioRef{}, false
	}
	id, err := strconv.Atoi(resto)
	if err != nil || id <= 0 {
		return ServicioRef{}, false
	}
	return ServicioRef{IDServicio: id}, true
}

// ResolverServicioRef convierte el valor del formulario (id numérico u
// "otros") en la referencia interna. No consulta la tabla Servicios: el
// agendamiento no verifica existencia al escribir.
func ResolverServicioRef(valor string) (ServicioRef, error) {
	if strings.EqualFold(strings.TrimSpace(valor), "otros") {
		return ServicioRef{Otros: true}, nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(valor))
	if err != nil || id <= 0 {
		return ServicioRef{}, fmt.Errorf("servicio_id inválido: %q", valor)
	}
	return ServicioRef{IDServicio: id}, nil
}
