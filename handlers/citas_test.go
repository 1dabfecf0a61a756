package handlers

import (
	"testing"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/models"
)

func solicitudValida() models.CitaRequest {
	return models.CitaRequest{
		NombresCliente:  "Juan",
		TelefonoCliente: "987654321",
		IsNewVehicle:    "1",
		MarcaVehiculo:   "Toyota",
		ModeloVehiculo:  "Yaris",
		AnoVehiculo:     2020,
		PlacaVehiculo:   "ABC123",
		ServicioID:      "otros",
		FechaCita:       "2025-06-01",
		HoraCita:        "10:00",
	}
}

func TestValidarCitaRequestCompleta(t *testing.T) {
	if errores := validarCitaRequest(solicitudValida()); len(errores) != 0 {
		t.Fatalf("solicitud válida rechazada: %+v", errores)
	}
}

func TestValidarCitaRequestVehiculoExistente(t *testing.T) {
	req := solicitudValida()
	req.IsNewVehicle = "0"
	req.MarcaVehiculo = ""
	req.ModeloVehiculo = ""
	req.AnoVehiculo = 0
	req.PlacaVehiculo = ""
	req.VehiculoID = 12

	if errores := validarCitaRequest(req); len(errores) != 0 {
		t.Fatalf("vehículo existente no debería exigir atributos de vehículo nuevo: %+v", errores)
	}
}

func TestValidarCitaRequestSinVehiculo(t *testing.T) {
	req := solicitudValida()
	req.IsNewVehicle = "0"
	req.VehiculoID = 0

	errores := validarCitaRequest(req)
	if !tieneErrorDeCampo(errores, "vehiculo_id") {
		t.Fatalf("sin vehículo seleccionado debería fallar en vehiculo_id: %+v", errores)
	}
}

func TestValidarCitaRequestVehiculoNuevoIncompleto(t *testing.T) {
	req := solicitudValida()
	req.PlacaVehiculo = ""
	req.MarcaVehiculo = "  "

	errores := validarCitaRequest(req)
	if !tieneErrorDeCampo(errores, "placa_vehiculo") {
		t.Errorf("placa faltante no reportada: %+v", errores)
	}
	if !tieneErrorDeCampo(errores, "marca_vehiculo") {
		t.Errorf("marca en blanco no reportada: %+v", errores)
	}
}

func TestValidarCitaRequestCamposObligatorios(t *testing.T) {
	req := models.CitaRequest{}
	errores := validarCitaRequest(req)

	for _, campo := range []string{"nombres_cliente", "telefono_cliente", "fecha_cita", "hora_cita", "servicio_id", "vehiculo_id"} {
		if !tieneErrorDeCampo(errores, campo) {
			t.Errorf("campo obligatorio %q no reportado: %+v", campo, errores)
		}
	}
}

func TestValidarCitaRequestEmailOpcional(t *testing.T) {
	req := solicitudValida()
	req.EmailCliente = ""
	req.ApellidosCliente = ""

	if errores := validarCitaRequest(req); len(errores) != 0 {
		t.Fatalf("email y apellidos son opcionales: %+v", errores)
	}
}

func tieneErrorDeCampo(errores []ErrorCampo, campo string) bool {
	for _, e := range errores {
		if e.Campo == campo {
			return true
		}
	}
	return false
}
