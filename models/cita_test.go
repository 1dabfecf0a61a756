package models

import (
	"testing"
)

func TestServicioRefTexto(t *testing.T) {
	ref := ServicioRef{IDServicio: 7}
	if got := ref.Texto(); got != "Servicio ID: 7" {
		t.Fatalf("texto de referencia numérica: %q", got)
	}

	otros := ServicioRef{Otros: true}
	if got := otros.Texto(); got != ServicioOtrosTexto {
		t.Fatalf("texto de referencia otros: %q", got)
	}
}

func TestParseServicioRef(t *testing.T) {
	tests := []struct {
		texto  string
		quiere ServicioRef
		ok     bool
	}{
		{"Servicio ID: 3", ServicioRef{IDServicio: 3}, true},
		{"Servicio ID: 120", ServicioRef{IDServicio: 120}, true},
		{ServicioOtrosTexto, ServicioRef{Otros: true}, true},
		{"Servicio ID: ", ServicioRef{}, false},
		{"Servicio ID: abc", ServicioRef{}, false},
		{"Servicio ID: -1", ServicioRef{}, false},
		{"Cambio de aceite", ServicioRef{}, false},
		{"", ServicioRef{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseServicioRef(tt.texto)
		if ok != tt.ok {
			t.Errorf("ParseServicioRef(%q) ok = %v, quiere %v", tt.texto, ok, tt.ok)
			continue
		}
		if ok && got != tt.quiere {
			t.Errorf("ParseServicioRef(%q) = %+v, quiere %+v", tt.texto, got, tt.quiere)
		}
	}
}

func TestParseServicioRefRoundTrip(t *testing.T) {
	for _, ref := range []ServicioRef{{IDServicio: 1}, {IDServicio: 42}, {Otros: true}} {
		got, ok := ParseServicioRef(ref.Texto())
		if !ok || got != ref {
			t.Errorf("round trip de %+v: got %+v, ok=%v", ref, got, ok)
		}
	}
}

func TestResolverServicioRef(t *testing.T) {
	ref, err := ResolverServicioRef("5")
	if err != nil || ref.Otros || ref.IDServicio != 5 {
		t.Fatalf("resolver id numérico: %+v, %v", ref, err)
	}

	ref, err = ResolverServicioRef("otros")
	if err != nil || !ref.Otros {
		t.Fatalf("resolver otros: %+v, %v", ref, err)
	}

	// Insensible a mayúsculas y espacios, como llega del formulario
	ref, err = ResolverServicioRef(" Otros ")
	if err != nil || !ref.Otros {
		t.Fatalf("resolver Otros con espacios: %+v, %v", ref, err)
	}

	for _, invalido := range []string{"", "cero", "0", "-3", "1.5"} {
		if _, err := ResolverServicioRef(invalido); err == nil {
			t.Errorf("ResolverServicioRef(%q) debería fallar", invalido)
		}
	}
}

func TestEsVehiculoNuevo(t *testing.T) {
	tests := []struct {
		valor  string
		quiere bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"false", false},
		{"", false},
	}

	for _, tt := range tests {
		req := CitaRequest{IsNewVehicle: tt.valor}
		if got := req.EsVehiculoNuevo(); got != tt.quiere {
			t.Errorf("EsVehiculoNuevo con %q = %v, quiere %v", tt.valor, got, tt.quiere)
		}
	}
}
