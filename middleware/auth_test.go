package middleware

import (
	"testing"
)

func TestGenerateJWTRoundTrip(t *testing.T) {
	auth := NewAuth("clave-de-prueba")

	token, err := auth.GenerateJWT(7, "asesor@taller.test", "asesor")
	if err != nil {
		t.Fatalf("generar token: %v", err)
	}

	claims, err := auth.ParseJWT(token)
	if err != nil {
		t.Fatalf("validar token: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("user_id = %d, quiere 7", claims.UserID)
	}
	if claims.Email != "asesor@taller.test" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Rol != "asesor" {
		t.Errorf("rol = %q", claims.Rol)
	}
}

func TestParseJWTConOtraClave(t *testing.T) {
	auth := NewAuth("clave-correcta")
	token, err := auth.GenerateJWT(1, "admin@taller.test", "admin")
	if err != nil {
		t.Fatalf("generar token: %v", err)
	}

	otro := NewAuth("clave-distinta")
	if _, err := otro.ParseJWT(token); err == nil {
		t.Fatal("un token firmado con otra clave debería rechazarse")
	}
}

func TestParseJWTBasura(t *testing.T) {
	auth := NewAuth("clave-de-prueba")
	if _, err := auth.ParseJWT("no-es-un-jwt"); err == nil {
		t.Fatal("un token malformado debería rechazarse")
	}
}
