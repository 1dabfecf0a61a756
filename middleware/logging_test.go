package middleware

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFilterSensitiveDataOcultaCampos(t *testing.T) {
	body := `{"email":"admin@taller.test","password":"secreta123","mfa_code":"123456"}`
	filtered := FilterSensitiveData(body)

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(filtered), &data); err != nil {
		t.Fatalf("el resultado debería seguir siendo JSON: %v", err)
	}
	if data["password"] != "[FILTERED]" {
		t.Errorf("password = %v", data["password"])
	}
	if data["mfa_code"] != "[FILTERED]" {
		t.Errorf("mfa_code = %v", data["mfa_code"])
	}
	if data["email"] != "admin@taller.test" {
		t.Errorf("email no debería filtrarse: %v", data["email"])
	}
}

func TestFilterSensitiveDataNoJSON(t *testing.T) {
	largo := strings.Repeat("x", 2000)
	filtered := FilterSensitiveData(largo)
	if len(filtered) > 1100 {
		t.Fatalf("body no JSON debería truncarse: len=%d", len(filtered))
	}
	if !strings.HasSuffix(filtered, "...[truncated]") {
		t.Fatalf("body truncado sin marca: %q", filtered[len(filtered)-30:])
	}

	corto := "telefono=987654321"
	if got := FilterSensitiveData(corto); got != corto {
		t.Fatalf("body corto no JSON debería quedar igual: %q", got)
	}
}

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		status int
		quiere string
	}{
		{200, "success"},
		{201, "success"},
		{302, "info"},
		{404, "warning"},
		{409, "warning"},
		{500, "error"},
	}

	for _, tt := range tests {
		if got := determineLogLevel(tt.status); got != tt.quiere {
			t.Errorf("determineLogLevel(%d) = %q, quiere %q", tt.status, got, tt.quiere)
		}
	}
}
