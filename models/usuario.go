package models

import (
	"time"
)

// Roles de usuario del panel administrativo
const (
	RolAdmin  = "admin"
	RolAsesor = "asesor"
)

// Usuario representa la tabla Usuarios en la base de datos
type Usuario struct {
	IDUsuario     int       `json:"id_usuario" db:"id_usuario"`
	Nombre        string    `json:"nombre" db:"nombre"`
	Apellido      string    `json:"apellido" db:"apellido"`
	Email         string    `json:"email" db:"email"`
	Password      string    `json:"password,omitempty" db:"password"`
	Rol           string    `json:"rol" db:"rol"`
	AvatarURL     *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	MFAEnabled    bool      `json:"mfa_enabled" db:"mfa_enabled"`
	MFASecret     string    `json:"-" db:"mfa_secret"`
	FechaCreacion time.Time `json:"fecha_creacion" db:"fecha_creacion"`
}

// UsuarioResponse representa la respuesta sin datos sensibles
type UsuarioResponse struct {
	ID            int       `json:"id_usuario"`
	Nombre        string    `json:"nombre"`
	Apellido      string    `json:"apellido"`
	Email         string    `json:"email"`
	Rol           string    `json:"rol"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	MFAEnabled    bool      `json:"mfa_enabled"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

// LoginRequest representa la solicitud de login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfa_code,omitempty"` // Requerido solo si el usuario tiene MFA activo
}

// LoginResponse representa la respuesta del login con el token
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresIn int             `json:"expires_in"` // segundos
	Usuario   UsuarioResponse `json:"usuario"`
}

// MFASetupRequest pide la contraseña actual antes de generar el secreto
type MFASetupRequest struct {
	Password string `json:"password" validate:"required"`
}

// MFASetupResponse entrega el secreto y la URL para el código QR
type MFASetupResponse struct {
	Secret    string `json:"secret"`
	QRCodeURL string `json:"qr_code_url"`
}

// MFAVerifyRequest lleva el código TOTP de seis dígitos
type MFAVerifyRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}
