package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/middleware"
	"github.com/GiamMoon/SistemaAutomotriz-sub000/models"
)

// Límite y destino de la subida de avatares
const (
	AvatarMaxBytes = 2 * 1024 * 1024
	AvatarDir      = "uploads/avatars"
)

// RegistrarUsuario crea un nuevo usuario del panel administrativo
func (h *Handler) RegistrarUsuario(c *fiber.Ctx) error {
	var usuario models.Usuario
	if err := c.BodyParser(&usuario); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Datos inválidos",
		})
	}

	if usuario.Rol == "" {
		usuario.Rol = models.RolAsesor
	}
	rolesValidos := map[string]bool{
		models.RolAdmin:  true,
		models.RolAsesor: true,
	}
	if !rolesValidos[usuario.Rol] {
		return c.Status(400).JSON(fiber.Map{
			"error": "Rol de usuario inválido",
		})
	}

	if usuario.Nombre == "" || usuario.Apellido == "" || usuario.Email == "" || usuario.Password == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Nombre, apellido, email y contraseña son requeridos",
		})
	}

	// Verificar si el email ya existe
	var existeEmail bool
	err := h.db.QueryRow(context.Background(),
		"SELECT EXISTS(SELECT 1 FROM Usuarios WHERE email = $1)", usuario.Email).Scan(&existeEmail)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error interno del servidor",
		})
	}
	if existeEmail {
		return c.Status(409).JSON(fiber.Map{
			"error": "El email ya está registrado",
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(usuario.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al procesar la contraseña",
		})
	}

	var nuevoID int
	err = h.db.QueryRow(context.Background(),
		`INSERT INTO Usuarios (nombre, apellido, email, password, rol, fecha_creacion)
		 VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id_usuario`,
		usuario.Nombre, usuario.Apellido, usuario.Email, string(hashedPassword), usuario.Rol).Scan(&nuevoID)
	if err != nil {
		return respuestaError(c, err, "Error al crear el usuario")
	}

	respuesta := models.UsuarioResponse{
		ID:            nuevoID,
		Nombre:        usuario.Nombre,
		Apellido:      usuario.Apellido,
		Email:         usuario.Email,
		Rol:           usuario.Rol,
		FechaCreacion: time.Now(),
	}

	return c.Status(201).JSON(fiber.Map{
		"mensaje": "Usuario creado exitosamente",
		"usuario": respuesta,
	})
}

// Login autentica un usuario, valida el código TOTP si tiene MFA activo y
// entrega el token en el body y en una cookie httpOnly.
func (h *Handler) Login(c *fiber.Ctx) error {
	var loginReq models.LoginRequest
	if err := c.BodyParser(&loginReq); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Datos inválidos",
		})
	}

	var usuario models.Usuario
	err := h.db.QueryRow(context.Background(),
		`SELECT id_usuario, nombre, apellido, email, password, rol, avatar_url,
		        mfa_enabled, COALESCE(mfa_secret, ''), fecha_creacion
		 FROM Usuarios WHERE email = $1`,
		loginReq.Email).Scan(&usuario.IDUsuario, &usuario.Nombre, &usuario.Apellido,
		&usuario.Email, &usuario.Password, &usuario.Rol, &usuario.AvatarURL,
		&usuario.MFAEnabled, &usuario.MFASecret, &usuario.FechaCreacion)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"error": "Credenciales inválidas",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.Password), []byte(loginReq.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{
			"error": "Credenciales inválidas",
		})
	}

	if usuario.MFAEnabled {
		if loginReq.MFACode == "" {
			return c.Status(401).JSON(fiber.Map{
				"error":        "Código MFA requerido",
				"requires_mfa": true,
			})
		}
		if !totp.Validate(loginReq.MFACode, usuario.MFASecret) {
			return c.Status(401).JSON(fiber.Map{
				"error": "Código MFA inválido",
			})
		}
	}

	token, err := h.auth.GenerateJWT(usuario.IDUsuario, usuario.Email, usuario.Rol)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al generar token",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(h.auth.TTL()),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	respuesta := models.LoginResponse{
		Token:     token,
		ExpiresIn: int(h.auth.TTL().Seconds()),
		Usuario: models.UsuarioResponse{
			ID:            usuario.IDUsuario,
			Nombre:        usuario.Nombre,
			Apellido:      usuario.Apellido,
			Email:         usuario.Email,
			Rol:           usuario.Rol,
			AvatarURL:     usuario.AvatarURL,
			MFAEnabled:    usuario.MFAEnabled,
			FechaCreacion: usuario.FechaCreacion,
		},
	}

	return c.JSON(respuesta)
}

// Logout invalida la cookie de sesión
func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"mensaje": "Sesión cerrada exitosamente",
	})
}

// ObtenerPerfil devuelve el perfil del usuario autenticado
func (h *Handler) ObtenerPerfil(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	var usuario models.UsuarioResponse
	err := h.db.QueryRow(context.Background(),
		`SELECT id_usuario, nombre, apellido, email, rol, avatar_url, mfa_enabled, fecha_creacion
		 FROM Usuarios WHERE id_usuario = $1`, userID).Scan(
		&usuario.ID, &usuario.Nombre, &usuario.Apellido, &usuario.Email,
		&usuario.Rol, &usuario.AvatarURL, &usuario.MFAEnabled, &usuario.FechaCreacion)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "Usuario no encontrado",
		})
	}

	return c.JSON(usuario)
}

// SubirAvatar guarda la imagen de perfil de un usuario. Máximo 2 MB, solo
// imágenes. Si la actualización en base de datos falla después de escribir
// el archivo, el archivo huérfano se borra en el mejor esfuerzo.
func (h *Handler) SubirAvatar(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "ID inválido",
		})
	}

	// Solo el propio usuario o un admin pueden cambiar el avatar
	userID := c.Locals("user_id").(int)
	userRol := c.Locals("user_rol").(string)
	if userRol != models.RolAdmin && userID != id {
		return c.Status(403).JSON(fiber.Map{
			"error": "No tienes permisos para cambiar este avatar",
		})
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Archivo de avatar requerido",
		})
	}

	if file.Size > AvatarMaxBytes {
		return c.Status(413).JSON(fiber.Map{
			"error":    "La imagen excede el tamaño máximo permitido",
			"max_size": AvatarMaxBytes,
		})
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return c.Status(400).JSON(fiber.Map{
			"error": "Solo se permiten archivos de imagen",
		})
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".png"
	}
	nombreArchivo := uuid.NewString() + ext
	rutaArchivo := filepath.Join(AvatarDir, nombreArchivo)

	if err := os.MkdirAll(AvatarDir, 0o755); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al preparar el directorio de avatares",
		})
	}
	if err := c.SaveFile(file, rutaArchivo); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al guardar la imagen",
		})
	}

	avatarURL := fmt.Sprintf("/uploads/avatars/%s", nombreArchivo)
	tag, err := h.db.Exec(context.Background(),
		"UPDATE Usuarios SET avatar_url = $1 WHERE id_usuario = $2", avatarURL, id)
	if err != nil || tag.RowsAffected() == 0 {
		os.Remove(rutaArchivo)
		if err != nil {
			return respuestaError(c, err, "Error al actualizar el avatar")
		}
		return c.Status(404).JSON(fiber.Map{
			"error": "Usuario no encontrado",
		})
	}

	return c.JSON(fiber.Map{
		"mensaje":    "Avatar actualizado exitosamente",
		"avatar_url": avatarURL,
	})
}

// SetupMFA genera el secreto TOTP para el usuario autenticado. El MFA
// queda activo cuando el usuario confirma un código con VerifyMFA.
func (h *Handler) SetupMFA(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	var req models.MFASetupRequest
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Contraseña requerida",
		})
	}

	var email, password string
	err := h.db.QueryRow(context.Background(),
		"SELECT email, password FROM Usuarios WHERE id_usuario = $1", userID).Scan(&email, &password)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "Usuario no encontrado",
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{
			"error": "Contraseña incorrecta",
		})
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Sistema Automotriz",
		AccountName: email,
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "Error al generar el secreto MFA",
		})
	}

	_, err = h.db.Exec(context.Background(),
		"UPDATE Usuarios SET mfa_secret = $1, mfa_enabled = false WHERE id_usuario = $2",
		key.Secret(), userID)
	if err != nil {
		return respuestaError(c, err, "Error al guardar el secreto MFA")
	}

	return c.JSON(models.MFASetupResponse{
		Secret:    key.Secret(),
		QRCodeURL: key.URL(),
	})
}

// VerifyMFA confirma el código TOTP y activa el MFA del usuario
func (h *Handler) VerifyMFA(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	var req models.MFAVerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Código requerido",
		})
	}

	var secret string
	err := h.db.QueryRow(context.Background(),
		"SELECT COALESCE(mfa_secret, '') FROM Usuarios WHERE id_usuario = $1", userID).Scan(&secret)
	if err != nil || secret == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "MFA no configurado para este usuario",
		})
	}

	if !totp.Validate(req.Code, secret) {
		return c.Status(401).JSON(fiber.Map{
			"error": "Código MFA inválido",
		})
	}

	_, err = h.db.Exec(context.Background(),
		"UPDATE Usuarios SET mfa_enabled = true WHERE id_usuario = $1", userID)
	if err != nil {
		return respuestaError(c, err, "Error al activar MFA")
	}

	return c.JSON(fiber.Map{
		"mensaje": "MFA activado exitosamente",
	})
}

// DisableMFA desactiva el MFA del usuario autenticado
func (h *Handler) DisableMFA(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	var req models.MFASetupRequest
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Contraseña requerida",
		})
	}

	var password string
	err := h.db.QueryRow(context.Background(),
		"SELECT password FROM Usuarios WHERE id_usuario = $1", userID).Scan(&password)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": "Usuario no encontrado",
		})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{
			"error": "Contraseña incorrecta",
		})
	}

	_, err = h.db.Exec(context.Background(),
		"UPDATE Usuarios SET mfa_enabled = false, mfa_secret = NULL WHERE id_usuario = $1", userID)
	if err != nil {
		return respuestaError(c, err, "Error al desactivar MFA")
	}

	return c.JSON(fiber.Map{
		"mensaje": "MFA desactivado exitosamente",
	})
}
