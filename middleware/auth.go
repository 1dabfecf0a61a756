package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCookie es el nombre de la cookie que transporta el token de sesión
const TokenCookie = "session_token"

// Claims personalizados para el JWT
type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

// Auth agrupa la clave de firma; se construye una sola vez en main con el
// secreto tomado del entorno y se aplica de forma uniforme en las rutas.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

// NewAuth crea el verificador de tokens con la clave de firma dada
func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret), ttl: 24 * time.Hour}
}

// TTL devuelve la vigencia configurada del token
func (a *Auth) TTL() time.Duration {
	return a.ttl
}

// GenerateJWT genera un token JWT para un usuario
func (a *Auth) GenerateJWT(userID int, email, rol string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		Rol:    rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseJWT valida un token y devuelve sus claims
func (a *Auth) ParseJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Middleware valida el token JWT del header Authorization o de la cookie
// de sesión y deja la identidad del usuario en el contexto de la petición.
func (a *Auth) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if authHeader := c.Get("Authorization"); authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return c.Status(401).JSON(fiber.Map{
					"error": "Formato de token inválido",
				})
			}
		} else if cookie := c.Cookies(TokenCookie); cookie != "" {
			tokenString = cookie
		}

		if tokenString == "" {
			return c.Status(401).JSON(fiber.Map{
				"error": "Token de autorización requerido",
			})
		}

		claims, err := a.ParseJWT(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{
				"error": "Token inválido",
			})
		}

		// Guardar información del usuario en el contexto
		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user_rol", claims.Rol)

		return c.Next()
	}
}

// RequireRole exige que el usuario autenticado tenga uno de los roles dados
func (a *Auth) RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRol, ok := c.Locals("user_rol").(string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{
				"error": "Rol de usuario no encontrado",
			})
		}

		for _, rol := range allowedRoles {
			if userRol == rol {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Acceso denegado: permisos insuficientes",
		})
	}
}
