package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/models"
)

// RequestLogger registra cada petición HTTP en la tabla logs
type RequestLogger struct {
	db *pgxpool.Pool
}

// NewRequestLogger crea el logger de peticiones sobre el pool dado
func NewRequestLogger(db *pgxpool.Pool) *RequestLogger {
	return &RequestLogger{db: db}
}

// Middleware captura la petición y la guarda de forma asíncrona
func (l *RequestLogger) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		responseTime := int(time.Since(start).Milliseconds())
		logEntry := l.createLogEntry(c, responseTime)

		// Guardar en base de datos sin bloquear la respuesta
		go l.save(logEntry)

		return err
	}
}

// createLogEntry arma la entrada de log a partir de la petición
func (l *RequestLogger) createLogEntry(c *fiber.Ctx, responseTime int) models.CreateLogRequest {
	var email, rol *string
	if userEmail := c.Locals("user_email"); userEmail != nil {
		if emailStr, ok := userEmail.(string); ok {
			email = &emailStr
		}
	}
	if userRol := c.Locals("user_rol"); userRol != nil {
		if rolStr, ok := userRol.(string); ok {
			rol = &rolStr
		}
	}

	// IP real del cliente detrás de un proxy
	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	userAgent := c.Get("User-Agent")
	var userAgentPtr *string
	if userAgent != "" {
		userAgentPtr = &userAgent
	}

	// Body solo para métodos con cuerpo, con campos sensibles filtrados
	var bodyPtr *string
	if c.Method() == "POST" || c.Method() == "PUT" || c.Method() == "PATCH" {
		if body := string(c.Body()); body != "" {
			filtered := FilterSensitiveData(body)
			bodyPtr = &filtered
		}
	}

	var queryPtr *string
	if queryStr := string(c.Request().URI().QueryString()); queryStr != "" {
		queryPtr = &queryStr
	}

	logLevel := determineLogLevel(c.Response().StatusCode())

	return models.CreateLogRequest{
		Method:       c.Method(),
		Path:         c.Path(),
		StatusCode:   c.Response().StatusCode(),
		ResponseTime: &responseTime,
		UserAgent:    userAgentPtr,
		IP:           ip,
		Body:         bodyPtr,
		Query:        queryPtr,
		Email:        email,
		Rol:          rol,
		LogLevel:     &logLevel,
		Environment:  getEnvironment(),
	}
}

// FilterSensitiveData reemplaza campos sensibles del body antes de guardarlo
func FilterSensitiveData(body string) string {
	sensitiveFields := []string{"password", "mfa_code", "secret", "token"}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		// Si no es JSON válido, guardar truncado
		if len(body) > 1000 {
			return body[:1000] + "...[truncated]"
		}
		return body
	}

	for _, field := range sensitiveFields {
		if _, exists := data[field]; exists {
			data[field] = "[FILTERED]"
		}
	}

	filteredJSON, _ := json.Marshal(data)
	filteredBody := string(filteredJSON)

	if len(filteredBody) > 1000 {
		return filteredBody[:1000] + "...[truncated]"
	}
	return filteredBody
}

// determineLogLevel determina el nivel de log según el status code
func determineLogLevel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return models.LogLevelSuccess
	case statusCode >= 300 && statusCode < 400:
		return models.LogLevelInfo
	case statusCode >= 400 && statusCode < 500:
		return models.LogLevelWarning
	case statusCode >= 500:
		return models.LogLevelError
	default:
		return models.LogLevelInfo
	}
}

// save inserta la entrada en la tabla logs
func (l *RequestLogger) save(logEntry models.CreateLogRequest) {
	if l.db == nil {
		return
	}

	query := `
		INSERT INTO logs (
			method, path, status_code, response_time, user_agent, ip,
			body, query, email, rol, log_level, environment, timestamp
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err := l.db.Exec(context.Background(), query,
		logEntry.Method,
		logEntry.Path,
		logEntry.StatusCode,
		logEntry.ResponseTime,
		logEntry.UserAgent,
		logEntry.IP,
		logEntry.Body,
		logEntry.Query,
		logEntry.Email,
		logEntry.Rol,
		logEntry.LogLevel,
		logEntry.Environment,
		time.Now(),
	)
	if err != nil {
		fmt.Printf("Error guardando log en base de datos: %v\n", err)
	}
}

// LogEvento registra un evento de negocio (cita creada, servicio borrado, etc.)
func (l *RequestLogger) LogEvento(level, message, userEmail, userRol string, additionalData map[string]interface{}) {
	logEntry := models.CreateLogRequest{
		Method:      "EVENT",
		Path:        "/evento",
		StatusCode:  200,
		IP:          "127.0.0.1",
		LogLevel:    &level,
		Environment: getEnvironment(),
	}

	if userEmail != "" {
		logEntry.Email = &userEmail
	}
	if userRol != "" {
		logEntry.Rol = &userRol
	}

	if additionalData != nil {
		additionalData["message"] = message
		bodyJSON, _ := json.Marshal(additionalData)
		bodyStr := string(bodyJSON)
		logEntry.Body = &bodyStr
	} else {
		logEntry.Body = &message
	}

	go l.save(logEntry)
}

func getEnvironment() *string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = models.EnvironmentDevelopment
	}
	return &env
}
