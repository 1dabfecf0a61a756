package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/GiamMoon/SistemaAutomotriz-sub000/database"
	"github.com/GiamMoon/SistemaAutomotriz-sub000/handlers"
	"github.com/GiamMoon/SistemaAutomotriz-sub000/middleware"
	"github.com/GiamMoon/SistemaAutomotriz-sub000/routes"
)

func main() {
	// Cargar variables de entorno
	if err := godotenv.Load(); err != nil {
		log.Println("Advertencia: No se pudo cargar el archivo .env")
	}

	// Conectar a la base de datos
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Error al conectar a la base de datos: %v", err)
	}
	defer db.Close()
	log.Println("Conexión a la base de datos establecida")

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET no está configurado")
	}

	auth := middleware.NewAuth(secret)
	reqLogger := middleware.NewRequestLogger(db)
	h := handlers.New(db, auth, reqLogger)

	// Crear instancia de Fiber con configuración
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
		AppName: "Sistema Automotriz API v1.0.0",
	})

	// Configurar rutas
	routes.SetupRoutes(app, h, auth, reqLogger)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error":   "Ruta no encontrada",
			"message": "La ruta solicitada no existe en este servidor",
			"path":    c.Path(),
			"method":  c.Method(),
		})
	})

	// Obtener puerto del entorno o usar 3000 por defecto
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Servidor Sistema Automotriz iniciado en puerto %s", port)
	log.Fatal(app.Listen(":" + port))
}
