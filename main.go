package main

import (
	"fmt"
	"log"

	"carwash-backend/config"
	"carwash-backend/models"
	"carwash-backend/routes"
	"carwash-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	db, err := config.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Employee{},
		&models.LineItem{},
		&models.Commission{},
		&models.Transaction{},
		&models.PendingService{},
		&models.Appointment{},
		&models.AppointmentReminder{},
		&models.ReminderLog{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	services.NewReminderService(db, cfg).StartScheduler()

	r := routes.SetupRouter(cfg, db)
	printRoutes(r)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
