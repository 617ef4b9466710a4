package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"hotel-booking-server/config"
	"hotel-booking-server/database"
	"hotel-booking-server/jobs"
	"hotel-booking-server/middleware"
	"hotel-booking-server/models"
	"hotel-booking-server/routes"
	"hotel-booking-server/services"
	"hotel-booking-server/storage"
	ws "hotel-booking-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()
	cfg := config.AppConfig

	gin.SetMode(cfg.Server.GinMode)

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	if err := seedRooms(); err != nil {
		log.Printf("⚠️ Room seeding skipped: %v", err)
	}

	// Payment proof storage backend
	proofStore, err := buildProofStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize proof storage:", err)
	}

	// Core services
	holdWindow := time.Duration(cfg.Booking.HoldWindowHours) * time.Hour
	inventory := services.NewInventoryService()
	bookings := services.NewBookingService(inventory)
	payments := services.NewPaymentService()
	sweeper := services.NewExpirySweeper(bookings, payments, holdWindow)
	orchestrator := services.NewBookingOrchestrator(
		database.DB, inventory, bookings, payments, proofStore,
		cfg.Booking.CodePrefix, holdWindow,
	)

	// WebSocket hub for admin dashboard notifications
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Both the lazy on-read sweep and the background job go through the
	// sweeper, so this hook covers every expiry path
	sweeper.OnExpired(func(b *models.Booking) {
		hub.Notify(ws.Event{
			Type:        "booking_expired",
			BookingID:   b.ID,
			BookingCode: b.BookingCode,
			Status:      string(b.Status),
			Message:     "Booking hold window elapsed, unit released",
		})
	})

	// Background expiry sweep alongside the lazy on-read sweep
	if cfg.Booking.ExpiryJobEnabled {
		job := jobs.NewExpirationJob(sweeper, time.Duration(cfg.Booking.ExpiryJobMinutes)*time.Minute)
		job.Start()
		defer job.Stop()
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.InputValidationMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Locally stored proofs are served straight from disk
	if cfg.Storage.Backend == "local" {
		router.Static("/uploads/payments", cfg.Storage.UploadDir)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	routes.Setup(routes.Deps{
		Orchestrator: orchestrator,
		Sweeper:      sweeper,
		Inventory:    inventory,
		ProofStore:   proofStore,
		Hub:          hub,
	})
	routes.RegisterRoutes(router)

	log.Printf("🚀 Server starting on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// buildProofStore selects the payment-proof storage backend from config
func buildProofStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Backend == "cloudinary" {
		log.Println("☁️ Using Cloudinary proof storage")
		return storage.NewCloudinaryStore(cfg.Storage.CloudName, cfg.Storage.APIKey, cfg.Storage.APISecret, "payment_proofs")
	}
	log.Printf("📁 Using local proof storage at %s", cfg.Storage.UploadDir)
	return storage.NewLocalStore(cfg.Storage.UploadDir, "/uploads/payments")
}
