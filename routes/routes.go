package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-server/middleware"
	"hotel-booking-server/services"
	"hotel-booking-server/storage"
	ws "hotel-booking-server/websocket"
)

// Package-level collaborators wired once at startup
var (
	orchestrator *services.BookingOrchestrator
	sweeper      *services.ExpirySweeper
	inventory    *services.InventoryService
	proofStore   storage.Store
	hub          *ws.Hub
)

// Deps holds everything the handlers need
type Deps struct {
	Orchestrator *services.BookingOrchestrator
	Sweeper      *services.ExpirySweeper
	Inventory    *services.InventoryService
	ProofStore   storage.Store
	Hub          *ws.Hub
}

// Setup wires the handler collaborators
func Setup(d Deps) {
	orchestrator = d.Orchestrator
	sweeper = d.Sweeper
	inventory = d.Inventory
	proofStore = d.ProofStore
	hub = d.Hub
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")

	RegisterAuthRoutes(apiV1.Group("/auth"))
	RegisterRoomRoutes(apiV1.Group("/rooms"))

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware())
	RegisterBookingRoutes(protected.Group("/bookings"))
	RegisterPaymentRoutes(protected.Group("/payments"))

	admin := apiV1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	RegisterAdminRoutes(admin)

	// Admin dashboards subscribe to booking lifecycle events
	wsGroup := apiV1.Group("/ws")
	wsGroup.Use(middleware.WebSocketAuthMiddleware(), middleware.AdminMiddleware())
	wsGroup.GET("/admin", ws.ServeWS(hub))
}

// respondError translates core domain errors into HTTP responses
func respondError(c *gin.Context, err error) {
	var de *services.DomainError
	if errors.As(err, &de) {
		status := http.StatusInternalServerError
		switch de.Kind {
		case services.KindValidation:
			status = http.StatusBadRequest
		case services.KindConflict:
			status = http.StatusConflict
		case services.KindNotFound:
			status = http.StatusNotFound
		case services.KindStorage:
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": de.Code, "message": de.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "Something went wrong. Please try again.",
	})
}
