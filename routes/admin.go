package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hotel-booking-server/database"
	"hotel-booking-server/models"
	"hotel-booking-server/services"
	ws "hotel-booking-server/websocket"
)

// RegisterAdminRoutes registers admin-only routes
func RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", getDashboard)

	router.GET("/bookings", adminListBookings)
	router.PUT("/bookings/:id/status", adminUpdateBookingStatus)
	router.DELETE("/bookings/:id", adminDeleteBooking)

	router.GET("/payments", adminListPayments)
	router.GET("/payments/:id", adminGetPayment)
	router.POST("/payments/:id/verify", adminVerifyPayment)
	router.POST("/payments/:id/reject", adminRejectPayment)

	router.POST("/rooms", adminCreateRoom)
	router.PUT("/rooms/:id", adminUpdateRoom)
	router.PUT("/rooms/:id/enabled", adminSetRoomEnabled)
	router.DELETE("/rooms/:id", adminDeleteRoom)

	router.GET("/users", adminListUsers)
	router.PUT("/users/:id/role", adminSetUserRole)
}

// getDashboard returns aggregate counts for the admin landing page
func getDashboard(c *gin.Context) {
	var (
		totalBookings   int64
		pendingPayments int64
		confirmedStays  int64
		totalRooms      int64
		totalUsers      int64
		revenue         float64
	)

	database.DB.Model(&models.Booking{}).Count(&totalBookings)
	database.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusProcessing).Count(&pendingPayments)
	database.DB.Model(&models.Booking{}).
		Where("status = ?", models.BookingStatusConfirmed).Count(&confirmedStays)
	database.DB.Model(&models.Room{}).Count(&totalRooms)
	database.DB.Model(&models.User{}).Count(&totalUsers)
	database.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue)

	c.JSON(http.StatusOK, gin.H{
		"total_bookings":   totalBookings,
		"pending_payments": pendingPayments,
		"confirmed_stays":  confirmedStays,
		"total_rooms":      totalRooms,
		"total_users":      totalUsers,
		"total_revenue":    revenue,
	})
}

// adminListBookings lists all bookings, optionally filtered by status
func adminListBookings(c *gin.Context) {
	query := database.DB.Preload("User").Preload("Room").Preload("Payment")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Order("created_at desc").Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}

// adminUpdateBookingStatus cancels or completes a booking on behalf of staff.
// Payment decisions go through the verify/reject endpoints, never through here.
func adminUpdateBookingStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "message": err.Error()})
		return
	}

	var booking *models.Booking
	switch models.BookingStatus(req.Status) {
	case models.BookingStatusCancelled:
		booking, err = orchestrator.CancelBooking(uint(id), 0, true, req.Notes)
	case models.BookingStatusCompleted:
		booking, err = orchestrator.CompleteBooking(uint(id), req.Notes)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be cancelled or completed"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking " + booking.BookingCode + " updated",
		"booking": booking,
	})
}

// adminDeleteBooking removes a booking record. Only bookings that never got a
// payment row can be deleted; anything else must be cancelled so the paper
// trail survives.
func adminDeleteBooking(c *gin.Context) {
	var booking models.Booking
	if err := database.DB.First(&booking, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	var paymentCount int64
	database.DB.Model(&models.Payment{}).Where("booking_id = ?", booking.ID).Count(&paymentCount)
	if paymentCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "booking_has_payment",
			"message": "Bookings with payment records must be cancelled, not deleted",
		})
		return
	}

	if err := database.DB.Delete(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete booking"})
		return
	}

	log.Printf("🗑️ Booking %s deleted by admin", booking.BookingCode)
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}

// adminListPayments lists payments with per-status counts for the review queue
func adminListPayments(c *gin.Context) {
	query := database.DB.Preload("Booking").Preload("Booking.User").Preload("Booking.Room")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var payments []models.Payment
	if err := query.Order("created_at desc").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	counts := gin.H{}
	for _, s := range []models.PaymentStatus{
		models.PaymentStatusPending,
		models.PaymentStatusProcessing,
		models.PaymentStatusCompleted,
		models.PaymentStatusFailed,
		models.PaymentStatusExpired,
	} {
		var n int64
		database.DB.Model(&models.Payment{}).Where("status = ?", s).Count(&n)
		counts[string(s)] = n
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "status_counts": counts})
}

// adminGetPayment returns one payment with its booking and proof URL
func adminGetPayment(c *gin.Context) {
	var payment models.Payment
	if err := database.DB.Preload("Booking").Preload("Booking.User").Preload("Booking.Room").
		First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	resp := gin.H{"payment": payment}
	if payment.ProofRef != nil {
		resp["proof_url"] = proofStore.URL(*payment.ProofRef)
	}
	c.JSON(http.StatusOK, resp)
}

// adminVerifyPayment approves a submitted proof: payment completed, booking
// confirmed, unit stays held
func adminVerifyPayment(c *gin.Context) {
	decidePayment(c, services.ActionVerify)
}

// adminRejectPayment declines a submitted proof: payment failed, booking
// cancelled, unit released
func adminRejectPayment(c *gin.Context) {
	decidePayment(c, services.ActionReject)
}

func decidePayment(c *gin.Context, action services.DecideAction) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment id"})
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	c.ShouldBindJSON(&req) // notes are optional

	booking, err := orchestrator.DecidePayment(uint(id), action, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	hub.Notify(ws.Event{
		Type:        "payment_decided",
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		PaymentID:   uint(id),
		Status:      string(booking.Status),
		Message:     "Payment decision recorded for booking " + booking.BookingCode,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment decision recorded",
		"booking": booking,
	})
}

// RoomRequest is the admin create/update payload for a room
type RoomRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	RoomType    string   `json:"room_type"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Capacity    int      `json:"capacity" binding:"required,gt=0"`
	Size        int      `json:"size"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
	UnitTotal   int      `json:"unit_total" binding:"required,gt=0"`
}

// adminCreateRoom adds a room to the catalog with a full unit pool
func adminCreateRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room data", "message": err.Error()})
		return
	}

	room := models.Room{
		Name:          req.Name,
		Description:   req.Description,
		RoomType:      req.RoomType,
		Price:         req.Price,
		Capacity:      req.Capacity,
		Size:          req.Size,
		Amenities:     req.Amenities,
		Images:        req.Images,
		UnitTotal:     req.UnitTotal,
		UnitAvailable: req.UnitTotal,
		Enabled:       true,
	}
	room.RecomputeListed()

	if err := database.DB.Create(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	log.Printf("🏨 Room %q created with %d units", room.Name, room.UnitTotal)
	c.JSON(http.StatusCreated, gin.H{"room": room})
}

// adminUpdateRoom edits catalog fields. Growing unit_total grows
// unit_available by the same amount; shrinking clamps availability so held
// units are never conjured back.
func adminUpdateRoom(c *gin.Context) {
	var room models.Room
	if err := database.DB.First(&room, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room data", "message": err.Error()})
		return
	}

	held := room.UnitTotal - room.UnitAvailable
	room.Name = req.Name
	room.Description = req.Description
	room.RoomType = req.RoomType
	room.Price = req.Price
	room.Capacity = req.Capacity
	room.Size = req.Size
	room.Amenities = req.Amenities
	room.Images = req.Images
	room.UnitTotal = req.UnitTotal
	room.UnitAvailable = req.UnitTotal - held
	if room.UnitAvailable < 0 {
		room.UnitAvailable = 0
	}
	room.RecomputeListed()

	if err := database.DB.Save(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room})
}

// adminSetRoomEnabled toggles the manual listing switch
func adminSetRoomEnabled(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room id"})
		return
	}

	var req struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled flag is required"})
		return
	}

	var room *models.Room
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		room, txErr = inventory.SetEnabled(tx, uint(id), *req.Enabled)
		return txErr
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room})
}

// adminDeleteRoom removes a room that has no active bookings holding its units
func adminDeleteRoom(c *gin.Context) {
	var room models.Room
	if err := database.DB.First(&room, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	var active int64
	database.DB.Model(&models.Booking{}).
		Where("room_id = ? AND status IN ?", room.ID,
			[]models.BookingStatus{
				models.BookingStatusPending,
				models.BookingStatusWaitingPayment,
				models.BookingStatusConfirmed,
			}).Count(&active)
	if active > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "room_has_active_bookings",
			"message": "Cancel or complete the room's bookings before deleting it",
		})
		return
	}

	if err := database.DB.Delete(&room).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
		return
	}

	log.Printf("🗑️ Room %q deleted by admin", room.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
}

// adminListUsers lists all accounts
func adminListUsers(c *gin.Context) {
	var users []models.User
	if err := database.DB.Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// adminSetUserRole promotes or demotes an account
func adminSetUserRole(c *gin.Context) {
	var req struct {
		Role models.UserRole `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be user or admin"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := database.DB.Model(&user).Update("role", req.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}

	user.Role = req.Role
	c.JSON(http.StatusOK, gin.H{"user": user})
}
