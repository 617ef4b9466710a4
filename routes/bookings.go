package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hotel-booking-server/database"
	"hotel-booking-server/models"
	"hotel-booking-server/services"
	ws "hotel-booking-server/websocket"
)

const dateLayout = "2006-01-02"

// CreateBookingRequest represents the booking creation payload
type CreateBookingRequest struct {
	RoomID          uint   `json:"room_id" binding:"required"`
	CheckIn         string `json:"check_in" binding:"required"`  // YYYY-MM-DD
	CheckOut        string `json:"check_out" binding:"required"` // YYYY-MM-DD
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"special_requests"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	GuestCountry    string `json:"guest_country"`
}

// RegisterBookingRoutes registers booking routes (behind auth)
func RegisterBookingRoutes(router *gin.RouterGroup) {
	router.POST("", createBooking)
	router.GET("", getMyBookings)
	router.GET("/:id", getBooking)
	router.POST("/:id/cancel", cancelBooking)
	router.POST("/:id/payment", submitPayment)
}

// createBooking runs the create-booking workflow: reserve a unit, price the
// stay, insert the booking and its pending payment in one transaction
func createBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid booking data",
			"message": err.Error(),
		})
		return
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-in date format, use YYYY-MM-DD"})
		return
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid check-out date format, use YYYY-MM-DD"})
		return
	}

	booking, err := orchestrator.CreateBooking(userID, services.CreateBookingInput{
		RoomID:          req.RoomID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		GuestCountry:    req.GuestCountry,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	hub.Notify(ws.Event{
		Type:        "booking_created",
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		Status:      string(booking.Status),
		Message:     "New booking awaiting payment",
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking successful! Please complete payment within 24 hours.",
		"booking": booking,
	})
}

// bookingView decorates a booking with hold-window countdown info
type bookingView struct {
	models.Booking
	IsExpired        bool   `json:"is_expired"`
	ExpiryTime       string `json:"expiry_time"`
	CountdownSeconds int64  `json:"countdown_seconds"`
}

// presentBooking applies the lazy expiry sweep and builds the response view.
// Reading an overdue booking is what lapses it; the sweep is idempotent so
// concurrent reads release the unit exactly once.
func presentBooking(booking *models.Booking) bookingView {
	if sweeper.Due(booking, time.Now()) {
		if _, err := sweeper.SweepBooking(database.DB, booking.ID); err != nil {
			log.Printf("❌ Error auto-expiring booking %d: %v", booking.ID, err)
		} else if err := database.DB.Preload("Payment").First(booking, booking.ID).Error; err != nil {
			// The sweep may have lapsed the booking and its payment; a failed
			// re-read means the view below could show pre-sweep status
			log.Printf("❌ Error reloading booking %d after expiry sweep: %v", booking.ID, err)
		}
	}

	expiry := booking.HoldExpiresAt(sweeper.HoldWindow())
	left := time.Until(expiry)

	view := bookingView{
		Booking:    *booking,
		ExpiryTime: expiry.Format("02 Jan 2006 15:04"),
	}
	if left > 0 && booking.Status == models.BookingStatusWaitingPayment {
		view.CountdownSeconds = int64(left.Seconds())
	} else if booking.Status == models.BookingStatusExpired {
		view.IsExpired = true
	}
	return view
}

// getMyBookings lists the caller's bookings, newest first
func getMyBookings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var bookings []models.Booking
	if err := database.DB.Preload("Room").Preload("Payment").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	views := make([]bookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, presentBooking(&bookings[i]))
	}

	c.JSON(http.StatusOK, gin.H{"bookings": views})
}

// getBooking returns one of the caller's bookings with payment details
func getBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	var booking models.Booking
	if err := database.DB.Preload("Room").Preload("Payment").
		Where("id = ? AND user_id = ?", c.Param("id"), userID).
		First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, presentBooking(&booking))
}

// cancelBooking cancels one of the caller's bookings and frees its unit
func cancelBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	c.ShouldBindJSON(&req) // reason is optional

	booking, err := orchestrator.CancelBooking(uint(id), userID, false, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking " + booking.BookingCode + " cancelled successfully.",
		"booking": booking,
	})
}

// submitPayment accepts a multipart proof upload for one of the caller's
// bookings and moves its payment to processing
func submitPayment(c *gin.Context) {
	userID := c.GetUint("user_id")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	method := models.PaymentMethod(c.PostForm("payment_method"))

	header, err := c.FormFile("payment_proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected."})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	payment, err := orchestrator.SubmitPayment(c.Request.Context(), userID, uint(id), method, header.Filename, header.Size, file)
	if err != nil {
		respondError(c, err)
		return
	}

	hub.Notify(ws.Event{
		Type:      "payment_submitted",
		BookingID: payment.BookingID,
		PaymentID: payment.ID,
		Status:    string(payment.Status),
		Message:   "Payment proof uploaded, awaiting verification",
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment proof uploaded successfully! Admin will verify within 1-2 hours.",
		"payment": payment,
	})
}
