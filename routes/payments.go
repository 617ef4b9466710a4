package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-server/database"
	"hotel-booking-server/models"
)

// RegisterPaymentRoutes registers payment routes (behind auth)
func RegisterPaymentRoutes(router *gin.RouterGroup) {
	router.GET("", getMyPayments)
	router.GET("/:id/proof", getPaymentProof)
}

// getMyPayments lists the caller's payments, newest first
func getMyPayments(c *gin.Context) {
	userID := c.GetUint("user_id")

	var payments []models.Payment
	if err := database.DB.Preload("Booking").
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Where("bookings.user_id = ?", userID).
		Order("payments.created_at desc").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// getPaymentProof resolves the stored proof reference into a URL. Owners and
// admins only; the raw storage reference is never exposed.
func getPaymentProof(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("role")

	var payment models.Payment
	if err := database.DB.Preload("Booking").First(&payment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	if role != string(models.RoleAdmin) && payment.Booking.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if payment.ProofRef == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No proof uploaded for this payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"proof_url": proofStore.URL(*payment.ProofRef)})
}
