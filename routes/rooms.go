package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-server/database"
	"hotel-booking-server/models"
)

// RegisterRoomRoutes registers public room catalog routes
func RegisterRoomRoutes(router *gin.RouterGroup) {
	router.GET("", listRooms)
	router.GET("/:id", getRoom)
}

// roomView decorates a room with its availability text for the catalog
type roomView struct {
	models.Room
	AvailabilityText string `json:"availability_text"`
}

// listRooms returns all currently listed rooms
func listRooms(c *gin.Context) {
	var rooms []models.Room
	if err := database.DB.Where("is_listed = ?", true).Order("price asc").Find(&rooms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	views := make([]roomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, roomView{Room: room, AvailabilityText: room.AvailabilityText()})
	}

	c.JSON(http.StatusOK, gin.H{"rooms": views})
}

// getRoom returns one room with availability info
func getRoom(c *gin.Context) {
	var room models.Room
	if err := database.DB.First(&room, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, roomView{Room: room, AvailabilityText: room.AvailabilityText()})
}
