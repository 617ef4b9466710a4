package main

import (
	"log"
	"os"

	"hotel-booking-server/database"
	"hotel-booking-server/models"
	"hotel-booking-server/utils"
)

// seedRooms inserts a starter catalog and a default admin account on an empty
// database. A database with any rooms already in it is left untouched.
func seedRooms() error {
	var count int64
	if err := database.DB.Model(&models.Room{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rooms := []models.Room{
		{
			Name:          "Deluxe Garden View",
			Description:   "Spacious room overlooking the tropical garden, with a private balcony.",
			RoomType:      "deluxe",
			Price:         500000,
			Capacity:      2,
			Size:          32,
			Amenities:     models.StringList{"AC", "WiFi", "TV", "Mini Bar", "Balcony"},
			UnitTotal:     5,
			UnitAvailable: 5,
			Enabled:       true,
		},
		{
			Name:          "Superior Twin",
			Description:   "Comfortable twin room ideal for friends or colleagues travelling together.",
			RoomType:      "superior",
			Price:         350000,
			Capacity:      2,
			Size:          26,
			Amenities:     models.StringList{"AC", "WiFi", "TV"},
			UnitTotal:     8,
			UnitAvailable: 8,
			Enabled:       true,
		},
		{
			Name:          "Family Suite",
			Description:   "Two-bedroom suite with a living area, sleeps up to five guests.",
			RoomType:      "suite",
			Price:         1200000,
			Capacity:      5,
			Size:          64,
			Amenities:     models.StringList{"AC", "WiFi", "TV", "Kitchenette", "Bathtub", "Living Room"},
			UnitTotal:     2,
			UnitAvailable: 2,
			Enabled:       true,
		},
	}

	for i := range rooms {
		rooms[i].RecomputeListed()
		if err := database.DB.Create(&rooms[i]).Error; err != nil {
			return err
		}
	}
	log.Printf("🌱 Seeded %d rooms", len(rooms))

	return seedAdmin()
}

// seedAdmin creates the default admin account if no admin exists yet
func seedAdmin() error {
	var count int64
	if err := database.DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Println("⚠️ ADMIN_PASSWORD not set, using default password")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		FirstName:    "Admin",
		Email:        "admin@hotel.local",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("🌱 Seeded default admin account")
	return nil
}
