package services

import (
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-server/models"
)

// InventoryService owns the per-room unit counters. Every operation takes the
// Room row under an exclusive lock (SELECT ... FOR UPDATE) inside the caller's
// transaction, so concurrent reservations against the last unit cannot both
// succeed. Availability is always re-read under the lock; nothing is cached
// across requests.
type InventoryService struct{}

func NewInventoryService() *InventoryService {
	return &InventoryService{}
}

// lockRoom loads the room row with an exclusive row lock held until tx ends
func (s *InventoryService) lockRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	var room models.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Reserve holds one unit of the room. Fails with ErrRoomUnavailable unless the
// room is listed and has un-held units. Returns the room with the
// post-decrement count.
func (s *InventoryService) Reserve(tx *gorm.DB, roomID uint) (*models.Room, error) {
	room, err := s.lockRoom(tx, roomID)
	if err != nil {
		return nil, err
	}

	if !room.IsListed || room.UnitAvailable <= 0 {
		return nil, ErrRoomUnavailable
	}

	room.UnitAvailable--
	room.RecomputeListed()

	if err := tx.Model(room).Select("unit_available", "is_listed").
		Updates(map[string]interface{}{
			"unit_available": room.UnitAvailable,
			"is_listed":      room.IsListed,
		}).Error; err != nil {
		return nil, err
	}

	log.Printf("📉 Room %d reserved, %d/%d units available", room.ID, room.UnitAvailable, room.UnitTotal)
	return room, nil
}

// Release returns one unit to the pool, clamped at unit_total so a
// double-release can never push the count past the physical room count.
func (s *InventoryService) Release(tx *gorm.DB, roomID uint) (*models.Room, error) {
	room, err := s.lockRoom(tx, roomID)
	if err != nil {
		return nil, err
	}

	if room.UnitAvailable < room.UnitTotal {
		room.UnitAvailable++
	}
	room.RecomputeListed()

	if err := tx.Model(room).Select("unit_available", "is_listed").
		Updates(map[string]interface{}{
			"unit_available": room.UnitAvailable,
			"is_listed":      room.IsListed,
		}).Error; err != nil {
		return nil, err
	}

	log.Printf("📈 Room %d released, %d/%d units available", room.ID, room.UnitAvailable, room.UnitTotal)
	return room, nil
}

// RefreshListed recomputes the listed flag from the current count without
// touching unit_available. Used when a booking is confirmed: the unit stays
// held through the stay.
func (s *InventoryService) RefreshListed(tx *gorm.DB, roomID uint) error {
	room, err := s.lockRoom(tx, roomID)
	if err != nil {
		return err
	}

	room.RecomputeListed()
	return tx.Model(room).Select("is_listed").
		Update("is_listed", room.IsListed).Error
}

// SetEnabled is the administrative override: manually enable or disable a room
// independent of its count. The listed flag is still derived from both.
func (s *InventoryService) SetEnabled(tx *gorm.DB, roomID uint, enabled bool) (*models.Room, error) {
	room, err := s.lockRoom(tx, roomID)
	if err != nil {
		return nil, err
	}

	room.Enabled = enabled
	room.RecomputeListed()

	if err := tx.Model(room).Select("enabled", "is_listed").
		Updates(map[string]interface{}{
			"enabled":   room.Enabled,
			"is_listed": room.IsListed,
		}).Error; err != nil {
		return nil, err
	}

	return room, nil
}
