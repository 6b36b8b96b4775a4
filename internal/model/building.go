package model

import "time"

// Building represents a campus building with a fixed coordinate.
type Building struct {
	ID        int64   `gorm:"primaryKey"`
	Name      string  `gorm:"uniqueIndex;size:128;not null"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Rooms []Room `gorm:"foreignKey:BuildingID"`
}

// Room represents a single room within a building. Capacity is informational
// only; it never affects availability.
type Room struct {
	ID         int64  `gorm:"primaryKey"`
	BuildingID int64  `gorm:"uniqueIndex:idx_room_building_name;not null"`
	Name       string `gorm:"uniqueIndex:idx_room_building_name;size:64;not null"`
	Capacity   int

	// Associations
	Building Building `gorm:"constraint:OnDelete:CASCADE"`
}
