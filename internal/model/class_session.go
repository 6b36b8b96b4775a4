package model

import "time"

// ClassSession represents one weekly class meeting occupying a room. Times
// are minutes since midnight; StartDate/EndDate bound the validity of the
// weekly cycle (zero values mean unbounded).
type ClassSession struct {
	ID            int64  `gorm:"primaryKey"`
	BuildingID    int64  `gorm:"index;not null"`
	Room          string `gorm:"size:64;not null"`
	Subject       string `gorm:"size:32"`
	CatalogNumber string `gorm:"size:32"`
	Section       string `gorm:"size:32"`
	CourseTitle   string `gorm:"size:256"`
	Instructors   string `gorm:"size:512"` // semicolon-separated display names
	Capacity      int
	Monday        bool `gorm:"not null"`
	Tuesday       bool `gorm:"not null"`
	Wednesday     bool `gorm:"not null"`
	Thursday      bool `gorm:"not null"`
	Friday        bool `gorm:"not null"`
	Saturday      bool `gorm:"not null"`
	Sunday        bool `gorm:"not null"`
	StartMinute   int  `gorm:"not null"`
	EndMinute     int  `gorm:"not null"`
	StartDate     time.Time
	EndDate       time.Time
	CreatedAt     time.Time

	// Associations
	Building Building `gorm:"constraint:OnDelete:CASCADE"`
}
