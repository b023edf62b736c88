package entity

import (
	"time"
)

// HotelRecord mirrors the hotels table. The search path reads it together
// with the aggregated available-rooms count; RoomRecords are only preloaded
// on detail views.
type HotelRecord struct {
	ID          int64        `gorm:"primaryKey"`
	Name        string       `gorm:"size:255;not null;index"`
	Address     string       `gorm:"size:255;not null"`
	City        string       `gorm:"size:100;not null;index"`
	Country     string       `gorm:"size:100;not null;index"`
	Stars       int          `gorm:"not null;index"`
	Description string       `gorm:"type:text"`
	Rooms       []RoomRecord `gorm:"foreignKey:HotelID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (HotelRecord) TableName() string { return "hotels" }

type RoomRecord struct {
	ID          int64   `gorm:"primaryKey"`
	HotelID     int64   `gorm:"not null;index"`
	Name        string  `gorm:"size:255;not null"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"type:decimal(8,2);not null;index"`
	Type        string  `gorm:"size:50;not null;default:standard"`
	IsAvailable bool    `gorm:"not null;default:true"`
	Capacity    int     `gorm:"not null;default:1"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (RoomRecord) TableName() string { return "rooms" }
