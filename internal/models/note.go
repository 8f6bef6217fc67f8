package models

import "time"

// Note: free-form note with a display color (hex string).
type Note struct {
	ID        uint   `gorm:"primaryKey"`
	Title     string `gorm:"size:100;not null"`
	Content   string `gorm:"type:text"`
	Color     string `gorm:"size:9;default:#FFF59D"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}
