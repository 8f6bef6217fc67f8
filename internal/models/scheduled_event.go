package models

import "time"

// ScheduledEvent: calendar entry with an optional reminder. NotifyAt may be
// before EventDate; the reminder fires once at NotifyAt.
type ScheduledEvent struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:100;not null"`
	Description string    `gorm:"size:500"`
	EventDate   time.Time `gorm:"index;not null"`
	NotifyAt    time.Time `gorm:"not null"`
	IsCompleted bool      `gorm:"default:false;index"`
	Notes       string    `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
