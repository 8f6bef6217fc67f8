package models

import "time"

// StockCategory: user-maintained rubber type lookup. RubberID is the
// externally assigned number used to join lots and sales of the same type,
// not the surrogate key.
type StockCategory struct {
	ID         uint   `gorm:"primaryKey"`
	RubberName string `gorm:"size:100;not null"`
	RubberID   int    `gorm:"index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
