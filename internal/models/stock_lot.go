package models

import "time"

// StockLot: one recorded addition of inventory for a rubber type. Multiple
// lots of the same type may exist; aggregation happens at query time by
// RubberID.
type StockLot struct {
	ID            uint    `gorm:"primaryKey"`
	RubberName    string  `gorm:"size:100;not null"`
	RubberID      int     `gorm:"index;not null"`
	NumberOfRolls int     `gorm:"not null"` // never negative
	WeightKg      float64 `gorm:"not null"` // never negative
	Cost          float64 `gorm:"not null"` // acquisition cost
	AddedAt       time.Time `gorm:"index;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
