package models

import "time"

// StockDraft: a staged incoming shipment. Items are appended while the truck
// is unloaded; on commit every item becomes a StockLot and the draft is
// deleted.
type StockDraft struct {
	ID            uint      `gorm:"primaryKey"`
	SupplierName  string    `gorm:"size:100;not null"`
	VehicleNumber string    `gorm:"size:30"`
	DraftDate     time.Time `gorm:"index;not null"`
	Notes         string    `gorm:"size:500"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Items []DraftItem `gorm:"foreignKey:DraftID;constraint:OnDelete:CASCADE"`
}

// DraftItem: one line of a draft. Ordering is insertion order (id).
type DraftItem struct {
	ID            uint      `gorm:"primaryKey"`
	DraftID       uint      `gorm:"index;not null"`
	CategoryID    uint      `gorm:"not null"`
	RubberName    string    `gorm:"size:100;not null"`
	RubberID      int       `gorm:"not null"`
	NumberOfRolls int       `gorm:"not null"`
	WeightKg      float64   `gorm:"not null"`
	Cost          float64   `gorm:"not null"`
	AddedAt       time.Time `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
