package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPending PaymentStatus = "PENDING"
)

// Sale: one sale of rolls to a dealer. PaymentReceivedAt is set exactly when
// the status is PAID.
type Sale struct {
	ID                uint          `gorm:"primaryKey"`
	RubberName        string        `gorm:"size:100;not null"`
	RubberID          int           `gorm:"index;not null"`
	DealerName        string        `gorm:"size:100;not null"`
	NumberOfRolls     int           `gorm:"not null"`
	WeightKg          float64       `gorm:"not null"`
	Amount            float64       `gorm:"not null"` // sale amount
	SaleDate          time.Time     `gorm:"index;not null"`
	PaymentStatus     PaymentStatus `gorm:"size:10;not null;default:PENDING;index"`
	PaymentReceivedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
