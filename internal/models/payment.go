package models

import "time"

// PaymentType - direction of a ledger entry
type PaymentType string

const (
	PaymentTypeIncoming PaymentType = "INCOMING" // to receive from dealers
	PaymentTypeOutgoing PaymentType = "OUTGOING" // to pay to factories
)

// Payment - running balance owed to or by a counterparty, paid down over
// time via PaymentTransactions.
type Payment struct {
	ID          uint        `gorm:"primaryKey"`
	Type        PaymentType `gorm:"type:varchar(20);not null;index"`
	PartyName   string      `gorm:"size:100;not null"`
	TotalAmount float64     `gorm:"not null"`
	PaidAmount  float64     `gorm:"not null;default:0"`
	DueDate     time.Time   `gorm:"index;not null"`
	Remark      string      `gorm:"size:255"`
	Notes       string      `gorm:"size:500"`
	IsFullyPaid bool        `gorm:"default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Transactions []PaymentTransaction `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE"`
}

// PendingAmount is the remaining balance.
func (p *Payment) PendingAmount() float64 {
	return p.TotalAmount - p.PaidAmount
}

// Progress returns paid/total in [0,1].
func (p *Payment) Progress() float64 {
	if p.TotalAmount <= 0 {
		return 0
	}
	return p.PaidAmount / p.TotalAmount
}

// PaymentTransaction - one partial payment applied against a Payment.
// Append-only; deleted only by cascade with the parent.
type PaymentTransaction struct {
	ID              uint      `gorm:"primaryKey"`
	PaymentID       uint      `gorm:"index;not null"`
	Amount          float64   `gorm:"not null"`
	TransactionDate time.Time `gorm:"index;not null"`
	Notes           string    `gorm:"size:500"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
