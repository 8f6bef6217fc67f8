package payments

import (
	"errors"
	"time"

	"goyal-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrOverpay         = errors.New("amount exceeds pending balance")
	ErrBadAmount       = errors.New("amount must be positive")
)

// ApplyTransaction records a partial payment against a ledger entry. The
// balance check, transaction insert and parent update run in one database
// transaction: an overpay attempt changes nothing.
func ApplyTransaction(db *gorm.DB, paymentID uint, amount float64, when time.Time, notes string) (*models.Payment, *models.PaymentTransaction, error) {
	if amount <= 0 {
		return nil, nil, ErrBadAmount
	}

	var payment models.Payment
	var entry models.PaymentTransaction

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, "id = ?", paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		if payment.PaidAmount+amount > payment.TotalAmount {
			return ErrOverpay
		}

		entry = models.PaymentTransaction{
			PaymentID:       payment.ID,
			Amount:          amount,
			TransactionDate: when,
			Notes:           notes,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		payment.PaidAmount += amount
		if payment.PaidAmount >= payment.TotalAmount {
			payment.IsFullyPaid = true
		}
		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &payment, &entry, nil
}

// PendingTotals sums the remaining balances of open entries per direction.
func PendingTotals(db *gorm.DB) (incoming float64, outgoing float64, err error) {
	var open []models.Payment
	if err = db.Where("is_fully_paid = ?", false).Find(&open).Error; err != nil {
		return 0, 0, err
	}
	for _, p := range open {
		switch p.Type {
		case models.PaymentTypeIncoming:
			incoming += p.PendingAmount()
		case models.PaymentTypeOutgoing:
			outgoing += p.PendingAmount()
		}
	}
	return incoming, outgoing, nil
}
