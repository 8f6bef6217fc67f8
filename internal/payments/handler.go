package payments

import (
	"errors"
	"fmt"
	"time"

	"goyal-backend/internal/audit"
	"goyal-backend/internal/auth"
	"goyal-backend/internal/database"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreatePaymentRequest struct {
	Type        string  `json:"type"`
	PartyName   string  `json:"party_name"`
	TotalAmount float64 `json:"total_amount"`
	DueDate     string  `json:"due_date"`
	Remark      string  `json:"remark"`
	Notes       string  `json:"notes"`
}

type UpdatePaymentRequest struct {
	PartyName string `json:"party_name"`
	DueDate   string `json:"due_date"`
	Remark    string `json:"remark"`
	Notes     string `json:"notes"`
}

type AddTransactionRequest struct {
	Amount          float64 `json:"amount"`
	TransactionDate string  `json:"transaction_date"`
	Notes           string  `json:"notes"`
}

type TransactionResponse struct {
	ID              uint    `json:"id"`
	PaymentID       uint    `json:"payment_id"`
	Amount          float64 `json:"amount"`
	TransactionDate string  `json:"transaction_date"`
	Notes           string  `json:"notes"`
}

type PaymentResponse struct {
	ID            uint    `json:"id"`
	Type          string  `json:"type"`
	PartyName     string  `json:"party_name"`
	TotalAmount   float64 `json:"total_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	PendingAmount float64 `json:"pending_amount"`
	Progress      float64 `json:"progress"`
	DueDate       string  `json:"due_date"`
	Remark        string  `json:"remark"`
	Notes         string  `json:"notes"`
	IsFullyPaid   bool    `json:"is_fully_paid"`
	CreatedAt     string  `json:"created_at"`
}

func paymentToResponse(p models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		Type:          string(p.Type),
		PartyName:     p.PartyName,
		TotalAmount:   p.TotalAmount,
		PaidAmount:    p.PaidAmount,
		PendingAmount: p.PendingAmount(),
		Progress:      p.Progress(),
		DueDate:       p.DueDate.Format("2006-01-02"),
		Remark:        p.Remark,
		Notes:         p.Notes,
		IsFullyPaid:   p.IsFullyPaid,
		CreatedAt:     p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func transactionToResponse(t models.PaymentTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		PaymentID:       t.PaymentID,
		Amount:          t.Amount,
		TransactionDate: t.TransactionDate.Format("2006-01-02 15:04:05"),
		Notes:           t.Notes,
	}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

// POST /api/payments
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		ptype := models.PaymentType(body.Type)
		if ptype != models.PaymentTypeIncoming && ptype != models.PaymentTypeOutgoing {
			return fiber.NewError(fiber.StatusBadRequest, "type must be INCOMING or OUTGOING")
		}
		if body.PartyName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "party_name is required")
		}
		if body.TotalAmount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "total_amount must be positive")
		}

		dueDate, err := parseDate(body.DueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "due_date must be YYYY-MM-DD")
		}

		payment := models.Payment{
			Type:        ptype,
			PartyName:   body.PartyName,
			TotalAmount: body.TotalAmount,
			DueDate:     dueDate,
			Remark:      body.Remark,
			Notes:       body.Notes,
		}
		if err := database.DB.Create(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create payment")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payment",
				EntityID:    payment.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("%s payment of %.2f for %s", payment.Type, payment.TotalAmount, payment.PartyName),
				Data:        payment,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(paymentToResponse(payment))
	}
}

// GET /api/payments?type=INCOMING&pending=true
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Payment{})

		if t := c.Query("type"); t != "" {
			ptype := models.PaymentType(t)
			if ptype != models.PaymentTypeIncoming && ptype != models.PaymentTypeOutgoing {
				return fiber.NewError(fiber.StatusBadRequest, "type must be INCOMING or OUTGOING")
			}
			query = query.Where("type = ?", ptype)
		}
		if c.Query("pending") == "true" {
			query = query.Where("is_fully_paid = ?", false)
		}

		var paymentsList []models.Payment
		if err := query.Order("due_date ASC, id ASC").Find(&paymentsList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list payments")
		}

		resp := make([]PaymentResponse, 0, len(paymentsList))
		for _, p := range paymentsList {
			resp = append(resp, paymentToResponse(p))
		}
		return c.JSON(resp)
	}
}

// GET /api/payments/:id
func GetPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payment models.Payment
		if err := database.DB.First(&payment, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		return c.JSON(paymentToResponse(payment))
	}
}

// PUT /api/payments/:id
// Party, due date and free-text fields only; the monetary state moves
// exclusively through transactions.
func UpdatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payment models.Payment
		if err := database.DB.First(&payment, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}

		var body UpdatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.PartyName != "" {
			payment.PartyName = body.PartyName
		}
		if body.DueDate != "" {
			dueDate, err := parseDate(body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "due_date must be YYYY-MM-DD")
			}
			payment.DueDate = dueDate
		}
		payment.Remark = body.Remark
		payment.Notes = body.Notes

		if err := database.DB.Save(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update payment")
		}
		return c.JSON(paymentToResponse(payment))
	}
}

// DELETE /api/payments/:id
func DeletePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payment models.Payment
		if err := database.DB.First(&payment, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}

		if err := database.DB.Select("Transactions").Delete(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete payment")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payment",
				EntityID:    payment.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Payment for %s deleted", payment.PartyName),
				Data:        payment,
			})
		}

		return c.JSON(fiber.Map{"message": "Payment deleted"})
	}
}

// POST /api/payments/:id/transactions
func AddTransactionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payment id")
		}

		var body AddTransactionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		when := time.Now()
		if body.TransactionDate != "" {
			when, err = parseDate(body.TransactionDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "transaction_date must be YYYY-MM-DD")
			}
		}

		payment, entry, err := ApplyTransaction(database.DB, uint(id), body.Amount, when, body.Notes)
		if err != nil {
			switch {
			case errors.Is(err, ErrPaymentNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Payment not found")
			case errors.Is(err, ErrBadAmount):
				return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
			case errors.Is(err, ErrOverpay):
				return fiber.NewError(fiber.StatusBadRequest, "Amount exceeds pending balance")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Could not record transaction")
			}
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "payment",
				EntityID:    payment.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Received %.2f against %s (pending %.2f)", entry.Amount, payment.PartyName, payment.PendingAmount()),
				Data:        entry,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"payment":     paymentToResponse(*payment),
			"transaction": transactionToResponse(*entry),
		})
	}
}

// GET /api/payments/:id/transactions
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payment models.Payment
		if err := database.DB.First(&payment, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}

		var entries []models.PaymentTransaction
		if err := database.DB.
			Where("payment_id = ?", payment.ID).
			Order("transaction_date ASC, id ASC").
			Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list transactions")
		}

		resp := make([]TransactionResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, transactionToResponse(e))
		}
		return c.JSON(resp)
	}
}

// GET /api/payments/summary
func PaymentSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		incoming, outgoing, err := PendingTotals(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute summary")
		}
		return c.JSON(fiber.Map{
			"pending_incoming": incoming,
			"pending_outgoing": outgoing,
		})
	}
}
