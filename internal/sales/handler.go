package sales

import (
	"fmt"
	"time"

	"goyal-backend/internal/audit"
	"goyal-backend/internal/auth"
	"goyal-backend/internal/database"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSaleRequest struct {
	RubberName    string  `json:"rubber_name"`
	RubberID      int     `json:"rubber_id"`
	DealerName    string  `json:"dealer_name"`
	NumberOfRolls int     `json:"number_of_rolls"`
	WeightKg      float64 `json:"weight_kg"`
	Amount        float64 `json:"amount"`
	SaleDate      string  `json:"sale_date"`      // "2006-01-02 15:04", optional
	PaymentStatus string  `json:"payment_status"` // PAID or PENDING, defaults to PENDING
}

type SaleResponse struct {
	ID                uint    `json:"id"`
	RubberName        string  `json:"rubber_name"`
	RubberID          int     `json:"rubber_id"`
	DealerName        string  `json:"dealer_name"`
	NumberOfRolls     int     `json:"number_of_rolls"`
	WeightKg          float64 `json:"weight_kg"`
	Amount            float64 `json:"amount"`
	SaleDate          string  `json:"sale_date"`
	PaymentStatus     string  `json:"payment_status"`
	PaymentReceivedAt string  `json:"payment_received_at,omitempty"`
}

func saleToResponse(sale models.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            sale.ID,
		RubberName:    sale.RubberName,
		RubberID:      sale.RubberID,
		DealerName:    sale.DealerName,
		NumberOfRolls: sale.NumberOfRolls,
		WeightKg:      sale.WeightKg,
		Amount:        sale.Amount,
		SaleDate:      sale.SaleDate.Format("2006-01-02 15:04:05"),
		PaymentStatus: string(sale.PaymentStatus),
	}
	if sale.PaymentReceivedAt != nil {
		resp.PaymentReceivedAt = sale.PaymentReceivedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// filterStart maps ?filter= to the inclusive lower bound of the range.
func filterStart(filter string, now time.Time) (time.Time, bool, error) {
	switch filter {
	case "", "all":
		return time.Time{}, false, nil
	case "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true, nil
	case "week":
		// start of the current week (Sunday)
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start.AddDate(0, 0, -int(start.Weekday())), true, nil
	case "month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true, nil
	case "year":
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), true, nil
	}
	return time.Time{}, false, fmt.Errorf("unknown filter %q", filter)
}

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.RubberName == "" || body.DealerName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "rubber_name and dealer_name are required")
		}
		if body.NumberOfRolls < 0 || body.WeightKg < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "number_of_rolls and weight_kg must not be negative")
		}

		status := models.PaymentStatusPending
		switch body.PaymentStatus {
		case "", string(models.PaymentStatusPending):
		case string(models.PaymentStatusPaid):
			status = models.PaymentStatusPaid
		default:
			return fiber.NewError(fiber.StatusBadRequest, "payment_status must be PAID or PENDING")
		}

		saleDate := time.Now()
		if body.SaleDate != "" {
			t, err := parseTimestamp(body.SaleDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "sale_date must be 'YYYY-MM-DD HH:MM'")
			}
			saleDate = t
		}

		sale := models.Sale{
			RubberName:    body.RubberName,
			RubberID:      body.RubberID,
			DealerName:    body.DealerName,
			NumberOfRolls: body.NumberOfRolls,
			WeightKg:      body.WeightKg,
			Amount:        body.Amount,
			SaleDate:      saleDate,
			PaymentStatus: status,
		}
		if status == models.PaymentStatusPaid {
			now := time.Now()
			sale.PaymentReceivedAt = &now
		}

		if err := database.DB.Create(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create sale")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Sale: %d rolls of %s to %s for %.2f", sale.NumberOfRolls, sale.RubberName, sale.DealerName, sale.Amount),
				Data:        sale,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(saleToResponse(sale))
	}
}

// GET /api/sales?filter=today|week|month|year|all&status=PAID|PENDING
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start, bounded, err := filterStart(c.Query("filter"), time.Now())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "filter must be today, week, month, year or all")
		}

		q := database.DB.Order("sale_date DESC, id DESC")
		if bounded {
			q = q.Where("sale_date >= ?", start)
		}
		if status := c.Query("status"); status != "" {
			if status != string(models.PaymentStatusPaid) && status != string(models.PaymentStatusPending) {
				return fiber.NewError(fiber.StatusBadRequest, "status must be PAID or PENDING")
			}
			q = q.Where("payment_status = ?", status)
		}

		var salesList []models.Sale
		if err := q.Find(&salesList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		resp := make([]SaleResponse, 0, len(salesList))
		for _, sale := range salesList {
			resp = append(resp, saleToResponse(sale))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/sales/:id
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		if err := database.DB.Delete(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete sale")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Sale deleted: %d rolls of %s to %s", sale.NumberOfRolls, sale.RubberName, sale.DealerName),
				Data:        sale,
			})
		}

		return c.JSON(fiber.Map{"message": "Sale deleted"})
	}
}

// DELETE /api/sales
func ClearSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.DB.Where("1 = 1").Delete(&models.Sale{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not clear sales")
		}
		return c.JSON(fiber.Map{"message": "All sales deleted"})
	}
}

type ApprovePaymentRequest struct {
	ReceivedAt string `json:"received_at"` // optional, defaults to now
}

// POST /api/sales/:id/approve-payment
// Marks a pending sale as paid and records the received timestamp.
func ApprovePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body ApprovePaymentRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
			}
		}

		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		if sale.PaymentStatus == models.PaymentStatusPaid {
			return fiber.NewError(fiber.StatusBadRequest, "Sale is already paid")
		}

		receivedAt := time.Now()
		if body.ReceivedAt != "" {
			t, err := parseTimestamp(body.ReceivedAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "received_at must be 'YYYY-MM-DD HH:MM'")
			}
			receivedAt = t
		}

		sale.PaymentStatus = models.PaymentStatusPaid
		sale.PaymentReceivedAt = &receivedAt
		if err := database.DB.Save(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update sale")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Payment received from %s: %.2f", sale.DealerName, sale.Amount),
				Data:        sale,
			})
		}

		return c.JSON(saleToResponse(sale))
	}
}

// GET /api/sales/pending
func ListPendingSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var pending []models.Sale
		if err := database.DB.
			Where("payment_status = ?", models.PaymentStatusPending).
			Order("sale_date DESC, id DESC").
			Find(&pending).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list pending sales")
		}

		resp := make([]SaleResponse, 0, len(pending))
		var totalDue float64
		for _, sale := range pending {
			resp = append(resp, saleToResponse(sale))
			totalDue += sale.Amount
		}

		return c.JSON(fiber.Map{
			"sales":             resp,
			"total_pending_due": totalDue,
		})
	}
}

type SalesSummaryResponse struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalRollsSold  int     `json:"total_rolls_sold"`
	TotalWeightSold float64 `json:"total_weight_sold_kg"`
	TotalPendingDue float64 `json:"total_pending_due"`
}

// GET /api/sales/summary
func SalesSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var salesList []models.Sale
		if err := database.DB.Find(&salesList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sales")
		}

		var s SalesSummaryResponse
		for _, sale := range salesList {
			s.TotalRevenue += sale.Amount
			s.TotalRollsSold += sale.NumberOfRolls
			s.TotalWeightSold += sale.WeightKg
			if sale.PaymentStatus == models.PaymentStatusPending {
				s.TotalPendingDue += sale.Amount
			}
		}
		return c.JSON(s)
	}
}
