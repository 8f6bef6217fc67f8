package inventory

import (
	"fmt"
	"time"

	"goyal-backend/internal/audit"
	"goyal-backend/internal/auth"
	"goyal-backend/internal/database"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateStockLotRequest struct {
	RubberName    string  `json:"rubber_name"`
	RubberID      int     `json:"rubber_id"`
	NumberOfRolls int     `json:"number_of_rolls"`
	WeightKg      float64 `json:"weight_kg"`
	Cost          float64 `json:"cost"`
	AddedAt       string  `json:"added_at"` // "2006-01-02 15:04", optional, defaults to now
}

type StockLotResponse struct {
	ID            uint    `json:"id"`
	RubberName    string  `json:"rubber_name"`
	RubberID      int     `json:"rubber_id"`
	NumberOfRolls int     `json:"number_of_rolls"`
	WeightKg      float64 `json:"weight_kg"`
	Cost          float64 `json:"cost"`
	AddedAt       string  `json:"added_at"`
}

func lotToResponse(lot models.StockLot) StockLotResponse {
	return StockLotResponse{
		ID:            lot.ID,
		RubberName:    lot.RubberName,
		RubberID:      lot.RubberID,
		NumberOfRolls: lot.NumberOfRolls,
		WeightKg:      lot.WeightKg,
		Cost:          lot.Cost,
		AddedAt:       lot.AddedAt.Format("2006-01-02 15:04:05"),
	}
}

// parseTimestamp accepts "2006-01-02 15:04" or a bare date.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// POST /api/stock-lots
func CreateStockLotHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockLotRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.RubberName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "rubber_name is required")
		}
		if body.NumberOfRolls < 0 || body.WeightKg < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "number_of_rolls and weight_kg must not be negative")
		}

		addedAt := time.Now()
		if body.AddedAt != "" {
			t, err := parseTimestamp(body.AddedAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "added_at must be 'YYYY-MM-DD HH:MM'")
			}
			addedAt = t
		}

		lot := models.StockLot{
			RubberName:    body.RubberName,
			RubberID:      body.RubberID,
			NumberOfRolls: body.NumberOfRolls,
			WeightKg:      body.WeightKg,
			Cost:          body.Cost,
			AddedAt:       addedAt,
		}

		if err := database.DB.Create(&lot).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create stock lot")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_lot",
				EntityID:    lot.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Stock added: %d rolls of %s, %.2f kg", lot.NumberOfRolls, lot.RubberName, lot.WeightKg),
				Data:        lot,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(lotToResponse(lot))
	}
}

// GET /api/stock-lots
func ListStockLotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lots []models.StockLot
		if err := database.DB.Order("added_at DESC, id DESC").Find(&lots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list stock lots")
		}

		resp := make([]StockLotResponse, 0, len(lots))
		for _, lot := range lots {
			resp = append(resp, lotToResponse(lot))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/stock-lots/:id
func DeleteStockLotHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var lot models.StockLot
		if err := database.DB.First(&lot, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stock lot not found")
		}

		if err := database.DB.Delete(&lot).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete stock lot")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_lot",
				EntityID:    lot.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Stock deleted: %d rolls of %s", lot.NumberOfRolls, lot.RubberName),
				Data:        lot,
			})
		}

		return c.JSON(fiber.Map{"message": "Stock lot deleted"})
	}
}

// DELETE /api/stock-lots
func ClearStockLotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.DB.Where("1 = 1").Delete(&models.StockLot{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not clear stock")
		}
		return c.JSON(fiber.Map{"message": "All stock deleted"})
	}
}

type StockSummaryResponse struct {
	TotalRolls      int     `json:"total_rolls"`
	TotalWeightKg   float64 `json:"total_weight_kg"`
	TotalStockWorth float64 `json:"total_stock_worth"`
	RollsSold       int     `json:"rolls_sold"`
	WeightSoldKg    float64 `json:"weight_sold_kg"`
	AvailableRolls  int     `json:"available_rolls"`
	AvailableWeight float64 `json:"available_weight_kg"`
}

// GET /api/stock-lots/summary
// Available stock = everything ever added minus everything ever sold.
func StockSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lots []models.StockLot
		if err := database.DB.Find(&lots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stock")
		}
		var sales []models.Sale
		if err := database.DB.Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sales")
		}

		summary := Availability(lots, sales)
		return c.JSON(summary)
	}
}

type StockByTypeRow struct {
	RubberName    string  `json:"rubber_name"`
	TotalWeightKg float64 `json:"total_weight_kg"`
	TotalRolls    int     `json:"total_rolls"`
}

// GET /api/stock-lots/by-type
func StockByTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []StockByTypeRow
		if err := database.DB.Model(&models.StockLot{}).
			Select("rubber_name, SUM(weight_kg) AS total_weight_kg, SUM(number_of_rolls) AS total_rolls").
			Group("rubber_name").
			Order("rubber_name ASC").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate stock")
		}
		return c.JSON(rows)
	}
}
