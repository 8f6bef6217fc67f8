package inventory

import (
	"sort"
	"time"

	"goyal-backend/internal/database"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StockAdditionRecord struct {
	Date     string  `json:"date"`
	Rolls    int     `json:"rolls"`
	WeightKg float64 `json:"weight_kg"`
	Cost     float64 `json:"cost"`
}

type SaleRecord struct {
	Date          string  `json:"date"`
	DealerName    string  `json:"dealer_name"`
	Rolls         int     `json:"rolls"`
	WeightKg      float64 `json:"weight_kg"`
	Amount        float64 `json:"amount"`
	PaymentStatus string  `json:"payment_status"`
}

type CategoryHistoryRow struct {
	RubberName     string                `json:"rubber_name"`
	RubberID       int                   `json:"rubber_id"`
	RollsAdded     int                   `json:"rolls_added"`
	WeightAddedKg  float64               `json:"weight_added_kg"`
	RollsSold      int                   `json:"rolls_sold"`
	WeightSoldKg   float64               `json:"weight_sold_kg"`
	PaidRevenue    float64               `json:"paid_revenue"`
	StockAdditions []StockAdditionRecord `json:"stock_additions"`
	SalesRecords   []SaleRecord          `json:"sales_records"`
}

func historyPeriodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "", "today":
		return StartOfDay(now), true
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return now.AddDate(0, -1, 0), true
	case "year":
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// CategoryHistory builds the per-category activity rows for a period.
// Categories with no activity in the period are dropped.
func CategoryHistory(lots []models.StockLot, sales []models.Sale, categories []models.StockCategory, since time.Time) []CategoryHistoryRow {
	rows := make([]CategoryHistoryRow, 0)
	for _, cat := range categories {
		row := CategoryHistoryRow{
			RubberName:     cat.RubberName,
			RubberID:       cat.RubberID,
			StockAdditions: []StockAdditionRecord{},
			SalesRecords:   []SaleRecord{},
		}

		for _, lot := range lots {
			if lot.RubberID != cat.RubberID || lot.AddedAt.Before(since) {
				continue
			}
			row.RollsAdded += lot.NumberOfRolls
			row.WeightAddedKg += lot.WeightKg
			row.StockAdditions = append(row.StockAdditions, StockAdditionRecord{
				Date:     lot.AddedAt.Format("2006-01-02 15:04:05"),
				Rolls:    lot.NumberOfRolls,
				WeightKg: lot.WeightKg,
				Cost:     lot.Cost,
			})
		}

		for _, sale := range sales {
			if sale.RubberID != cat.RubberID || sale.SaleDate.Before(since) {
				continue
			}
			row.RollsSold += sale.NumberOfRolls
			row.WeightSoldKg += sale.WeightKg
			if sale.PaymentStatus == models.PaymentStatusPaid {
				row.PaidRevenue += sale.Amount
			}
			row.SalesRecords = append(row.SalesRecords, SaleRecord{
				Date:          sale.SaleDate.Format("2006-01-02 15:04:05"),
				DealerName:    sale.DealerName,
				Rolls:         sale.NumberOfRolls,
				WeightKg:      sale.WeightKg,
				Amount:        sale.Amount,
				PaymentStatus: string(sale.PaymentStatus),
			})
		}

		if row.RollsAdded == 0 && row.RollsSold == 0 {
			continue
		}

		sort.Slice(row.StockAdditions, func(i, j int) bool { return row.StockAdditions[i].Date > row.StockAdditions[j].Date })
		sort.Slice(row.SalesRecords, func(i, j int) bool { return row.SalesRecords[i].Date > row.SalesRecords[j].Date })
		rows = append(rows, row)
	}
	return rows
}

// GET /api/history?period=today|week|month|year
func HistoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		since, ok := historyPeriodStart(c.Query("period"), time.Now())
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "period must be today, week, month or year")
		}

		var lots []models.StockLot
		if err := database.DB.Find(&lots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stock")
		}
		var sales []models.Sale
		if err := database.DB.Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sales")
		}
		var categories []models.StockCategory
		if err := database.DB.Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load categories")
		}

		return c.JSON(fiber.Map{
			"since": since.Format("2006-01-02 15:04:05"),
			"rows":  CategoryHistory(lots, sales, categories, since),
		})
	}
}
