package inventory

import (
	"time"

	"goyal-backend/internal/database"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type DashboardResponse struct {
	LowStockCategories []CategoryResponse   `json:"low_stock_categories"`
	Today              TodayStats           `json:"today"`
	TopCategory        *CategoryPerformance `json:"top_category"`
	RecentActivity     []ActivityItem       `json:"recent_activity"`
}

// GET /api/dashboard
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
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

		now := time.Now()

		low := LowStockCategories(lots, categories)
		lowResp := make([]CategoryResponse, 0, len(low))
		for _, cat := range low {
			lowResp = append(lowResp, categoryToResponse(cat))
		}

		return c.JSON(DashboardResponse{
			LowStockCategories: lowResp,
			Today:              TodaySales(sales, now),
			TopCategory:        TopCategoryOfMonth(sales, now),
			RecentActivity:     RecentActivity(lots, sales),
		})
	}
}
