package inventory

import (
	"fmt"

	"goyal-backend/internal/audit"
	"goyal-backend/internal/auth"
	"goyal-backend/internal/database"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCategoryRequest struct {
	RubberName string `json:"rubber_name"`
	RubberID   int    `json:"rubber_id"`
}

type CategoryResponse struct {
	ID         uint   `json:"id"`
	RubberName string `json:"rubber_name"`
	RubberID   int    `json:"rubber_id"`
	CreatedAt  string `json:"created_at"`
}

func categoryToResponse(cat models.StockCategory) CategoryResponse {
	return CategoryResponse{
		ID:         cat.ID,
		RubberName: cat.RubberName,
		RubberID:   cat.RubberID,
		CreatedAt:  cat.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.RubberName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "rubber_name is required")
		}
		if body.RubberID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "rubber_id must be positive")
		}

		cat := models.StockCategory{
			RubberName: body.RubberName,
			RubberID:   body.RubberID,
		}

		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create category")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_category",
				EntityID:    cat.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Category added: %s (#%d)", cat.RubberName, cat.RubberID),
				Data:        cat,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(categoryToResponse(cat))
	}
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cats []models.StockCategory
		if err := database.DB.Order("rubber_name ASC").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}

		resp := make([]CategoryResponse, 0, len(cats))
		for _, cat := range cats {
			resp = append(resp, categoryToResponse(cat))
		}
		return c.JSON(resp)
	}
}

// DELETE /api/categories/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.StockCategory
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_category",
				EntityID:    cat.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Category deleted: %s (#%d)", cat.RubberName, cat.RubberID),
				Data:        cat,
			})
		}

		return c.JSON(fiber.Map{"message": "Category deleted"})
	}
}

// DELETE /api/categories
func ClearCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.DB.Where("1 = 1").Delete(&models.StockCategory{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not clear categories")
		}
		return c.JSON(fiber.Map{"message": "All categories deleted"})
	}
}
