package drafts

import (
	"fmt"
	"time"

	"goyal-backend/internal/audit"
	"goyal-backend/internal/auth"
	"goyal-backend/internal/database"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateDraftRequest struct {
	SupplierName  string `json:"supplier_name"`
	VehicleNumber string `json:"vehicle_number"`
	Notes         string `json:"notes"`
}

type UpdateDraftRequest struct {
	SupplierName  string `json:"supplier_name"`
	VehicleNumber string `json:"vehicle_number"`
	Notes         string `json:"notes"`
}

type AddItemRequest struct {
	CategoryID    uint    `json:"category_id"`
	NumberOfRolls int     `json:"number_of_rolls"`
	WeightKg      float64 `json:"weight_kg"`
	Cost          float64 `json:"cost"`
}

type DraftItemResponse struct {
	ID            uint    `json:"id"`
	CategoryID    uint    `json:"category_id"`
	RubberName    string  `json:"rubber_name"`
	RubberID      int     `json:"rubber_id"`
	NumberOfRolls int     `json:"number_of_rolls"`
	WeightKg      float64 `json:"weight_kg"`
	Cost          float64 `json:"cost"`
	AddedAt       string  `json:"added_at"`
}

type DraftResponse struct {
	ID            uint                `json:"id"`
	SupplierName  string              `json:"supplier_name"`
	VehicleNumber string              `json:"vehicle_number"`
	DraftDate     string              `json:"draft_date"`
	Notes         string              `json:"notes"`
	Items         []DraftItemResponse `json:"items"`
}

func draftToResponse(draft models.StockDraft) DraftResponse {
	items := make([]DraftItemResponse, 0, len(draft.Items))
	for _, item := range draft.Items {
		items = append(items, DraftItemResponse{
			ID:            item.ID,
			CategoryID:    item.CategoryID,
			RubberName:    item.RubberName,
			RubberID:      item.RubberID,
			NumberOfRolls: item.NumberOfRolls,
			WeightKg:      item.WeightKg,
			Cost:          item.Cost,
			AddedAt:       item.AddedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return DraftResponse{
		ID:            draft.ID,
		SupplierName:  draft.SupplierName,
		VehicleNumber: draft.VehicleNumber,
		DraftDate:     draft.DraftDate.Format("2006-01-02 15:04:05"),
		Notes:         draft.Notes,
		Items:         items,
	}
}

func loadDraft(id string) (*models.StockDraft, error) {
	var draft models.StockDraft
	if err := database.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("draft_items.id ASC") }).
		First(&draft, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Draft not found")
	}
	return &draft, nil
}

// POST /api/drafts
func CreateDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDraftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.SupplierName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "supplier_name is required")
		}

		draft := models.StockDraft{
			SupplierName:  body.SupplierName,
			VehicleNumber: body.VehicleNumber,
			Notes:         body.Notes,
			DraftDate:     time.Now(),
		}

		if err := database.DB.Create(&draft).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create draft")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "draft",
				EntityID:    draft.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Draft created for supplier %s", draft.SupplierName),
				Data:        draft,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(draftToResponse(draft))
	}
}

// GET /api/drafts
func ListDraftsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var draftsList []models.StockDraft
		if err := database.DB.
			Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("draft_items.id ASC") }).
			Order("draft_date DESC, id DESC").
			Find(&draftsList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list drafts")
		}

		resp := make([]DraftResponse, 0, len(draftsList))
		for _, draft := range draftsList {
			resp = append(resp, draftToResponse(draft))
		}
		return c.JSON(resp)
	}
}

// GET /api/drafts/:id
func GetDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft, err := loadDraft(c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(draftToResponse(*draft))
	}
}

// PUT /api/drafts/:id
func UpdateDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft, err := loadDraft(c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateDraftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.SupplierName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "supplier_name is required")
		}

		draft.SupplierName = body.SupplierName
		draft.VehicleNumber = body.VehicleNumber
		draft.Notes = body.Notes
		if err := database.DB.Save(draft).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update draft")
		}

		return c.JSON(draftToResponse(*draft))
	}
}

// POST /api/drafts/:id/items
// Appends a line item. The rubber name/id are resolved from the category so
// a later category rename does not rewrite already-drafted lines.
func AddDraftItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft, err := loadDraft(c.Params("id"))
		if err != nil {
			return err
		}

		var body AddItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.NumberOfRolls < 0 || body.WeightKg < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "number_of_rolls and weight_kg must not be negative")
		}

		var cat models.StockCategory
		if err := database.DB.First(&cat, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}

		item := models.DraftItem{
			DraftID:       draft.ID,
			CategoryID:    cat.ID,
			RubberName:    cat.RubberName,
			RubberID:      cat.RubberID,
			NumberOfRolls: body.NumberOfRolls,
			WeightKg:      body.WeightKg,
			Cost:          body.Cost,
			AddedAt:       time.Now(),
		}

		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not add item")
		}

		draft, err = loadDraft(c.Params("id"))
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(draftToResponse(*draft))
	}
}

// DELETE /api/drafts/:id/items/:itemID
func RemoveDraftItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft, err := loadDraft(c.Params("id"))
		if err != nil {
			return err
		}

		itemID := c.Params("itemID")
		var item models.DraftItem
		if err := database.DB.First(&item, "id = ? AND draft_id = ?", itemID, draft.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Draft item not found")
		}

		if err := database.DB.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not remove item")
		}

		draft, err = loadDraft(c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(draftToResponse(*draft))
	}
}

// GET /api/drafts/:id/summary
func DraftSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft, err := loadDraft(c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"draft_id": draft.ID,
			"rows":     Summarize(draft.Items),
		})
	}
}

// POST /api/drafts/:id/commit
// Converts every line item into a stock lot with the commit timestamp, then
// deletes the draft. Runs in one transaction: a failure leaves the draft
// untouched and inserts no lots.
func CommitDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft, err := loadDraft(c.Params("id"))
		if err != nil {
			return err
		}

		if len(draft.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Draft has no items to commit")
		}

		committedAt := time.Now()
		var lotIDs []uint

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			for _, item := range draft.Items {
				lot := models.StockLot{
					RubberName:    item.RubberName,
					RubberID:      item.RubberID,
					NumberOfRolls: item.NumberOfRolls,
					WeightKg:      item.WeightKg,
					Cost:          item.Cost,
					AddedAt:       committedAt,
				}
				if err := tx.Create(&lot).Error; err != nil {
					return err
				}
				lotIDs = append(lotIDs, lot.ID)
			}
			// Items go with the draft via the cascade constraint.
			if err := tx.Select("Items").Delete(draft).Error; err != nil {
				return err
			}
			return nil
		})
		if txErr != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not commit draft")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "draft",
				EntityID:    draft.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Draft committed: %d items from %s became stock lots", len(draft.Items), draft.SupplierName),
				Data:        draft,
			})
		}

		return c.JSON(fiber.Map{
			"message":      "Draft committed to stock",
			"draft_id":     draft.ID,
			"stock_lot_ids": lotIDs,
		})
	}
}

// DELETE /api/drafts/:id
func DeleteDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft, err := loadDraft(c.Params("id"))
		if err != nil {
			return err
		}

		if err := database.DB.Select("Items").Delete(draft).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete draft")
		}

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "draft",
				EntityID:    draft.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Draft discarded: supplier %s, %d items", draft.SupplierName, len(draft.Items)),
				Data:        draft,
			})
		}

		return c.JSON(fiber.Map{"message": "Draft deleted"})
	}
}
