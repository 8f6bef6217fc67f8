package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"goyal-backend/internal/database"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func sendCSV(c *fiber.Ctx, name string, write func(w *csv.Writer) error) error {
	var buf bytes.Buffer
	// BOM so spreadsheet apps pick the right encoding.
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(&buf)
	if err := write(writer); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
	}

	filename := fmt.Sprintf("%s_%s_%s.csv", name, time.Now().Format("20060102"), uuid.NewString()[:8])
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// GET /api/export/sales.csv
func ExportSalesCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sales []models.Sale
		if err := database.DB.Order("sale_date DESC").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sales")
		}

		return sendCSV(c, "sales", func(w *csv.Writer) error {
			if err := w.Write([]string{"Date", "Rubber Name", "Rubber ID", "Dealer", "Rolls", "Weight (kg)", "Amount", "Status"}); err != nil {
				return err
			}
			for _, s := range sales {
				err := w.Write([]string{
					s.SaleDate.Format("2006-01-02 15:04"),
					s.RubberName,
					strconv.Itoa(s.RubberID),
					s.DealerName,
					strconv.Itoa(s.NumberOfRolls),
					money(s.WeightKg),
					money(s.Amount),
					string(s.PaymentStatus),
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// GET /api/export/stock.csv
func ExportStockCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lots []models.StockLot
		if err := database.DB.Order("added_at DESC").Find(&lots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stock")
		}

		return sendCSV(c, "stock", func(w *csv.Writer) error {
			if err := w.Write([]string{"Added", "Rubber Name", "Rubber ID", "Rolls", "Weight (kg)", "Cost"}); err != nil {
				return err
			}
			for _, lot := range lots {
				err := w.Write([]string{
					lot.AddedAt.Format("2006-01-02 15:04"),
					lot.RubberName,
					strconv.Itoa(lot.RubberID),
					strconv.Itoa(lot.NumberOfRolls),
					money(lot.WeightKg),
					money(lot.Cost),
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// GET /api/export/pending-payments.csv
// Pending sales plus a trailing total row, dealer-ledger style.
func ExportPendingPaymentsCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sales []models.Sale
		if err := database.DB.
			Where("payment_status = ?", models.PaymentStatusPending).
			Order("sale_date ASC").
			Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load pending sales")
		}

		return sendCSV(c, "pending_payments", func(w *csv.Writer) error {
			if err := w.Write([]string{"Date", "Dealer", "Rubber Name", "Rolls", "Amount Due"}); err != nil {
				return err
			}
			var total float64
			for _, s := range sales {
				total += s.Amount
				err := w.Write([]string{
					s.SaleDate.Format("2006-01-02"),
					s.DealerName,
					s.RubberName,
					strconv.Itoa(s.NumberOfRolls),
					money(s.Amount),
				})
				if err != nil {
					return err
				}
			}
			return w.Write([]string{"", "", "", "TOTAL PENDING DUE", money(total)})
		})
	}
}

// GET /api/export/categories.csv
func ExportCategoriesCSVHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.StockCategory
		if err := database.DB.Order("rubber_id ASC").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load categories")
		}

		return sendCSV(c, "categories", func(w *csv.Writer) error {
			if err := w.Write([]string{"Rubber Name", "Rubber ID"}); err != nil {
				return err
			}
			for _, cat := range categories {
				if err := w.Write([]string{cat.RubberName, strconv.Itoa(cat.RubberID)}); err != nil {
					return err
				}
			}
			return nil
		})
	}
}
