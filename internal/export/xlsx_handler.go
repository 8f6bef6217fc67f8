package export

import (
	"fmt"
	"time"

	"goyal-backend/internal/database"
	"goyal-backend/internal/inventory"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/export/summary.xlsx
// One workbook with stock, sales and pending payment sheets.
func ExportSummaryXLSXHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var lots []models.StockLot
		if err := database.DB.Order("added_at DESC").Find(&lots).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load stock")
		}
		var sales []models.Sale
		if err := database.DB.Order("sale_date DESC").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load sales")
		}

		f := excelize.NewFile()

		if err := writeStockSheet(f, lots, sales); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
		}
		if err := writeSalesSheet(f, sales); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
		}
		if err := writePendingSheet(f, sales); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
		}
		f.DeleteSheet("Sheet1")

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build export")
		}

		filename := fmt.Sprintf("goyal_summary_%s.xlsx", time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(buf.Bytes())
	}
}

func writeStockSheet(f *excelize.File, lots []models.StockLot, sales []models.Sale) error {
	const sheet = "Stock"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	summary := inventory.Availability(lots, sales)
	f.SetCellValue(sheet, "A1", "Rolls Available")
	f.SetCellValue(sheet, "B1", summary.AvailableRolls)
	f.SetCellValue(sheet, "A2", "Weight Available (kg)")
	f.SetCellValue(sheet, "B2", summary.AvailableWeight)

	headers := []string{"Added", "Rubber Name", "Rubber ID", "Rolls", "Weight (kg)", "Cost"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c4", 'A'+i)
		f.SetCellValue(sheet, cell, h)
	}
	for idx, lot := range lots {
		row := idx + 5
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), lot.AddedAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), lot.RubberName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), lot.RubberID)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), lot.NumberOfRolls)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), lot.WeightKg)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), lot.Cost)
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "B", 20)
	return nil
}

func writeSalesSheet(f *excelize.File, sales []models.Sale) error {
	const sheet = "Sales"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Date", "Rubber Name", "Rubber ID", "Dealer", "Rolls", "Weight (kg)", "Amount", "Status"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, h)
	}
	for idx, s := range sales {
		row := idx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.SaleDate.Format("2006-01-02 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.RubberName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.RubberID)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), s.DealerName)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), s.NumberOfRolls)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), s.WeightKg)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), s.Amount)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), string(s.PaymentStatus))
	}

	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "D", 20)
	return nil
}

func writePendingSheet(f *excelize.File, sales []models.Sale) error {
	const sheet = "Pending Payments"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Date", "Dealer", "Rubber Name", "Rolls", "Amount Due"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	var total float64
	for _, s := range sales {
		if s.PaymentStatus != models.PaymentStatusPending {
			continue
		}
		total += s.Amount
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.SaleDate.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.DealerName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), s.RubberName)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), s.NumberOfRolls)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), s.Amount)
		row++
	}
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "TOTAL PENDING DUE")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), total)

	f.SetColWidth(sheet, "A", "C", 18)
	return nil
}
