package export

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"goyal-backend/internal/database"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db
	return db
}

func fetchCSV(t *testing.T, app *fiber.App, path string) (string, *http.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body), resp
}

func TestPendingPaymentsCSVHasTotalRow(t *testing.T) {
	db := setupTestDB(t)
	app := fiber.New()
	app.Get("/export/pending-payments.csv", ExportPendingPaymentsCSVHandler())

	sales := []models.Sale{
		{RubberName: "Natural", DealerName: "Salem Traders", NumberOfRolls: 5, Amount: 3000, SaleDate: time.Now(), PaymentStatus: models.PaymentStatusPending},
		{RubberName: "Butyl", DealerName: "Erode Motors", NumberOfRolls: 2, Amount: 1500, SaleDate: time.Now(), PaymentStatus: models.PaymentStatusPending},
		{RubberName: "Nitrile", DealerName: "Paid Dealer", NumberOfRolls: 1, Amount: 9999, SaleDate: time.Now(), PaymentStatus: models.PaymentStatusPaid},
	}
	for i := range sales {
		if err := db.Create(&sales[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	body, resp := fetchCSV(t, app, "/export/pending-payments.csv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv got %s", ct)
	}
	if cd := resp.Header.Get(fiber.HeaderContentDisposition); !strings.Contains(cd, "pending_payments") {
		t.Fatalf("expected download filename got %s", cd)
	}

	if !strings.Contains(body, "TOTAL PENDING DUE,4500.00") {
		t.Fatalf("expected total row in body:\n%s", body)
	}
	if strings.Contains(body, "Paid Dealer") {
		t.Fatal("paid sales must not appear in the pending export")
	}
}

func TestStockCSVColumns(t *testing.T) {
	db := setupTestDB(t)
	app := fiber.New()
	app.Get("/export/stock.csv", ExportStockCSVHandler())

	lot := models.StockLot{RubberName: "Natural", RubberID: 1, NumberOfRolls: 10, WeightKg: 200, Cost: 5000, AddedAt: time.Now()}
	if err := db.Create(&lot).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	body, resp := fetchCSV(t, app, "/export/stock.csv")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Rubber Name,Rubber ID,Rolls,Weight (kg),Cost") {
		t.Fatalf("missing header row:\n%s", body)
	}
	if !strings.Contains(body, "Natural,1,10,200.00,5000.00") {
		t.Fatalf("missing lot row:\n%s", body)
	}
}

func TestSalesCSVIncludesStatus(t *testing.T) {
	db := setupTestDB(t)
	app := fiber.New()
	app.Get("/export/sales.csv", ExportSalesCSVHandler())

	sale := models.Sale{RubberName: "Butyl", RubberID: 2, DealerName: "Salem Traders", NumberOfRolls: 3, WeightKg: 60, Amount: 1800, SaleDate: time.Now(), PaymentStatus: models.PaymentStatusPaid}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	body, _ := fetchCSV(t, app, "/export/sales.csv")
	if !strings.Contains(body, "PAID") {
		t.Fatalf("expected status column in body:\n%s", body)
	}
}
