package sales

import (
	"encoding/json"
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

func testApp() *fiber.App {
	app := fiber.New()
	app.Post("/sales", CreateSaleHandler())
	app.Get("/sales", ListSalesHandler())
	app.Post("/sales/:id/approve-payment", ApprovePaymentHandler())
	app.Get("/sales/pending", ListPendingSalesHandler())
	app.Get("/sales/summary", SalesSummaryHandler())
	return app
}

func seedSale(t *testing.T, db *gorm.DB, status models.PaymentStatus, amount float64, saleDate time.Time) models.Sale {
	t.Helper()
	sale := models.Sale{
		RubberName:    "Natural",
		RubberID:      1,
		DealerName:    "Salem Traders",
		NumberOfRolls: 5,
		WeightKg:      100,
		Amount:        amount,
		SaleDate:      saleDate,
		PaymentStatus: status,
	}
	if status == models.PaymentStatusPaid {
		now := time.Now()
		sale.PaymentReceivedAt = &now
	}
	if err := db.Create(&sale).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
	return sale
}

func TestCreateSaleSetsReceivedAtOnlyWhenPaid(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	body := `{"rubber_name":"Natural","rubber_id":1,"dealer_name":"Salem Traders","number_of_rolls":5,"weight_kg":100,"amount":5000,"payment_status":"PENDING"}`
	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.StatusCode)
	}

	var sale models.Sale
	if err := db.First(&sale).Error; err != nil {
		t.Fatalf("load sale: %v", err)
	}
	if sale.PaymentReceivedAt != nil {
		t.Fatal("pending sale must not carry a payment timestamp")
	}
}

func TestApprovePayment(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	seedSale(t, db, models.PaymentStatusPending, 5000, time.Now())

	req := httptest.NewRequest(http.MethodPost, "/sales/1/approve-payment", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("approve request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}

	var sale models.Sale
	if err := db.First(&sale, "id = ?", 1).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sale.PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("expected PAID got %s", sale.PaymentStatus)
	}
	if sale.PaymentReceivedAt == nil {
		t.Fatal("approving must stamp the payment time")
	}
}

func TestApproveAlreadyPaidRejected(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	seedSale(t, db, models.PaymentStatusPaid, 5000, time.Now())

	req := httptest.NewRequest(http.MethodPost, "/sales/1/approve-payment", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("approve request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.StatusCode)
	}
}

func TestPendingListTotalsDue(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	seedSale(t, db, models.PaymentStatusPending, 3000, time.Now())
	seedSale(t, db, models.PaymentStatusPending, 2000, time.Now())
	seedSale(t, db, models.PaymentStatusPaid, 9000, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/sales/pending", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("pending request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}

	var payload struct {
		Sales           []SaleResponse `json:"sales"`
		TotalPendingDue float64        `json:"total_pending_due"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Sales) != 2 {
		t.Fatalf("expected 2 pending sales got %d", len(payload.Sales))
	}
	if payload.TotalPendingDue != 5000 {
		t.Fatalf("expected total due 5000 got %f", payload.TotalPendingDue)
	}
}

func TestListSalesStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	seedSale(t, db, models.PaymentStatusPending, 3000, time.Now())
	seedSale(t, db, models.PaymentStatusPaid, 9000, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/sales?status=PAID", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("list request: %v", err)
	}

	var payload []SaleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected 1 paid sale got %d", len(payload))
	}
	if payload[0].PaymentStatus != "PAID" {
		t.Fatalf("expected PAID got %s", payload[0].PaymentStatus)
	}
}

func TestSalesSummary(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	seedSale(t, db, models.PaymentStatusPending, 3000, time.Now())
	seedSale(t, db, models.PaymentStatusPaid, 9000, time.Now())

	req := httptest.NewRequest(http.MethodGet, "/sales/summary", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("summary request: %v", err)
	}

	var s SalesSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.TotalRevenue != 12000 {
		t.Fatalf("expected revenue 12000 got %f", s.TotalRevenue)
	}
	if s.TotalPendingDue != 3000 {
		t.Fatalf("expected pending 3000 got %f", s.TotalPendingDue)
	}
	if s.TotalRollsSold != 10 {
		t.Fatalf("expected 10 rolls got %d", s.TotalRollsSold)
	}
}
