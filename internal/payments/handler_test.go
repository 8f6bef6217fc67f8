package payments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

func testApp() *fiber.App {
	app := fiber.New()
	app.Post("/payments", CreatePaymentHandler())
	app.Get("/payments", ListPaymentsHandler())
	app.Get("/payments/summary", PaymentSummaryHandler())
	app.Post("/payments/:id/transactions", AddTransactionHandler())
	app.Get("/payments/:id/transactions", ListTransactionsHandler())
	return app
}

func TestAddTransactionOverpayReturns400(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	seedPayment(t, db, 1000, 900)

	body := `{"amount":200}`
	req := httptest.NewRequest(http.MethodPost, "/payments/1/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.StatusCode)
	}
}

func TestCreatePaymentValidatesType(t *testing.T) {
	setupTestDB(t)
	app := testApp()

	body := `{"type":"SIDEWAYS","party_name":"X","total_amount":100,"due_date":"2030-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.StatusCode)
	}
}

func TestListPaymentsPendingFilter(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	open := seedPayment(t, db, 1000, 100)
	closed := models.Payment{
		Type: models.PaymentTypeIncoming, PartyName: "Done", TotalAmount: 500, PaidAmount: 500,
		IsFullyPaid: true, DueDate: time.Now(),
	}
	if err := db.Create(&closed).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/payments?pending=true", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var payload []PaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected 1 open payment got %d", len(payload))
	}
	if payload[0].ID != open.ID {
		t.Fatalf("expected the open payment, got id %d", payload[0].ID)
	}
	if payload[0].PendingAmount != 900 {
		t.Fatalf("expected pending 900 got %f", payload[0].PendingAmount)
	}
}

func TestPaymentSummaryEndpoint(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	seedPayment(t, db, 1000, 250)

	req := httptest.NewRequest(http.MethodGet, "/payments/summary", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var payload struct {
		PendingIncoming float64 `json:"pending_incoming"`
		PendingOutgoing float64 `json:"pending_outgoing"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.PendingIncoming != 750 {
		t.Fatalf("expected incoming 750 got %f", payload.PendingIncoming)
	}
}
