package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"goyal-backend/internal/config"
	"goyal-backend/internal/database"

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

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret-test-secret-12345678"}
}

func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Post("/auth/register-owner", RegisterOwnerHandler(cfg))
	app.Post("/auth/login", LoginHandler(cfg))

	protected := app.Group("")
	protected.Use(JWTMiddleware(cfg))
	protected.Get("/auth/me", MeHandler())
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	return resp
}

func TestRegisterLoginMeFlow(t *testing.T) {
	setupTestDB(t)
	cfg := testConfig()
	app := testApp(cfg)

	resp := postJSON(t, app, "/auth/register-owner", `{"name":"Goyal","email":"owner@goyal.in","password":"secret123"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201 got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/auth/login", `{"email":"Owner@Goyal.in","password":"secret123"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200 got %d", resp.StatusCode)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" {
		t.Fatal("expected a token")
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	meResp, err := app.Test(req)
	if err != nil {
		t.Fatalf("me request: %v", err)
	}
	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200 got %d", meResp.StatusCode)
	}
	var me struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(meResp.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "owner@goyal.in" {
		t.Fatalf("expected owner email got %s", me.Email)
	}
}

func TestSecondOwnerRejected(t *testing.T) {
	setupTestDB(t)
	cfg := testConfig()
	app := testApp(cfg)

	resp := postJSON(t, app, "/auth/register-owner", `{"name":"Goyal","email":"owner@goyal.in","password":"secret123"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: expected 201 got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/auth/register-owner", `{"name":"Intruder","email":"x@y.z","password":"pw"}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("second register: expected 403 got %d", resp.StatusCode)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestDB(t)
	cfg := testConfig()
	app := testApp(cfg)

	postJSON(t, app, "/auth/register-owner", `{"name":"Goyal","email":"owner@goyal.in","password":"secret123"}`)

	resp := postJSON(t, app, "/auth/login", `{"email":"owner@goyal.in","password":"wrong"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
}

func TestMeWithoutToken(t *testing.T) {
	setupTestDB(t)
	app := testApp(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("me request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
}
