package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"goyal-backend/internal/database"
	"goyal-backend/internal/models"
	"goyal-backend/internal/notify"
	"goyal-backend/internal/reminder"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, notify.Notification) error { return nil }

func setupTest(t *testing.T) (*gorm.DB, *fiber.App) {
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

	sched := reminder.NewScheduler(db, nopNotifier{}, zap.NewNop())
	t.Cleanup(sched.Stop)

	app := fiber.New()
	app.Post("/events", CreateEventHandler(sched))
	app.Get("/events", ListEventsHandler())
	app.Put("/events/:id", UpdateEventHandler(sched))
	app.Post("/events/:id/complete", CompleteEventHandler(sched))
	app.Delete("/events/:id", DeleteEventHandler(sched))
	return db, app
}

func TestCreateEventDefaultsNotifyToEventDate(t *testing.T) {
	db, app := setupTest(t)

	body := `{"title":"Lorry unload","event_date":"2030-04-01 09:00"}`
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.StatusCode)
	}

	var event models.ScheduledEvent
	if err := db.First(&event).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if !event.NotifyAt.Equal(event.EventDate) {
		t.Fatalf("notify_at must default to event_date, got %v vs %v", event.NotifyAt, event.EventDate)
	}
}

func TestUpcomingFilterHidesCompletedAndPast(t *testing.T) {
	db, app := setupTest(t)

	seed := []models.ScheduledEvent{
		{Title: "future", EventDate: time.Now().Add(24 * time.Hour), NotifyAt: time.Now().Add(24 * time.Hour)},
		{Title: "past", EventDate: time.Now().Add(-24 * time.Hour), NotifyAt: time.Now().Add(-24 * time.Hour)},
		{Title: "done", EventDate: time.Now().Add(24 * time.Hour), NotifyAt: time.Now().Add(24 * time.Hour), IsCompleted: true},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/events?upcoming=true", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var payload []EventResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected 1 upcoming event got %d", len(payload))
	}
	if payload[0].Title != "future" {
		t.Fatalf("expected the future event got %s", payload[0].Title)
	}
}

func TestCompleteEvent(t *testing.T) {
	db, app := setupTest(t)

	event := models.ScheduledEvent{Title: "pay factory", EventDate: time.Now().Add(time.Hour), NotifyAt: time.Now().Add(time.Hour)}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/events/1/complete", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}

	var after models.ScheduledEvent
	if err := db.First(&after, "id = ?", 1).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !after.IsCompleted {
		t.Fatal("event must be marked completed")
	}
}

func TestDateRangeFilter(t *testing.T) {
	db, app := setupTest(t)

	seed := []models.ScheduledEvent{
		{Title: "march", EventDate: time.Date(2030, 3, 15, 10, 0, 0, 0, time.Local), NotifyAt: time.Date(2030, 3, 15, 10, 0, 0, 0, time.Local)},
		{Title: "april", EventDate: time.Date(2030, 4, 2, 10, 0, 0, 0, time.Local), NotifyAt: time.Date(2030, 4, 2, 10, 0, 0, 0, time.Local)},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/events?from=2030-03-01&to=2030-03-31", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	var payload []EventResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload) != 1 || payload[0].Title != "march" {
		t.Fatalf("expected only the march event, got %+v", payload)
	}
}
