package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"goyal-backend/internal/models"
	"goyal-backend/internal/notify"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (f *fakeNotifier) Send(_ context.Context, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func setupScheduler(t *testing.T) (*Scheduler, *gorm.DB, *fakeNotifier) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.ScheduledEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	notifier := &fakeNotifier{}
	sched := NewScheduler(db, notifier, zap.NewNop())
	t.Cleanup(sched.Stop)
	return sched, db, notifier
}

func (s *Scheduler) armedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func TestSchedulePastNotifyTimeSkipped(t *testing.T) {
	sched, _, _ := setupScheduler(t)

	sched.Schedule(models.ScheduledEvent{ID: 1, NotifyAt: time.Now().Add(-time.Minute)})
	if sched.armedCount() != 0 {
		t.Fatal("past notify time must not arm a timer")
	}
}

func TestScheduleReplacesExistingTimer(t *testing.T) {
	sched, _, _ := setupScheduler(t)

	sched.Schedule(models.ScheduledEvent{ID: 1, NotifyAt: time.Now().Add(time.Hour)})
	sched.Schedule(models.ScheduledEvent{ID: 1, NotifyAt: time.Now().Add(2 * time.Hour)})
	if sched.armedCount() != 1 {
		t.Fatalf("rescheduling the same event must keep one timer, got %d", sched.armedCount())
	}
}

func TestCancelDisarms(t *testing.T) {
	sched, _, _ := setupScheduler(t)

	sched.Schedule(models.ScheduledEvent{ID: 1, NotifyAt: time.Now().Add(time.Hour)})
	sched.Cancel(1)
	if sched.armedCount() != 0 {
		t.Fatal("cancel must disarm the timer")
	}
	// Cancelling an unknown id is a no-op.
	sched.Cancel(42)
}

func TestFireNotifiesOpenEvent(t *testing.T) {
	sched, db, notifier := setupScheduler(t)

	event := models.ScheduledEvent{
		Title:     "Collect payment",
		EventDate: time.Now().Add(time.Hour),
		NotifyAt:  time.Now().Add(20 * time.Millisecond),
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}

	sched.Schedule(event)
	time.Sleep(200 * time.Millisecond)

	if notifier.count() != 1 {
		t.Fatalf("expected 1 notification got %d", notifier.count())
	}
	if sched.armedCount() != 0 {
		t.Fatal("fired timer must be removed from the map")
	}
}

func TestFireMissingEventStaysSilent(t *testing.T) {
	sched, _, notifier := setupScheduler(t)

	// Event was never persisted: fire must re-check and drop.
	sched.Schedule(models.ScheduledEvent{ID: 7, NotifyAt: time.Now().Add(20 * time.Millisecond)})
	time.Sleep(200 * time.Millisecond)

	if notifier.count() != 0 {
		t.Fatalf("missing event must not notify, got %d", notifier.count())
	}
}

func TestFireCompletedEventStaysSilent(t *testing.T) {
	sched, db, notifier := setupScheduler(t)

	event := models.ScheduledEvent{
		Title:       "Old reminder",
		EventDate:   time.Now(),
		NotifyAt:    time.Now().Add(20 * time.Millisecond),
		IsCompleted: true,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}

	sched.Schedule(event)
	time.Sleep(200 * time.Millisecond)

	if notifier.count() != 0 {
		t.Fatalf("completed event must not notify, got %d", notifier.count())
	}
}

func TestRescheduleAllArmsOpenFutureEvents(t *testing.T) {
	sched, db, _ := setupScheduler(t)

	events := []models.ScheduledEvent{
		{Title: "future", EventDate: time.Now().Add(time.Hour), NotifyAt: time.Now().Add(time.Hour)},
		{Title: "past", EventDate: time.Now(), NotifyAt: time.Now().Add(-time.Hour)},
		{Title: "done", EventDate: time.Now().Add(time.Hour), NotifyAt: time.Now().Add(time.Hour), IsCompleted: true},
	}
	for i := range events {
		if err := db.Create(&events[i]).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := sched.RescheduleAll(); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if sched.armedCount() != 1 {
		t.Fatalf("only the open future event must be armed, got %d", sched.armedCount())
	}
}
