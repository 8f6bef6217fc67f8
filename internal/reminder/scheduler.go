package reminder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"goyal-backend/internal/inventory"
	"goyal-backend/internal/models"
	"goyal-backend/internal/notify"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scheduler arms one-shot timers for event reminders and runs the daily
// low-stock digest. Timers are keyed by event id: scheduling an id that is
// already armed replaces the pending timer.
type Scheduler struct {
	db       *gorm.DB
	notifier notify.Notifier
	log      *zap.Logger
	cron     *cron.Cron

	mu     sync.Mutex
	timers map[uint]*time.Timer
}

func NewScheduler(db *gorm.DB, notifier notify.Notifier, log *zap.Logger) *Scheduler {
	return &Scheduler{
		db:       db,
		notifier: notifier,
		log:      log,
		cron:     cron.New(),
		timers:   make(map[uint]*time.Timer),
	}
}

// Schedule arms a reminder for the event at its NotifyAt time. A NotifyAt in
// the past is skipped; an existing timer for the same event is replaced.
func (s *Scheduler) Schedule(event models.ScheduledEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[event.ID]; ok {
		timer.Stop()
		delete(s.timers, event.ID)
	}

	delay := time.Until(event.NotifyAt)
	if delay <= 0 {
		s.log.Debug("reminder in the past, skipped",
			zap.Uint("event_id", event.ID),
			zap.Time("notify_at", event.NotifyAt))
		return
	}

	id := event.ID
	s.timers[id] = time.AfterFunc(delay, func() { s.fire(id) })
	s.log.Info("reminder armed",
		zap.Uint("event_id", id),
		zap.Time("notify_at", event.NotifyAt))
}

// Cancel disarms a pending reminder. Unknown ids are a no-op.
func (s *Scheduler) Cancel(eventID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[eventID]; ok {
		timer.Stop()
		delete(s.timers, eventID)
		s.log.Info("reminder cancelled", zap.Uint("event_id", eventID))
	}
}

// fire re-reads the event before notifying: a reminder for an event that was
// deleted or completed after arming must stay silent.
func (s *Scheduler) fire(eventID uint) {
	s.mu.Lock()
	delete(s.timers, eventID)
	s.mu.Unlock()

	var event models.ScheduledEvent
	if err := s.db.First(&event, "id = ?", eventID).Error; err != nil {
		s.log.Debug("reminder fired for missing event", zap.Uint("event_id", eventID))
		return
	}
	if event.IsCompleted {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := s.notifier.Send(ctx, notify.Notification{
		Title: event.Title,
		Body:  fmt.Sprintf("%s (due %s)", event.Description, event.EventDate.Format("2006-01-02 15:04")),
		Kind:  "event_reminder",
	})
	if err != nil {
		s.log.Warn("reminder delivery failed",
			zap.Uint("event_id", eventID),
			zap.Error(err))
	}
}

// RescheduleAll re-arms reminders for every open event with a future
// NotifyAt. Called once at startup so timers survive a restart.
func (s *Scheduler) RescheduleAll() error {
	var events []models.ScheduledEvent
	if err := s.db.
		Where("is_completed = ? AND notify_at > ?", false, time.Now()).
		Find(&events).Error; err != nil {
		return fmt.Errorf("load open events: %w", err)
	}

	for _, event := range events {
		s.Schedule(event)
	}
	s.log.Info("reminders rescheduled", zap.Int("count", len(events)))
	return nil
}

// StartDailyDigest registers the low-stock digest on the given cron
// expression and starts the cron runner.
func (s *Scheduler) StartDailyDigest(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.lowStockDigest); err != nil {
		return fmt.Errorf("register low stock digest: %w", err)
	}
	s.cron.Start()
	s.log.Info("daily low stock digest scheduled", zap.String("cron", spec))
	return nil
}

// Stop halts the cron runner and disarms all pending timers.
func (s *Scheduler) Stop() {
	s.cron.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *Scheduler) lowStockDigest() {
	low, err := s.lowStock()
	if err != nil {
		s.log.Error("low stock digest failed", zap.Error(err))
		return
	}
	if len(low) == 0 {
		return
	}

	names := make([]string, 0, len(low))
	for _, cat := range low {
		names = append(names, fmt.Sprintf("%s (#%d)", cat.RubberName, cat.RubberID))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err = s.notifier.Send(ctx, notify.Notification{
		Title: "Low stock alert",
		Body:  fmt.Sprintf("Running low on: %s", strings.Join(names, ", ")),
		Kind:  "low_stock",
	})
	if err != nil {
		s.log.Warn("low stock digest delivery failed", zap.Error(err))
	}
}

func (s *Scheduler) lowStock() ([]models.StockCategory, error) {
	var lots []models.StockLot
	if err := s.db.Find(&lots).Error; err != nil {
		return nil, err
	}
	var categories []models.StockCategory
	if err := s.db.Find(&categories).Error; err != nil {
		return nil, err
	}
	return inventory.LowStockCategories(lots, categories), nil
}
