package calendar

import (
	"fmt"
	"time"

	"goyal-backend/internal/audit"
	"goyal-backend/internal/auth"
	"goyal-backend/internal/database"
	"goyal-backend/internal/models"
	"goyal-backend/internal/reminder"

	"github.com/gofiber/fiber/v2"
)

type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	NotifyAt    string `json:"notify_at"`
	Notes       string `json:"notes"`
}

type EventResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
	NotifyAt    string `json:"notify_at"`
	IsCompleted bool   `json:"is_completed"`
	Notes       string `json:"notes"`
}

func eventToResponse(e models.ScheduledEvent) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		EventDate:   e.EventDate.Format("2006-01-02 15:04:05"),
		NotifyAt:    e.NotifyAt.Format("2006-01-02 15:04:05"),
		IsCompleted: e.IsCompleted,
		Notes:       e.Notes,
	}
}

func parseEventTime(value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}

// POST /api/events
func CreateEventHandler(sched *reminder.Scheduler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EventRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title is required")
		}

		eventDate, err := parseEventTime(body.EventDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "event_date must be YYYY-MM-DD HH:MM")
		}

		notifyAt := eventDate
		if body.NotifyAt != "" {
			notifyAt, err = parseEventTime(body.NotifyAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "notify_at must be YYYY-MM-DD HH:MM")
			}
		}

		event := models.ScheduledEvent{
			Title:       body.Title,
			Description: body.Description,
			EventDate:   eventDate,
			NotifyAt:    notifyAt,
			Notes:       body.Notes,
		}
		if err := database.DB.Create(&event).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create event")
		}

		sched.Schedule(event)

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "event",
				EntityID:    event.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Event %q scheduled for %s", event.Title, event.EventDate.Format("2006-01-02")),
				Data:        event,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(eventToResponse(event))
	}
}

// GET /api/events?upcoming=true or ?from=YYYY-MM-DD&to=YYYY-MM-DD
func ListEventsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.ScheduledEvent{})

		if c.Query("upcoming") == "true" {
			query = query.Where("is_completed = ? AND event_date >= ?", false, time.Now())
		}
		if from := c.Query("from"); from != "" {
			start, err := parseEventTime(from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
			}
			query = query.Where("event_date >= ?", start)
		}
		if to := c.Query("to"); to != "" {
			end, err := parseEventTime(to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
			}
			query = query.Where("event_date < ?", end.AddDate(0, 0, 1))
		}

		var events []models.ScheduledEvent
		if err := query.Order("event_date ASC, id ASC").Find(&events).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list events")
		}

		resp := make([]EventResponse, 0, len(events))
		for _, e := range events {
			resp = append(resp, eventToResponse(e))
		}
		return c.JSON(resp)
	}
}

// GET /api/events/:id
func GetEventHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var event models.ScheduledEvent
		if err := database.DB.First(&event, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}
		return c.JSON(eventToResponse(event))
	}
}

// PUT /api/events/:id
// Re-arms the reminder when the notify time moves.
func UpdateEventHandler(sched *reminder.Scheduler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var event models.ScheduledEvent
		if err := database.DB.First(&event, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}

		var body EventRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title is required")
		}

		eventDate, err := parseEventTime(body.EventDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "event_date must be YYYY-MM-DD HH:MM")
		}
		notifyAt := eventDate
		if body.NotifyAt != "" {
			notifyAt, err = parseEventTime(body.NotifyAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "notify_at must be YYYY-MM-DD HH:MM")
			}
		}

		event.Title = body.Title
		event.Description = body.Description
		event.EventDate = eventDate
		event.NotifyAt = notifyAt
		event.Notes = body.Notes

		if err := database.DB.Save(&event).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update event")
		}

		if event.IsCompleted {
			sched.Cancel(event.ID)
		} else {
			sched.Schedule(event)
		}

		return c.JSON(eventToResponse(event))
	}
}

// POST /api/events/:id/complete
func CompleteEventHandler(sched *reminder.Scheduler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var event models.ScheduledEvent
		if err := database.DB.First(&event, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}

		event.IsCompleted = true
		if err := database.DB.Save(&event).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not complete event")
		}

		sched.Cancel(event.ID)

		return c.JSON(eventToResponse(event))
	}
}

// DELETE /api/events/:id
func DeleteEventHandler(sched *reminder.Scheduler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var event models.ScheduledEvent
		if err := database.DB.First(&event, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Event not found")
		}

		if err := database.DB.Delete(&event).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete event")
		}

		sched.Cancel(event.ID)

		if userID, userName, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "event",
				EntityID:    event.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Event %q deleted", event.Title),
				Data:        event,
			})
		}

		return c.JSON(fiber.Map{"message": "Event deleted"})
	}
}
