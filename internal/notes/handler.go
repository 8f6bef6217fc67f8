package notes

import (
	"goyal-backend/internal/database"
	"goyal-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Color   string `json:"color"`
}

type NoteResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func noteToResponse(n models.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Color:     n.Color,
		CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: n.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/notes
func CreateNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Title == "" && body.Content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Note needs a title or content")
		}

		note := models.Note{
			Title:   body.Title,
			Content: body.Content,
		}
		if body.Color != "" {
			note.Color = body.Color
		}

		if err := database.DB.Create(&note).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create note")
		}
		return c.Status(fiber.StatusCreated).JSON(noteToResponse(note))
	}
}

// GET /api/notes?q=search
func ListNotesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := database.DB.Model(&models.Note{})

		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			query = query.Where("title LIKE ? OR content LIKE ?", like, like)
		}

		var notesList []models.Note
		if err := query.Order("updated_at DESC").Find(&notesList).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list notes")
		}

		resp := make([]NoteResponse, 0, len(notesList))
		for _, n := range notesList {
			resp = append(resp, noteToResponse(n))
		}
		return c.JSON(resp)
	}
}

// GET /api/notes/:id
func GetNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var note models.Note
		if err := database.DB.First(&note, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Note not found")
		}
		return c.JSON(noteToResponse(note))
	}
}

// PUT /api/notes/:id
func UpdateNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var note models.Note
		if err := database.DB.First(&note, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Note not found")
		}

		var body NoteRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if body.Title == "" && body.Content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Note needs a title or content")
		}

		note.Title = body.Title
		note.Content = body.Content
		if body.Color != "" {
			note.Color = body.Color
		}

		if err := database.DB.Save(&note).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update note")
		}
		return c.JSON(noteToResponse(note))
	}
}

// DELETE /api/notes/:id
func DeleteNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var note models.Note
		if err := database.DB.First(&note, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Note not found")
		}
		if err := database.DB.Delete(&note).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete note")
		}
		return c.JSON(fiber.Map{"message": "Note deleted"})
	}
}
