package audit

import (
	"encoding/json"
	"fmt"

	"goyal-backend/internal/database"
	"goyal-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Data        any
}

// WriteLog appends one audit row. Callers ignore the error on purpose: a
// failed audit write never fails the business operation.
func WriteLog(opts LogOptions) error {
	dataStr := "null"
	if opts.Data != nil {
		if b, err := json.Marshal(opts.Data); err == nil {
			dataStr = string(b)
		}
	}

	row := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		Data:        dataStr,
	}

	if err := database.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("audit log write failed: %w", err)
	}

	return nil
}
