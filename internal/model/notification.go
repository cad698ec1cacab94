package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationLevel string

const (
	LevelSuccess  NotificationLevel = "success"
	LevelError    NotificationLevel = "error"
	LevelInternal NotificationLevel = "internal"
)

// Notification is a user-facing message (toast) or a diagnostic raised by the board.
type Notification struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Level     NotificationLevel `gorm:"not null;index" json:"level"`
	Message   string            `gorm:"not null" json:"message"`
	TaskID    *string           `json:"task_id,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

// NewNotification builds a notification, attaching the task id when one is given.
func NewNotification(level NotificationLevel, message string, taskID TaskID) Notification {
	n := Notification{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if taskID != "" {
		id := taskID.String()
		n.TaskID = &id
	}
	return n
}
