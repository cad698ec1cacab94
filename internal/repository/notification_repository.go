package repository

import (
	"context"

	"gorm.io/gorm"

	"workboard/internal/model"
)

const defaultNotificationLimit = 50

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Migrate creates the notifications table when it does not exist yet
func (r *NotificationRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.Notification{})
}

// Create stores a notification
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListRecent returns the latest notifications, newest first
func (r *NotificationRepository) ListRecent(ctx context.Context, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	var items []model.Notification
	result := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}
