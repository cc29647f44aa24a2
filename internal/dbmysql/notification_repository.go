package dbmysql

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ByID(ctx context.Context, id uint64) (*Notification, error)
	ByRecipient(ctx context.Context, recipientID uint64, limit, offset int) ([]*Notification, error)
	MarkAsRead(ctx context.Context, id uint64) error
	UnreadCount(ctx context.Context, recipientID uint64) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	if err := Conn(ctx, r.db).Omit(clause.Associations).Create(notification).Error; err != nil {
		return TranslateError(err, "notification")
	}
	return nil
}

func (r *notificationRepository) ByID(ctx context.Context, id uint64) (*Notification, error) {
	var notification Notification

	err := Conn(ctx, r.db).Preload("Sender").First(&notification, id).Error
	if err != nil {
		return nil, TranslateError(err, "notification")
	}

	return &notification, nil
}

// ByRecipient lists newest first. A zero limit means no limit.
func (r *notificationRepository) ByRecipient(ctx context.Context, recipientID uint64, limit, offset int) ([]*Notification, error) {
	var notifications []*Notification

	query := Conn(ctx, r.db).
		Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Order("id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get user notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id uint64) error {
	result := Conn(ctx, r.db).
		Model(&Notification{}).
		Where("id = ?", id).
		Update("is_read", true)

	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}

	return nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, recipientID uint64) (int64, error) {
	var count int64

	err := Conn(ctx, r.db).
		Model(&Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}

	return count, nil
}
