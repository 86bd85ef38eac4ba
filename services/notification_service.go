package services

import (
	"context"
	"fmt"

	"conference-review-api/models"
)

// NotificationService is the read side of the notification inbox.
type NotificationService struct {
	deps Dependencies
}

func NewNotificationService(deps Dependencies) *NotificationService {
	return &NotificationService{deps: deps.withDefaults()}
}

// List pages through the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool, page Page) (Paginated[models.Notification], error) {
	page = page.normalized(20)
	q := s.deps.DB.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Paginated[models.Notification]{}, fmt.Errorf("count notifications: %w", err)
	}

	var items []models.Notification
	if err := q.Order("created_at DESC, notification_id DESC").
		Offset(page.offset()).
		Limit(page.Limit).
		Find(&items).Error; err != nil {
		return Paginated[models.Notification]{}, fmt.Errorf("list notifications: %w", err)
	}
	return newPaginated(items, total, page), nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := s.deps.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marks one of the user's own notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uint) error {
	var n models.Notification
	if err := s.deps.DB.WithContext(ctx).First(&n, "notification_id = ?", notificationID).Error; err != nil {
		if isRecordNotFound(err) {
			return notFound("notification")
		}
		return fmt.Errorf("load notification %d: %w", notificationID, err)
	}
	if n.UserID != userID {
		return unauthorized("this notification belongs to another user")
	}
	if n.IsRead {
		return nil
	}

	if err := s.deps.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("notification_id = ?", notificationID).
		Updates(map[string]interface{}{"is_read": true, "read_at": s.deps.Now()}).Error; err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.deps.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": s.deps.Now()})
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
