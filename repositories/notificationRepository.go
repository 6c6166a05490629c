package repositories

import (
	"CogniCare/database"
	"CogniCare/models"
	"context"
	"fmt"
)

type NotificationRepository interface {
	Append(ctx context.Context, notification *models.Notification) error
	ListByAssessment(ctx context.Context, assessmentID uint) ([]models.Notification, error)
}

type notificationRepository struct{}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{}
}

// Append records one notification entry. The log is append-only; entries are
// written whether or not delivery succeeded, with Sent carrying the outcome.
func (r *notificationRepository) Append(ctx context.Context, notification *models.Notification) error {
	if err := database.DB.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByAssessment(ctx context.Context, assessmentID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := database.DB.
		Where("assessment_id = ?", assessmentID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}
