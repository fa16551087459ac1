package services

import (
	"context"

	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/repository"
)

type NotificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, userRepo: userRepo}
}

// NotifyUser creates an in-app notification for a single user
func (s *NotificationService) NotifyUser(ctx context.Context, userID uint, title, message, notificationType string) error {
	notification := &models.Notification{
		UserID:           userID,
		Title:            title,
		Message:          message,
		NotificationType: &notificationType,
	}
	return s.repo.Create(ctx, notification)
}

// NotifyAdmins fans a notification out to every active admin
func (s *NotificationService) NotifyAdmins(ctx context.Context, title, message, notificationType string) error {
	admins, err := s.userRepo.FindAdmins(ctx)
	if err != nil {
		return err
	}
	for _, admin := range admins {
		if err := s.NotifyUser(ctx, admin.ID, title, message, notificationType); err != nil {
			return err
		}
	}
	return nil
}

func (s *NotificationService) FindByUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	return s.repo.FindByUser(ctx, userID, limit)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uint) error {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if notification.UserID != userID {
		return ErrUnauthorized
	}
	notification.MarkAsRead()
	return s.repo.Update(ctx, notification)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
