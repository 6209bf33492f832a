package services

import (
	"context"
	"encoding/json"
	"time"

	activity_services "property-marketplace-backend/activities/services"
	"property-marketplace-backend/config"
	"property-marketplace-backend/db/models"
	"property-marketplace-backend/notifications/repositories"
	"property-marketplace-backend/notifications/tasks"
	"property-marketplace-backend/websocket"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// UserLookup resolves the recipient's email address for queued email
// delivery.
type UserLookup interface {
	GetUserByID(id uuid.UUID) (*models.User, error)
}

// NotificationService persists notifications and fans them out: a websocket
// push for connected users, plus a queued email for high-priority events.
// Delivery is best effort end to end; a failed push or enqueue is logged and
// dropped, never surfaced to the caller.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	users            UserLookup
	hub              *websocket.Hub
	asynqClient      *asynq.Client
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	users UserLookup,
	hub *websocket.Hub,
	asynqClient *asynq.Client,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		users:            users,
		hub:              hub,
		asynqClient:      asynqClient,
	}
}

// Notify stores and dispatches one notification.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, input activity_services.NotificationInput) {
	notification := &models.Notification{
		UserID:   userID,
		Type:     input.Type,
		Title:    input.Title,
		Message:  input.Message,
		Priority: input.Priority,
	}
	if input.Data != nil {
		if raw, err := json.Marshal(input.Data); err == nil {
			notification.Data = raw
		}
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		config.Logger.Error("Failed to persist notification",
			zap.String("userID", userID.String()),
			zap.String("type", string(input.Type)),
			zap.Error(err),
		)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToUser(userID, websocket.WebSocketMessage{
			Type:      websocket.MessageTypeNotification,
			Payload:   notification,
			Timestamp: time.Now(),
		})
	}

	if input.Priority == models.HighPriority {
		s.enqueueEmail(userID, input)
	}
}

// GetUserNotifications lists a user's notifications, newest first.
func (s *NotificationService) GetUserNotifications(userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	return s.notificationRepo.GetUserNotifications(userID, unreadOnly, limit, offset)
}

// MarkRead flags one notification as read for its owner.
func (s *NotificationService) MarkRead(id, userID uuid.UUID) error {
	return s.notificationRepo.MarkNotificationRead(id, userID)
}

// MarkAllRead flags every unread notification of a user as read.
func (s *NotificationService) MarkAllRead(userID uuid.UUID) (int64, error) {
	return s.notificationRepo.MarkAllNotificationsRead(userID)
}

// CountUnread returns the badge count for a user.
func (s *NotificationService) CountUnread(userID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnreadNotifications(userID)
}

func (s *NotificationService) enqueueEmail(userID uuid.UUID, input activity_services.NotificationInput) {
	if s.asynqClient == nil || s.users == nil {
		return
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		config.Logger.Warn("Failed to resolve notification recipient for email",
			zap.String("userID", userID.String()),
			zap.Error(err),
		)
		return
	}

	task, err := tasks.NewNotificationEmailTask(user.Email, input.Title, input.Message)
	if err != nil {
		config.Logger.Warn("Failed to build notification email task", zap.Error(err))
		return
	}

	if _, err := s.asynqClient.Enqueue(task); err != nil {
		config.Logger.Warn("Failed to enqueue notification email",
			zap.String("userID", userID.String()),
			zap.Error(err),
		)
	}
}
