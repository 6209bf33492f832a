package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"property-marketplace-backend/utils"

	"github.com/hibiken/asynq"
)

const TypeNotificationEmail = "notification:email"

type NotificationEmailPayload struct {
	Email   string `json:"email"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

func NewNotificationEmailTask(email, title, message string) (*asynq.Task, error) {
	payload, err := json.Marshal(NotificationEmailPayload{
		Email:   email,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeNotificationEmail, payload, asynq.MaxRetry(3)), nil
}

// HandleNotificationEmailTask delivers a queued notification email. Runs on
// the asynq worker, retried on failure.
func HandleNotificationEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload NotificationEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal email payload: %v: %w", err, asynq.SkipRetry)
	}
	return utils.SendEmail(payload.Email, payload.Message, payload.Title, "")
}
