package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskWelcomeMail greets a freshly registered tenant owner.
	TaskWelcomeMail = "mail:welcome"
)

// WelcomeMailPayload identifies the recipient of the onboarding mail.
type WelcomeMailPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewWelcomeMailTask constructs an Asynq task for the welcome mail.
func NewWelcomeMailTask(payload WelcomeMailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWelcomeMail, data, asynq.Queue(QueueDefault)), nil
}

// HandleWelcomeMail processes TaskWelcomeMail tasks. Delivery is logged
// until an SMTP transport is wired in.
func HandleWelcomeMail(logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload WelcomeMailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		logger.Info("welcome mail",
			slog.String("to", payload.Email),
			slog.String("name", payload.Name))
		return nil
	}
}
