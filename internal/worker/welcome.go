package worker

import (
	"context"
	"fmt"

	"github.com/geocoder89/filehub/internal/domain/user"
	"github.com/geocoder89/filehub/internal/jobs"
	"github.com/geocoder89/filehub/internal/notifications"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

// WelcomeProcessor delivers the welcome notification enqueued on user
// registration.
type WelcomeProcessor struct {
	users    UserReader
	notifier notifications.Notifier
}

func NewWelcomeProcessor(users UserReader, notifier notifications.Notifier) *WelcomeProcessor {
	return &WelcomeProcessor{
		users:    users,
		notifier: notifier,
	}
}

func (p *WelcomeProcessor) Process(ctx context.Context, raw []byte) error {
	decoded, err := jobs.DecodePayload(jobs.JobWelcome, raw)

	if err != nil {
		return err
	}

	payload := decoded.(jobs.WelcomePayload)

	if err := jobs.ValidatePayload(jobs.JobWelcome, payload); err != nil {
		return err
	}

	u, err := p.users.GetByID(ctx, payload.UserID)

	if err != nil {
		return fmt.Errorf("user %d not found: %w", payload.UserID, err)
	}

	return p.notifier.SendWelcome(ctx, u)
}
