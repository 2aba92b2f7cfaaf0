package notifications

import (
	"context"

	"github.com/geocoder89/filehub/internal/domain/user"
)

type Notifier interface {
	SendWelcome(ctx context.Context, u user.User) error
}
