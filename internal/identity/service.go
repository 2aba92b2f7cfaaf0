package identity

import (
	"context"
	"log/slog"

	"github.com/geocoder89/filehub/internal/domain/user"
	"github.com/geocoder89/filehub/internal/jobs"
	"github.com/geocoder89/filehub/internal/queue"
	"github.com/geocoder89/filehub/internal/security"
)

// Keep this small interface so tests can fake it easily.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
}

// Service owns user creation and credential verification.
type Service struct {
	users   UserStore
	hasher  security.Hasher
	welcome queue.Queue
	log     *slog.Logger
}

func New(users UserStore, hasher security.Hasher, welcome queue.Queue, log *slog.Logger) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		welcome: welcome,
		log:     log,
	}
}

// Register creates an account and enqueues a welcome-notification job. The
// enqueue is fire-and-forget: a queue hiccup never fails the registration.
func (s *Service) Register(ctx context.Context, email, password string) (user.User, error) {
	if email == "" {
		return user.User{}, user.ErrMissingEmail
	}
	if password == "" {
		return user.User{}, user.ErrMissingPassword
	}

	hash, err := s.hasher.Hash(password)

	if err != nil {
		return user.User{}, err
	}

	u, err := s.users.Create(ctx, email, hash)

	if err != nil {
		return user.User{}, err
	}

	body, err := jobs.EncodePayload(jobs.JobWelcome, jobs.WelcomePayload{UserID: u.ID})

	if err == nil {
		err = s.welcome.Enqueue(ctx, body)
	}

	if err != nil {
		s.log.Error("welcome job enqueue failed", "user_id", u.ID, "err", err)
	}

	return u, nil
}

// Verify fails uniformly for unknown emails and wrong passwords so callers
// cannot probe which accounts exist.
func (s *Service) Verify(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.users.GetByEmail(ctx, email)

	if err != nil {
		return user.User{}, user.ErrInvalidCredentials
	}

	err = s.hasher.Compare(u.PasswordHash, password)

	if err != nil {
		return user.User{}, user.ErrInvalidCredentials
	}

	return u, nil
}

// ByID resolves a user id to its account, for the auth middleware and the
// welcome worker.
func (s *Service) ByID(ctx context.Context, id int64) (user.User, error) {
	return s.users.GetByID(ctx, id)
}
