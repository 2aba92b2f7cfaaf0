package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/geocoder89/filehub/internal/domain/user"
	"github.com/geocoder89/filehub/internal/jobs"
	"github.com/geocoder89/filehub/internal/queue"
	"github.com/geocoder89/filehub/internal/repo/memory"
	"github.com/geocoder89/filehub/internal/security"
)

func newService(q *queue.MemoryQueue) *Service {
	return New(memory.NewUsersRepo(), security.NewBcryptHasher(), q, slog.Default())
}

func TestRegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue(8)
	svc := newService(q)

	u, err := svc.Register(ctx, "bob@dylan.com", "toto1234!")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected a non-zero user id")
	}

	// welcome job must be on the queue with the new user's id
	if q.Len() != 1 {
		t.Fatalf("expected 1 welcome job, got %d", q.Len())
	}
	body, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue error: %v", err)
	}
	var p jobs.WelcomePayload
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("payload decode error: %v", err)
	}
	if p.UserID != u.ID {
		t.Fatalf("expected welcome job for user %d, got %d", u.ID, p.UserID)
	}

	got, err := svc.Verify(ctx, "bob@dylan.com", "toto1234!")
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("expected user %d, got %d", u.ID, got.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(queue.NewMemoryQueue(8))

	_, err := svc.Register(ctx, "", "pw")
	if !errors.Is(err, user.ErrMissingEmail) {
		t.Fatalf("expected ErrMissingEmail, got %v", err)
	}

	_, err = svc.Register(ctx, "a@b.com", "")
	if !errors.Is(err, user.ErrMissingPassword) {
		t.Fatalf("expected ErrMissingPassword, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService(queue.NewMemoryQueue(8))

	if _, err := svc.Register(ctx, "a@b.com", "pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, err := svc.Register(ctx, "a@b.com", "pw2")
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestVerifyFailsUniformly(t *testing.T) {
	ctx := context.Background()
	svc := newService(queue.NewMemoryQueue(8))

	if _, err := svc.Register(ctx, "a@b.com", "correct"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	// unknown user and wrong password must be indistinguishable
	_, errUnknown := svc.Verify(ctx, "nobody@b.com", "correct")
	_, errWrongPw := svc.Verify(ctx, "a@b.com", "wrong")

	if !errors.Is(errUnknown, user.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, user.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", errWrongPw)
	}
}
