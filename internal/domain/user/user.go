package user

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrMissingEmail       = errors.New("Missing email")
	ErrMissingPassword    = errors.New("Missing password")
	ErrEmailTaken         = errors.New("Already exist")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID           int64  `json:"id,string"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never expose hash in JSON
}
