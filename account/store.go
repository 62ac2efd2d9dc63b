package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no account matches the lookup key.
	ErrNotFound = errors.New("account: not found")

	// ErrDuplicateEmail is returned by Create when the email is taken.
	ErrDuplicateEmail = errors.New("account: email already exists")
)

// Store persists accounts. Implementations must be safe for concurrent use.
type Store interface {
	// FindByEmail returns the account with the given email or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID returns the account with the given id or ErrNotFound.
	FindByID(ctx context.Context, id string) (*Account, error)

	// Create persists a new account, assigning ID and timestamps when unset.
	// It returns ErrDuplicateEmail if the email is already registered.
	Create(ctx context.Context, a *Account) error
}

// Prepare assigns an id and timestamps to a new account. Stores call it at
// the start of Create.
func Prepare(a *Account, now time.Time) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = RoleUser
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = a.CreatedAt
}
