package port

import (
	"context"
	"time"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
)

// ProfileUpdate is the explicit allow-list of user fields a profile edit
// may touch. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name        *string
	Phone       *string
	Location    *string
	Bio         *string
	Skills      []string
	Experience  *int
	CurrentRole *string
	Avatar      *string
}

// Empty reports whether the update would change nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Phone == nil && u.Location == nil &&
		u.Bio == nil && u.Skills == nil && u.Experience == nil &&
		u.CurrentRole == nil && u.Avatar == nil
}

// UserRepository persists accounts and their lockout state. The lockout
// operations must be atomic against concurrent callers: increments and
// resets are single conditional statements in the store, never
// read-modify-write at this layer.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error

	// RecordFailedLogin applies the lockout state machine for one failed
	// attempt: an expired lock restarts the counter at 1, otherwise the
	// counter increments, and reaching maxAttempts while unlocked sets
	// lock_until = now + lockDuration. Returns the resulting state.
	RecordFailedLogin(ctx context.Context, id string, maxAttempts int, lockDuration time.Duration, now time.Time) (int, *time.Time, error)

	// ResetLoginAttempts zeroes the counter and clears any lock.
	ResetLoginAttempts(ctx context.Context, id string) error
}
