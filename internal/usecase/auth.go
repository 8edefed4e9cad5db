package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/infra/config"
	"github.com/AjayS0708/CareerOS/internal/infra/logger"
	"github.com/AjayS0708/CareerOS/internal/infra/security"
	"github.com/AjayS0708/CareerOS/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the email/password pair did not match.
	// Unknown email and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked indicates the account is refusing logins until the lock expires.
	ErrAccountLocked = errors.New("account temporarily locked")
	// ErrEmailTaken indicates an account already exists for the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound indicates the account does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// AuthService handles registration, login, and account self-service.
type AuthService struct {
	users     port.UserRepository
	hasher    *security.Hasher
	issuer    *security.TokenIssuer
	publisher port.EventPublisher
	lockout   config.LockoutSettings
	logger    *zap.Logger
}

// NewAuthService constructs an auth service.
func NewAuthService(
	users port.UserRepository,
	hasher *security.Hasher,
	issuer *security.TokenIssuer,
	publisher port.EventPublisher,
	lockout config.LockoutSettings,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	if lockout.MaxAttempts <= 0 {
		lockout.MaxAttempts = 5
	}
	if lockout.LockDuration <= 0 {
		lockout.LockDuration = 15 * time.Minute
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		issuer:    issuer,
		publisher: publisher,
		lockout:   lockout,
		logger:    log,
	}
}

// Register creates an account and returns it with a signed credential.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", fmt.Errorf("name is required")
	}
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, "", fmt.Errorf("email is required")
	}
	if password == "" {
		return nil, "", fmt.Errorf("password is required")
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.UserRoleUser,
		Skills:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	if s.publisher != nil {
		event := domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			Name:         user.Name,
			Email:        user.Email,
			RegisteredAt: now,
		}
		if err := s.publisher.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("publish user registered event failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return &user, token, nil
}

// Login authenticates an email/password pair against the lockout state
// machine. A locked account is rejected before the password is checked;
// a failed check records the attempt atomically and reports a lock the
// moment the store arms one.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}

	now := time.Now().UTC()
	if user.IsLocked(now) {
		return nil, "", ErrAccountLocked
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}

	if !ok {
		attempts, lockUntil, recordErr := s.users.RecordFailedLogin(ctx, user.ID, s.lockout.MaxAttempts, s.lockout.LockDuration, now)
		if recordErr != nil {
			return nil, "", fmt.Errorf("record failed login: %w", recordErr)
		}

		if lockUntil != nil && lockUntil.After(now) {
			s.logger.Warn("account locked after repeated failures",
				zap.String("user_id", user.ID),
				zap.Int("attempts", attempts),
				zap.Time("lock_until", *lockUntil),
			)
			return nil, "", ErrAccountLocked
		}

		return nil, "", ErrInvalidCredentials
	}

	if user.LoginAttempts > 0 || user.LockUntil != nil {
		if err := s.users.ResetLoginAttempts(ctx, user.ID); err != nil {
			return nil, "", fmt.Errorf("reset login attempts: %w", err)
		}
		user.LoginAttempts = 0
		user.LockUntil = nil
	}

	token, err := s.issuer.Issue(*user)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return user, token, nil
}

// GetProfile loads the account for the authenticated user.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the allow-listed profile fields and returns the
// updated account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update port.ProfileUpdate) (*domain.User, error) {
	if !update.Empty() {
		if err := s.users.UpdateProfile(ctx, userID, update); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.GetProfile(ctx, userID)
}

// ChangePassword verifies the current password before replacing the hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	ok, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, passwordHash, time.Now().UTC()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}
