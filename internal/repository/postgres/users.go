package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AjayS0708/CareerOS/internal/core/domain"
	"github.com/AjayS0708/CareerOS/internal/core/port"
	"github.com/AjayS0708/CareerOS/internal/repository"
)

var userColumns = []string{
	"id",
	"name",
	"email",
	"password_hash",
	"role",
	"avatar",
	"phone",
	"location",
	"bio",
	"skills",
	"experience",
	"current_role",
	"is_email_verified",
	"login_attempts",
	"lock_until",
	"created_at",
	"updated_at",
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new user row. A duplicate email surfaces as
// repository.ErrDuplicateKey via the unique index on lower(email).
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	query := r.builder.Insert("careeros.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.Name,
			user.Email,
			user.PasswordHash,
			user.Role,
			user.Avatar,
			user.Phone,
			user.Location,
			user.Bio,
			user.Skills,
			user.Experience,
			user.CurrentRole,
			user.IsEmailVerified,
			user.LoginAttempts,
			user.LockUntil,
			user.CreatedAt,
			user.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User

	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Avatar,
		&user.Phone,
		&user.Location,
		&user.Bio,
		&user.Skills,
		&user.Experience,
		&user.CurrentRole,
		&user.IsEmailVerified,
		&user.LoginAttempts,
		&user.LockUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows || isInvalidTextRepresentation(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("careeros.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmail retrieves a user by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(userColumns...).
		From("careeros.users").
		Where(squirrel.Eq{"email": domain.NormalizeEmail(email)}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by email sql: %w", err)
	}

	return r.scanUser(r.exec.QueryRow(ctx, stmt, args...))
}

// UpdateProfile applies the allow-listed profile fields. Nil fields are
// left untouched.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, update port.ProfileUpdate) error {
	if update.Empty() {
		return nil
	}

	query := r.builder.Update("careeros.users").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if update.Name != nil {
		query = query.Set("name", *update.Name)
	}
	if update.Phone != nil {
		query = query.Set("phone", *update.Phone)
	}
	if update.Location != nil {
		query = query.Set("location", *update.Location)
	}
	if update.Bio != nil {
		query = query.Set("bio", *update.Bio)
	}
	if update.Skills != nil {
		query = query.Set("skills", update.Skills)
	}
	if update.Experience != nil {
		query = query.Set("experience", *update.Experience)
	}
	if update.CurrentRole != nil {
		query = query.Set("current_role", *update.CurrentRole)
	}
	if update.Avatar != nil {
		query = query.Set("avatar", *update.Avatar)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update profile sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error {
	stmt, args, err := r.builder.Update("careeros.users").
		Set("password_hash", passwordHash).
		Set("updated_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// recordFailedLoginSQL applies one failed attempt in a single statement
// so concurrent failures cannot interleave a read-modify-write. An
// expired lock restarts the counter at 1 and clears the lock; otherwise
// the counter increments, and crossing the threshold while unlocked
// arms the lock.
const recordFailedLoginSQL = `
	UPDATE careeros.users
	   SET login_attempts = CASE
	           WHEN lock_until IS NOT NULL AND lock_until <= $2 THEN 1
	           ELSE login_attempts + 1
	       END,
	       lock_until = CASE
	           WHEN lock_until IS NOT NULL AND lock_until <= $2 THEN NULL
	           WHEN lock_until IS NULL AND login_attempts + 1 >= $3 THEN $4
	           ELSE lock_until
	       END,
	       updated_at = $2
	 WHERE id = $1
	RETURNING login_attempts, lock_until
`

// RecordFailedLogin bumps the failed-attempt counter atomically and
// returns the resulting attempts and lock expiry.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id string, maxAttempts int, lockDuration time.Duration, now time.Time) (int, *time.Time, error) {
	lockUntil := now.Add(lockDuration)

	var (
		attempts int
		locked   *time.Time
	)

	row := r.exec.QueryRow(ctx, recordFailedLoginSQL, id, now, maxAttempts, lockUntil)
	if err := row.Scan(&attempts, &locked); err != nil {
		if err == pgx.ErrNoRows || isInvalidTextRepresentation(err) {
			return 0, nil, repository.ErrNotFound
		}
		return 0, nil, fmt.Errorf("record failed login: %w", err)
	}

	return attempts, locked, nil
}

// ResetLoginAttempts zeroes the counter and clears any lock after a
// successful authentication.
func (r *UserRepository) ResetLoginAttempts(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("careeros.users").
		Set("login_attempts", 0).
		Set("lock_until", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reset login attempts sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("reset login attempts: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
