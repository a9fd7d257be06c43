package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tushar365/reportappmedghor/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	RecordFailedLogin(ctx context.Context, id uuid.UUID) error
	RecordLogin(ctx context.Context, id uuid.UUID) error
	SetRoles(ctx context.Context, id uuid.UUID, roles []models.Role) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, email, fullName string) error
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const selectUserColumns = `
		SELECT id, username, email, password_hash, full_name, roles, is_active,
			failed_login_attempts, last_login, created_at
		FROM users`

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, full_name, roles, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.FullName, user.RoleNames(), user.IsActive,
	).Scan(&user.CreatedAt)
	if err != nil {
		return &StoreWriteError{Op: "create user", Err: err}
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, selectUserColumns+` WHERE id = $1`, id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUserColumns+` WHERE username = $1`, username)
}

func (r *userRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	var roles []string
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FullName, &roles, &user.IsActive,
		&user.FailedLoginAttempts, &user.LastLogin, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	for _, name := range roles {
		user.Roles = append(user.Roles, models.Role(name))
	}
	return user, nil
}

// RecordFailedLogin bumps the failed attempt counter. Nothing locks the
// account; the counter is informational.
func (r *userRepo) RecordFailedLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET failed_login_attempts = failed_login_attempts + 1 WHERE id = $1`, id)
	if err != nil {
		return &StoreWriteError{Op: "record failed login", Err: err}
	}
	return nil
}

func (r *userRepo) RecordLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET failed_login_attempts = 0, last_login = NOW() WHERE id = $1`, id)
	if err != nil {
		return &StoreWriteError{Op: "record login", Err: err}
	}
	return nil
}

func (r *userRepo) SetRoles(ctx context.Context, id uuid.UUID, roles []models.Role) error {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	tag, err := r.db.Exec(ctx, `UPDATE users SET roles = $2 WHERE id = $1`, id, names)
	if err != nil {
		return &StoreWriteError{Op: "set roles", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $2, failed_login_attempts = 0 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return &StoreWriteError{Op: "update password", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile changes the contact details. A taken email surfaces as a
// conflicting StoreWriteError.
func (r *userRepo) UpdateProfile(ctx context.Context, id uuid.UUID, email, fullName string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET email = $2, full_name = $3 WHERE id = $1`, id, email, fullName)
	if err != nil {
		return &StoreWriteError{Op: "update profile", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
