package repositories

import (
	"context"
	"database/sql"
	"time"

	"construction_inventory_backend/internal/models"
)

// AuthRepository defines the interface for authentication-related database operations.
type AuthRepository interface {
	CreateUser(ctx context.Context, executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, string, error) // Returns User, HashedPassword, Error
	FindUserByID(ctx context.Context, userID int64) (*models.User, error)
	CountUsers(ctx context.Context, executor SQLExecutor) (int, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts a new active user. A taken username yields ErrDuplicateKey.
func (r *authRepository) CreateUser(ctx context.Context, executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (username, password_hash, email, full_name, role, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)
	          RETURNING id`

	now := time.Now()
	var userID int64
	err := executor.QueryRowContext(ctx, query,
		user.Username, hashedPassword, user.Email, user.FullName, user.Role, now,
	).Scan(&userID)
	if err != nil {
		return 0, classify(err, "creating user")
	}
	user.ID = userID
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now
	return userID, nil
}

const userSelect = `SELECT id, username, password_hash, email, full_name, role, is_active, created_at, updated_at FROM users`

func scanUser(s scanner) (*models.User, string, error) {
	user := &models.User{}
	var hashedPassword string
	err := s.Scan(&user.ID, &user.Username, &hashedPassword, &user.Email, &user.FullName,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, "", err
	}
	return user, hashedPassword, nil
}

// FindUserByUsername retrieves a user and their password hash.
func (r *authRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, string, error) {
	user, hash, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE username = $1`, username))
	if err != nil {
		return nil, "", classify(err, "finding user by username")
	}
	return user, hash, nil
}

// FindUserByID retrieves a user profile; the password hash is not returned.
func (r *authRepository) FindUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, _, err := scanUser(r.db.QueryRowContext(ctx, userSelect+` WHERE id = $1`, userID))
	if err != nil {
		return nil, classify(err, "finding user by id")
	}
	return user, nil
}

// CountUsers is used to promote the very first account to Admin.
func (r *authRepository) CountUsers(ctx context.Context, executor SQLExecutor) (int, error) {
	var n int
	if err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, classify(err, "counting users")
	}
	return n, nil
}
