package repository

import (
	"context"
	"database/sql"
	"errors"

	"fleetdash/backend/services/fleet-dashboard/internal/models"
)

// UserRepository reads and creates dashboard accounts.
type UserRepository struct {
	db DBTX
}

// NewUserRepository returns repository instance.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account and fills its id.
func (r *UserRepository) Create(ctx context.Context, user *models.UserAccount) error {
	const query = `
		INSERT INTO user_account (username, password_hash, is_admin)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.IsAdmin).Scan(&user.ID)
}

// GetByUsername fetches an account by its unique username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.UserAccount, error) {
	const query = `
		SELECT id, username, password_hash, is_admin
		FROM user_account
		WHERE username = $1
		LIMIT 1
	`
	var user models.UserAccount
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
