package repositories

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/common"
	"backoffice/internal/models"

	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, profile *models.UserProfile) error
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, username, email, password_hash, is_active, is_staff, date_joined`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsActive, &user.IsStaff, &user.DateJoined)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts the user and its empty profile together.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	query := `
		INSERT INTO users (username, email, password_hash, is_active, is_staff, date_joined)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, date_joined
	`
	err = tx.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash, user.IsActive, user.IsStaff).
		Scan(&user.ID, &user.DateJoined)
	if err != nil {
		_ = tx.Rollback(ctx)
		if isUniqueViolation(err) {
			return common.NewValidationError("username", "A user with that username already exists.")
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if _, err = tx.Exec(ctx, `INSERT INTO user_profiles (user_id, updated_at) VALUES ($1, NOW())`, user.ID); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("insert profile: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("user")
	}
	return user, err
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("user")
	}
	return user, err
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, is_active = $3, is_staff = $4
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, user.Username, user.Email, user.IsActive, user.IsStaff, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewValidationError("username", "A user with that username already exists.")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("user")
	}
	return nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("user")
	}
	return nil
}

func (r *userRepo) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("user")
	}
	return nil
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY date_joined DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetProfile returns the user's profile, creating it on first access for users predating profiles.
func (r *userRepo) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		INSERT INTO user_profiles (user_id, updated_at)
		SELECT id, NOW() FROM users WHERE id = $1
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}

	profile := &models.UserProfile{}
	err := r.db.QueryRow(ctx, `SELECT user_id, display_name, avatar, updated_at FROM user_profiles WHERE user_id = $1`, userID).
		Scan(&profile.UserID, &profile.DisplayName, &profile.Avatar, &profile.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET display_name = $1, avatar = $2, updated_at = NOW()
		WHERE user_id = $3
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, profile.DisplayName, profile.Avatar, profile.UserID).Scan(&profile.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound("user")
	}
	return err
}
