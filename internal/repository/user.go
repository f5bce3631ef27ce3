package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"socialfeed/internal/model"
)

const userColumns = `id, external_auth_id, name, username, email, image, bio, location, website, created_at, updated_at`

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateIfAbsent(ctx context.Context, u *model.User) (bool, error) {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	result, err := r.db.ExecContext(ctx, query,
		u.ID, u.ExternalAuthID, u.Name, u.Username, u.Email, u.Image,
		u.Bio, u.Location, u.Website, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*model.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = ?`)

	var u model.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", where, err)
	}
	return &u, nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	return r.getOne(ctx, "external_auth_id", externalID)
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "username", username)
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := r.db.Rebind(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`)
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.User, error) {
	query := r.db.Rebind(`
		UPDATE users
		SET name = ?, bio = ?, location = ?, website = ?, updated_at = ?
		WHERE id = ?
	`)
	result, err := r.db.ExecContext(ctx, query, req.Name, req.Bio, req.Location, req.Website, time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, model.ErrUserNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *userRepository) GetProfileByUsername(ctx context.Context, username string) (*model.Profile, error) {
	query := r.db.Rebind(`
		SELECT u.id, u.name, u.username, u.image, u.bio, u.location, u.website, u.created_at,
		       (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id) AS follower_count,
		       (SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_count,
		       (SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id) AS post_count
		FROM users u
		WHERE u.username = ?
	`)

	var p model.Profile
	if err := r.db.GetContext(ctx, &p, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

func (r *userRepository) GetSuggestions(ctx context.Context, userID string, limit int) ([]model.SuggestedUser, error) {
	query := r.db.Rebind(`
		SELECT u.id, u.name, u.username, u.image,
		       (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id) AS follower_count
		FROM users u
		WHERE u.id <> ?
		  AND NOT EXISTS (
		      SELECT 1 FROM follows f
		      WHERE f.follower_id = ? AND f.following_id = u.id
		  )
		ORDER BY u.created_at DESC
		LIMIT ?
	`)

	users := []model.SuggestedUser{}
	if err := r.db.SelectContext(ctx, &users, query, userID, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}
	return users, nil
}
