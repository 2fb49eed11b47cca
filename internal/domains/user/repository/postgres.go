package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/user"
	"blog-backend/pkg/database"
)

// postgresRepository implements user.Repository
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

// userColumns selects a full user row; is_author comes from author_profiles
const userColumns = `
	u.id, u.username, u.email, u.password_hash, u.first_name, u.last_name,
	u.is_active, u.is_staff, u.is_superuser,
	EXISTS (SELECT 1 FROM author_profiles ap WHERE ap.user_id = u.id) AS is_author,
	u.date_joined, u.last_login_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser,
		&u.IsAuthor,
		&u.DateJoined, &u.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO users (
				username, email, password_hash, first_name, last_name,
				is_active, is_staff, is_superuser
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, date_joined
		`
		err := tx.QueryRow(ctx, query,
			u.Username,
			strings.ToLower(u.Email),
			u.PasswordHash,
			u.FirstName,
			u.LastName,
			u.IsActive,
			u.IsStaff,
			u.IsSuperuser,
		).Scan(&u.ID, &u.DateJoined)
		if err != nil {
			switch {
			case database.IsUniqueViolation(err, "users_email_key"):
				return user.ErrEmailAlreadyExists
			case database.IsUniqueViolation(err, "users_username_key"):
				return user.ErrUsernameAlreadyExists
			}
			return fmt.Errorf("insert user: %w", err)
		}

		if !u.IsStaff {
			return nil
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO author_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
			u.ID,
		); err != nil {
			return fmt.Errorf("insert staff author profile: %w", err)
		}
		u.IsAuthor = true
		return nil
	})
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, err
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE LOWER(u.email) = LOWER($1)`
	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, err
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.username = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, err
}

func (r *postgresRepository) FindFirstStaff(ctx context.Context) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.is_staff = TRUE ORDER BY u.date_joined ASC LIMIT 1`
	u, err := scanUser(r.pool.QueryRow(ctx, query))
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("find first staff user: %w", err)
	}
	return u, err
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
