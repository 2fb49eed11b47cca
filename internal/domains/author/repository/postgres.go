package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/author/model"
	"blog-backend/pkg/database"
)

type profileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.AuthorProfile, error) {
	query := `
		SELECT user_id, bio, website, profile_picture_url, linkedin_url,
		       twitter_url, facebook_url, github_url, created_at, updated_at
		FROM author_profiles
		WHERE user_id = $1
	`
	var p model.AuthorProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Bio, &p.Website, &p.ProfilePictureURL, &p.LinkedinURL,
		&p.TwitterURL, &p.FacebookURL, &p.GithubURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get author profile: %w", err)
	}
	return &p, nil
}

func (r *profileRepository) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM author_profiles WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check author profile: %w", err)
	}
	return exists, nil
}

func (r *profileRepository) Update(ctx context.Context, p *model.AuthorProfile) error {
	query := `
		UPDATE author_profiles
		SET bio = $2, website = $3, profile_picture_url = $4, linkedin_url = $5,
		    twitter_url = $6, facebook_url = $7, github_url = $8, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		p.UserID, p.Bio, p.Website, p.ProfilePictureURL, p.LinkedinURL,
		p.TwitterURL, p.FacebookURL, p.GithubURL,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProfileNotFound
		}
		return fmt.Errorf("update author profile: %w", err)
	}
	return nil
}

// ========================================
// APPLICATIONS
// ========================================

type applicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `
	id, user_id, name, email, bio, sample_work_link, status,
	date_applied, reviewed_by, reviewed_at`

func scanApplication(row pgx.Row) (*model.AuthorApplication, error) {
	var a model.AuthorApplication
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Email, &a.Bio, &a.SampleWorkLink, &a.Status,
		&a.DateApplied, &a.ReviewedBy, &a.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *applicationRepository) Create(ctx context.Context, app *model.AuthorApplication) error {
	query := `
		INSERT INTO author_applications (user_id, name, email, bio, sample_work_link, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, status, date_applied
	`
	err := r.pool.QueryRow(ctx, query,
		app.UserID, app.Name, app.Email, app.Bio, app.SampleWorkLink,
	).Scan(&app.ID, &app.Status, &app.DateApplied)
	if err != nil {
		if database.IsUniqueViolation(err,
			"author_applications_open_user_key",
			"author_applications_open_email_key",
		) {
			return model.ErrOpenApplication
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AuthorApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM author_applications WHERE id = $1`
	app, err := scanApplication(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

func (r *applicationRepository) findOpen(ctx context.Context, where string, arg interface{}) (*model.AuthorApplication, error) {
	query := `SELECT ` + applicationColumns + `
		FROM author_applications
		WHERE ` + where + ` AND status IN ('pending', 'approved')
		ORDER BY date_applied DESC
		LIMIT 1`
	app, err := scanApplication(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open application: %w", err)
	}
	return app, nil
}

func (r *applicationRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*model.AuthorApplication, error) {
	return r.findOpen(ctx, "user_id = $1", userID)
}

func (r *applicationRepository) FindOpenByEmail(ctx context.Context, email string) (*model.AuthorApplication, error) {
	return r.findOpen(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.AuthorApplication, error) {
	query := `SELECT ` + applicationColumns + `
		FROM author_applications
		WHERE user_id = $1
		ORDER BY date_applied DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user applications: %w", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

func (r *applicationRepository) List(ctx context.Context, status model.ApplicationStatus, limit, offset int) ([]*model.AuthorApplication, int, error) {
	where := "TRUE"
	args := []interface{}{limit, offset}
	if status != "" {
		where = "status = $3"
		args = append(args, status)
	}

	query := `SELECT ` + applicationColumns + `, COUNT(*) OVER() AS total
		FROM author_applications
		WHERE ` + where + `
		ORDER BY date_applied DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var (
		apps  []*model.AuthorApplication
		total int
	)
	for rows.Next() {
		var a model.AuthorApplication
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Name, &a.Email, &a.Bio, &a.SampleWorkLink, &a.Status,
			&a.DateApplied, &a.ReviewedBy, &a.ReviewedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, total, nil
}

func collectApplications(rows pgx.Rows) ([]*model.AuthorApplication, error) {
	var apps []*model.AuthorApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) Approve(ctx context.Context, id, reviewerID uuid.UUID) (*model.AuthorApplication, bool, error) {
	type result struct {
		app     *model.AuthorApplication
		created bool
	}

	res, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (result, error) {
		query := `
			UPDATE author_applications a
			SET status = 'approved',
			    reviewed_by = $2,
			    reviewed_at = NOW(),
			    user_id = COALESCE(a.user_id,
			        (SELECT u.id FROM users u WHERE LOWER(u.email) = LOWER(a.email) LIMIT 1))
			WHERE a.id = $1 AND a.status = 'pending'
			RETURNING ` + applicationColumns

		app, err := scanApplication(tx.QueryRow(ctx, query, id, reviewerID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return result{}, model.ErrNotPending
			}
			if database.IsUniqueViolation(err, "author_applications_open_user_key") {
				return result{}, model.ErrOpenApplication
			}
			return result{}, fmt.Errorf("approve application: %w", err)
		}

		if app.UserID == nil {
			return result{app: app}, nil
		}

		tag, err := tx.Exec(ctx,
			`INSERT INTO author_profiles (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
			*app.UserID,
		)
		if err != nil {
			return result{}, fmt.Errorf("create author profile: %w", err)
		}
		return result{app: app, created: tag.RowsAffected() == 1}, nil
	})
	if err != nil {
		return nil, false, err
	}
	return res.app, res.created, nil
}

func (r *applicationRepository) Reject(ctx context.Context, id, reviewerID uuid.UUID) (*model.AuthorApplication, error) {
	query := `
		UPDATE author_applications
		SET status = 'rejected', reviewed_by = $2, reviewed_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + applicationColumns

	app, err := scanApplication(r.pool.QueryRow(ctx, query, id, reviewerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotPending
		}
		return nil, fmt.Errorf("reject application: %w", err)
	}
	return app, nil
}
