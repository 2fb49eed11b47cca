package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/comment/model"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) CommentRepository {
	return &postgresRepository{pool: pool}
}

const commentColumns = `
	cm.id, cm.post_id, cm.author_id, cm.parent_id, cm.text,
	cm.date_created, cm.date_updated,
	u.username, u.first_name, u.last_name,
	(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = cm.id) AS likes_count`

const commentJoins = `
	FROM comments cm
	JOIN users u ON u.id = cm.author_id`

func scanComment(row pgx.Row, extra ...interface{}) (*model.Comment, error) {
	var (
		c                   model.Comment
		firstName, lastName string
	)
	dest := []interface{}{
		&c.ID, &c.PostID, &c.AuthorID, &c.ParentID, &c.Text,
		&c.DateCreated, &c.DateUpdated,
		&c.Author.Username, &firstName, &lastName,
		&c.LikesCount,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCommentNotFound
		}
		return nil, err
	}
	c.Author.ID = c.AuthorID
	c.Author.FullName = utils.DisplayName(c.Author.Username, firstName, lastName)
	return &c, nil
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (post_id, author_id, parent_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_created, date_updated
	`
	err := r.pool.QueryRow(ctx, query, c.PostID, c.AuthorID, c.ParentID, c.Text).
		Scan(&c.ID, &c.DateCreated, &c.DateUpdated)
	if err != nil {
		switch {
		case database.IsForeignKeyViolation(err, "comments_post_id_fkey"):
			return model.ErrPostNotFound
		case database.IsForeignKeyViolation(err, "comments_parent_id_fkey"):
			return model.ErrCommentNotFound
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	query := `SELECT ` + commentColumns + commentJoins + ` WHERE cm.id = $1`
	c, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, model.ErrCommentNotFound) {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, err
}

func (r *postgresRepository) UpdateText(ctx context.Context, id uuid.UUID, text string) (*model.Comment, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE comments SET text = $2, date_updated = NOW() WHERE id = $1`,
		id, text,
	)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, model.ErrCommentNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

func (r *postgresRepository) ListByPost(ctx context.Context, postID uuid.UUID, viewerID *uuid.UUID) ([]model.Comment, error) {
	query := `
		SELECT ` + commentColumns + `,
			EXISTS (
				SELECT 1 FROM comment_likes cl
				WHERE cl.comment_id = cm.id AND cl.user_id = $2
			) AS user_has_liked
		` + commentJoins + `
		WHERE cm.post_id = $1
		ORDER BY cm.date_created ASC, cm.id ASC
	`
	rows, err := r.pool.Query(ctx, query, postID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var liked bool
		c, err := scanComment(rows, &liked)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.UserHasLiked = liked
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}
