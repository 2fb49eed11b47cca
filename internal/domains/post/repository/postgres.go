package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) PostRepository {
	return &postgresRepository{pool: pool}
}

// postColumns selects a post with its author and category joined
const postColumns = `
	p.id, p.author_id, p.category_id, p.title, p.body,
	p.image_url, p.image_key, p.thumbnail_url,
	p.status, p.view_count, p.date_created, p.date_updated,
	p.archived_at, p.archived_by,
	u.username, u.first_name, u.last_name, COALESCE(u.is_staff, FALSE),
	COALESCE(c.name, '')`

const postJoins = `
	FROM posts p
	LEFT JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

// countColumns follow postColumns in summary queries. Comment count
// includes replies.
const countColumns = `,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes_count,
	(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id) AS comment_count`

func scanPost(row pgx.Row, extra ...interface{}) (*model.Post, error) {
	var (
		p                   model.Post
		username            *string
		firstName, lastName *string
	)
	dest := []interface{}{
		&p.ID, &p.AuthorID, &p.CategoryID, &p.Title, &p.Body,
		&p.ImageURL, &p.ImageKey, &p.ThumbnailURL,
		&p.Status, &p.ViewCount, &p.DateCreated, &p.DateUpdated,
		&p.ArchivedAt, &p.ArchivedBy,
		&username, &firstName, &lastName, &p.AuthorIsStaff,
		&p.CategoryName,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if p.AuthorID != nil && username != nil {
		p.Author = &model.AuthorInfo{
			ID:       *p.AuthorID,
			Username: *username,
			FullName: utils.DisplayName(*username, deref(firstName), deref(lastName)),
		}
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func scanSummary(row pgx.Row) (*model.PostSummary, error) {
	var s model.PostSummary
	p, err := scanPost(row, &s.LikesCount, &s.CommentCount)
	if err != nil {
		return nil, err
	}
	s.Post = *p
	return &s, nil
}

// ========================================
// WRITES
// ========================================

func (r *postgresRepository) Create(ctx context.Context, post *model.Post, actorID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO posts (id, author_id, category_id, title, body, image_url, image_key, status, view_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING date_created, date_updated
		`
		err := tx.QueryRow(ctx, query,
			post.ID, post.AuthorID, post.CategoryID, post.Title, post.Body,
			post.ImageURL, post.ImageKey, post.Status, post.ViewCount,
		).Scan(&post.DateCreated, &post.DateUpdated)
		if err != nil {
			if database.IsForeignKeyViolation(err, "posts_category_id_fkey") {
				return model.ErrCategoryNotFound
			}
			return fmt.Errorf("insert post: %w", err)
		}

		return insertEvent(ctx, tx, post.ID, nil, post.Status, actorID)
	})
}

func insertEvent(ctx context.Context, tx pgx.Tx, postID uuid.UUID, from *model.Status, to model.Status, actorID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO post_status_events (post_id, from_status, to_status, actor_id) VALUES ($1, $2, $3, $4)`,
		postID, from, to, actorID,
	)
	if err != nil {
		return fmt.Errorf("insert status event: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, post *model.Post) error {
	query := `
		UPDATE posts
		SET title = $2, body = $3, category_id = $4,
		    image_url = $5, image_key = $6, thumbnail_url = $7,
		    date_updated = NOW()
		WHERE id = $1
		RETURNING date_updated
	`
	err := r.pool.QueryRow(ctx, query,
		post.ID, post.Title, post.Body, post.CategoryID,
		post.ImageURL, post.ImageKey, post.ThumbnailURL,
	).Scan(&post.DateUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrPostNotFound
		}
		if database.IsForeignKeyViolation(err, "posts_category_id_fkey") {
			return model.ErrCategoryNotFound
		}
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// SetThumbnail does not refresh date_updated; it is not an edit
func (r *postgresRepository) SetThumbnail(ctx context.Context, id uuid.UUID, key, thumbnailURL string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET thumbnail_url = $3 WHERE id = $1 AND image_key = $2`,
		id, key, thumbnailURL,
	)
	if err != nil {
		return false, fmt.Errorf("set thumbnail: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) Transition(ctx context.Context, id uuid.UUID, from, to model.Status, actorID uuid.UUID) (*model.Post, error) {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE posts
			SET status = $3,
			    date_updated = NOW(),
			    archived_at = CASE WHEN $3 = 'archived' THEN NOW() ELSE archived_at END,
			    archived_by = CASE WHEN $3 = 'archived' THEN $4::uuid ELSE archived_by END
			WHERE id = $1 AND status = $2
		`
		tag, err := tx.Exec(ctx, query, id, from, to, actorID)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.NewInvalidTransitionError(from, to)
		}
		return insertEvent(ctx, tx, id, &from, to, actorID)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// RecordView runs as two independent statements: the counter is an atomic
// increment and the per-user record is a set insert.
func (r *postgresRepository) RecordView(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (int64, error) {
	var views int64
	err := r.pool.QueryRow(ctx,
		`UPDATE posts SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`, id,
	).Scan(&views)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrPostNotFound
		}
		return 0, fmt.Errorf("increment view count: %w", err)
	}

	if viewerID == nil {
		return views, nil
	}
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO user_post_views (user_id, post_id) VALUES ($1, $2) ON CONFLICT (user_id, post_id) DO NOTHING`,
		*viewerID, id,
	); err != nil {
		return views, fmt.Errorf("record user view: %w", err)
	}
	return views, nil
}

// ========================================
// READS
// ========================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	query := `SELECT ` + postColumns + postJoins + ` WHERE p.id = $1`
	p, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) GetSummary(ctx context.Context, id uuid.UUID) (*model.PostSummary, error) {
	query := `SELECT ` + postColumns + countColumns + postJoins + ` WHERE p.id = $1`
	s, err := scanSummary(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post summary: %w", err)
	}
	return s, nil
}

func (r *postgresRepository) History(ctx context.Context, id uuid.UUID) ([]model.StatusEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, post_id, from_status, to_status, actor_id, created_at
		FROM post_status_events
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	events := make([]model.StatusEvent, 0)
	for rows.Next() {
		var e model.StatusEvent
		if err := rows.Scan(&e.ID, &e.PostID, &e.FromStatus, &e.ToStatus, &e.ActorID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *postgresRepository) RecentViews(ctx context.Context, userID uuid.UUID, limit int) ([]model.RecentView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.title, p.status, p.author_id, v.viewed_at
		FROM user_post_views v
		JOIN posts p ON p.id = v.post_id
		WHERE v.user_id = $1 AND p.status <> 'archived'
		ORDER BY v.viewed_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent views: %w", err)
	}
	defer rows.Close()

	views := make([]model.RecentView, 0, limit)
	for rows.Next() {
		var v model.RecentView
		if err := rows.Scan(&v.PostID, &v.Title, &v.Status, &v.AuthorID, &v.ViewedAt); err != nil {
			return nil, fmt.Errorf("scan recent view: %w", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// List pages through posts matching the query with a window total
func (r *postgresRepository) List(ctx context.Context, q model.ListQuery) ([]model.PostSummary, int, error) {
	var args utils.Args
	where := listWhere(q, &args)
	query := `SELECT ` + postColumns + countColumns + `, COUNT(*) OVER() AS total` +
		postJoins + where + `
		ORDER BY p.date_updated DESC, p.date_created DESC
		LIMIT ` + args.Add(q.Limit) + ` OFFSET ` + args.Add(q.Offset)

	rows, err := r.pool.Query(ctx, query, args.Values()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var (
		posts = make([]model.PostSummary, 0, q.Limit)
		total int
	)
	for rows.Next() {
		var s model.PostSummary
		p, err := scanPost(rows, &s.LikesCount, &s.CommentCount, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		s.Post = *p
		posts = append(posts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, total, nil
}

// listWhere builds the WHERE clause for List. Archived posts only appear
// when asked for by status.
func listWhere(q model.ListQuery, args *utils.Args) string {
	var clauses []string

	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		clauses = append(clauses, "p.status = ANY("+args.Add(statuses)+")")
	}
	if q.AuthorID != nil {
		clauses = append(clauses, "p.author_id = "+args.Add(*q.AuthorID))
	}
	if q.CategoryName != "" {
		clauses = append(clauses, "LOWER(c.name) = LOWER("+args.Add(q.CategoryName)+")")
	}
	if q.Search != "" {
		ph := args.Add("%" + escapeLike(q.Search) + "%")
		clauses = append(clauses, "("+utils.JoinWithOr([]string{
			"p.title ILIKE " + ph,
			"p.body ILIKE " + ph,
		})+")")
	}

	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + utils.JoinWithAnd(clauses)
}

// escapeLike makes user input literal inside an ILIKE pattern
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *postgresRepository) ListPopular(ctx context.Context, limit int) ([]model.PostSummary, error) {
	query := `SELECT ` + postColumns + countColumns + postJoins + `
		WHERE p.status = 'published'
		ORDER BY p.view_count + 10 * (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) DESC,
		         p.date_created DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list popular posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.PostSummary, 0, limit)
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan popular post: %w", err)
		}
		posts = append(posts, *s)
	}
	return posts, rows.Err()
}

func (r *postgresRepository) AuthorStats(ctx context.Context, authorID uuid.UUID) (*model.AuthorStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE p.status = 'published'),
			COUNT(*) FILTER (WHERE p.status = 'draft'),
			COUNT(*) FILTER (WHERE p.status = 'archived'),
			COALESCE(SUM(p.view_count), 0),
			COALESCE(SUM((SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id)), 0),
			COALESCE(SUM((SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id)), 0)
		FROM posts p
		WHERE p.author_id = $1
	`
	var s model.AuthorStats
	err := r.pool.QueryRow(ctx, query, authorID).Scan(
		&s.TotalPosts, &s.PublishedPosts, &s.DraftPosts, &s.ArchivedPosts,
		&s.TotalViews, &s.TotalLikes, &s.TotalComments,
	)
	if err != nil {
		return nil, fmt.Errorf("author stats: %w", err)
	}
	return &s, nil
}

func (r *postgresRepository) HasLiked(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var liked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`,
		postID, userID,
	).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("check post like: %w", err)
	}
	return liked, nil
}

func (r *postgresRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id FROM posts WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query existing posts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan post id: %w", err)
		}
		found[id] = true
	}
	return found, rows.Err()
}
