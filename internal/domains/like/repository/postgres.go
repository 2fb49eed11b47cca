package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/like/model"
	"blog-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) LikeRepository {
	return &postgresRepository{pool: pool}
}

// likeTable maps a kind to its table and target column
type likeTable struct {
	name   string
	target string
	fkey   string
}

var tables = map[model.Kind]likeTable{
	model.KindPost:    {name: "post_likes", target: "post_id", fkey: "post_likes_post_id_fkey"},
	model.KindComment: {name: "comment_likes", target: "comment_id", fkey: "comment_likes_comment_id_fkey"},
}

func tableFor(kind model.Kind) (likeTable, error) {
	t, ok := tables[kind]
	if !ok {
		return likeTable{}, fmt.Errorf("unknown like kind %q", kind)
	}
	return t, nil
}

type toggleResult struct {
	liked bool
	count int64
}

func (r *postgresRepository) Toggle(ctx context.Context, kind model.Kind, targetID, userID uuid.UUID) (bool, int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return false, 0, err
	}

	res, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (toggleResult, error) {
		var out toggleResult

		// Step 1: An existing row means unlike
		tag, err := tx.Exec(ctx,
			`DELETE FROM `+t.name+` WHERE `+t.target+` = $1 AND user_id = $2`,
			targetID, userID,
		)
		if err != nil {
			return out, fmt.Errorf("delete like: %w", err)
		}

		// Step 2: Otherwise like; the composite key absorbs a racing insert
		if tag.RowsAffected() == 0 {
			_, err := tx.Exec(ctx,
				`INSERT INTO `+t.name+` (`+t.target+`, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				targetID, userID,
			)
			if err != nil {
				if database.IsForeignKeyViolation(err, t.fkey) {
					return out, model.ErrTargetNotFound
				}
				return out, fmt.Errorf("insert like: %w", err)
			}
			out.liked = true
		}

		// Step 3: Fresh count inside the same transaction
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM `+t.name+` WHERE `+t.target+` = $1`, targetID,
		).Scan(&out.count); err != nil {
			return out, fmt.Errorf("count likes: %w", err)
		}
		return out, nil
	})
	if err != nil {
		return false, 0, err
	}
	return res.liked, res.count, nil
}
