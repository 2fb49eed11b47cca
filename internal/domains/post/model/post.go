package model

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Post is a blog post row joined with its author and category
type Post struct {
	ID         uuid.UUID  `json:"id"`
	AuthorID   *uuid.UUID `json:"author_id,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`

	Title        string `json:"title"`
	Body         string `json:"body"`
	ImageURL     string `json:"image_url,omitempty"`
	ImageKey     string `json:"-"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	Status      Status     `json:"status"`
	ViewCount   int64      `json:"view_count"`
	DateCreated time.Time  `json:"date_created"`
	DateUpdated time.Time  `json:"date_updated"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
	ArchivedBy  *uuid.UUID `json:"archived_by,omitempty"`

	// Joined, read-only
	Author        *AuthorInfo `json:"author,omitempty"`
	AuthorIsStaff bool        `json:"-"`
	CategoryName  string      `json:"category_name,omitempty"`
}

// AuthorInfo is the public face of a post's author
type AuthorInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
}

// PostSummary is a listing row with counts
type PostSummary struct {
	Post
	LikesCount   int64 `json:"likes_count"`
	CommentCount int64 `json:"comment_count"`
}

// PopularityScore weighs a like as ten views. Only used for ordering.
func PopularityScore(views, likes int64) int64 {
	return views + 10*likes
}

// Score is the popularity score of a listed post
func (s PostSummary) Score() int64 {
	return PopularityScore(s.ViewCount, s.LikesCount)
}

// StatusEvent is one row of a post's audit trail
type StatusEvent struct {
	ID         int64      `json:"id"`
	PostID     uuid.UUID  `json:"post_id"`
	FromStatus *Status    `json:"from_status,omitempty"`
	ToStatus   Status     `json:"to_status"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RecentView is a post from the viewer's history
type RecentView struct {
	PostID   uuid.UUID  `json:"post_id"`
	Title    string     `json:"title"`
	Status   Status     `json:"status"`
	AuthorID *uuid.UUID `json:"-"`
	ViewedAt time.Time  `json:"viewed_at"`
}

// AuthorStats aggregates an author's own posts
type AuthorStats struct {
	TotalPosts     int   `json:"total_posts"`
	PublishedPosts int   `json:"published_posts"`
	DraftPosts     int   `json:"draft_posts"`
	ArchivedPosts  int   `json:"archived_posts"`
	TotalViews     int64 `json:"total_views"`
	TotalLikes     int64 `json:"total_likes"`
	TotalComments  int64 `json:"total_comments"`
}

// Listing defaults
const (
	PageSize     = 10
	PopularLimit = 5
	RecentLimit  = 5
)
