package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a comment row joined with its author and like count
type Comment struct {
	ID          uuid.UUID  `json:"id"`
	PostID      uuid.UUID  `json:"post_id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Text        string     `json:"text"`
	DateCreated time.Time  `json:"date_created"`
	DateUpdated time.Time  `json:"date_updated"`

	Author       Author `json:"author"`
	LikesCount   int64  `json:"likes_count"`
	UserHasLiked bool   `json:"user_has_liked"`
}

type Author struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
}

// IsReply reports whether the comment answers another comment
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// Node is a comment with its replies, oldest first
type Node struct {
	Comment
	CanEdit   bool    `json:"can_edit"`
	CanDelete bool    `json:"can_delete"`
	Replies   []*Node `json:"replies"`
}

// Thread is the comment tree of one post
type Thread struct {
	Comments []*Node `json:"comments"`
	Total    int     `json:"total"`
}

// BuildThread nests a flat list ordered by date_created. A reply whose parent
// is missing from the list is dropped.
func BuildThread(flat []Comment, decorate func(*Node)) *Thread {
	nodes := make(map[uuid.UUID]*Node, len(flat))
	for i := range flat {
		n := &Node{Comment: flat[i], Replies: []*Node{}}
		if decorate != nil {
			decorate(n)
		}
		nodes[n.ID] = n
	}

	thread := &Thread{Comments: []*Node{}}
	for i := range flat {
		n := nodes[flat[i].ID]
		if n.ParentID == nil {
			thread.Comments = append(thread.Comments, n)
			continue
		}
		parent, ok := nodes[*n.ParentID]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, n)
	}

	// Replies under a dropped reply are unreachable too
	thread.Total = countNodes(thread.Comments)
	return thread
}

func countNodes(nodes []*Node) int {
	n := len(nodes)
	for _, c := range nodes {
		n += countNodes(c.Replies)
	}
	return n
}
