package model

import (
	postmodel "blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/access"
)

// CanComment: any signed-in user who can see the post, unless it is archived
func CanComment(p access.Principal, post *postmodel.Post) bool {
	if p.IsAnonymous() || post.Status == postmodel.StatusArchived {
		return false
	}
	return postmodel.CanView(p, post)
}

// CanDelete: the comment's author or any staff
func CanDelete(p access.Principal, c *Comment) bool {
	return p.Is(c.AuthorID) || p.IsStaff()
}

// CanEdit: only the comment's author
func CanEdit(p access.Principal, c *Comment) bool {
	return !p.IsAnonymous() && p.Is(c.AuthorID)
}
