package model

import "blog-backend/internal/shared/access"

// CanView: published is public, drafts are for their author and staff,
// archived posts for their author and superusers.
func CanView(p access.Principal, post *Post) bool {
	switch post.Status {
	case StatusPublished:
		return true
	case StatusDraft:
		return p.IsOwner(post.AuthorID) || p.IsStaff()
	case StatusArchived:
		return p.IsOwner(post.AuthorID) || p.IsSuperuser()
	}
	return false
}

// CanCreate requires an author profile
func CanCreate(p access.Principal) bool {
	return p.IsAuthor()
}

// InitialStatus publishes staff posts directly
func InitialStatus(p access.Principal) Status {
	if p.IsStaff() {
		return StatusPublished
	}
	return StatusDraft
}

// CanEdit: superusers, the author, or staff editing a non-staff author's post.
// A post whose author was deleted counts as non-staff.
func CanEdit(p access.Principal, post *Post) bool {
	switch {
	case p.IsSuperuser():
		return true
	case p.IsOwner(post.AuthorID):
		return true
	case p.IsStaff():
		return !post.AuthorIsStaff
	}
	return false
}

func CanArchive(p access.Principal, post *Post) bool {
	return p.IsOwner(post.AuthorID) || p.IsSuperuser()
}

func CanPublish(p access.Principal, post *Post) bool {
	return p.IsStaff()
}

// CanViewArchive gates the staff archive listing and audit trail
func CanViewArchive(p access.Principal) bool {
	return p.IsStaff()
}
