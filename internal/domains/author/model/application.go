package model

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsOpen is true while the application blocks a new submission
func (s ApplicationStatus) IsOpen() bool {
	return s == StatusPending || s == StatusApproved
}

// AuthorApplication may come from an anonymous visitor, so UserID is nullable
type AuthorApplication struct {
	ID             uuid.UUID         `json:"id"`
	UserID         *uuid.UUID        `json:"user_id,omitempty"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Bio            string            `json:"bio"`
	SampleWorkLink string            `json:"sample_work_link"`
	Status         ApplicationStatus `json:"status"`
	DateApplied    time.Time         `json:"date_applied"`
	ReviewedBy     *uuid.UUID        `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time        `json:"reviewed_at,omitempty"`
}
