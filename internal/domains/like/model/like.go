package model

import (
	"time"

	"github.com/google/uuid"
)

// Kind is what a like points at
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// ToggleResult is the new state after a toggle; LikesCount is re-counted
type ToggleResult struct {
	Liked      bool   `json:"liked"`
	LikesCount int64  `json:"likes_count"`
	Message    string `json:"message"`
}

// LockTTL bounds how long a crashed toggle can hold its lock
const LockTTL = 5 * time.Second

// LockKey serializes toggles of one user on one target
func LockKey(kind Kind, targetID, userID uuid.UUID) string {
	return "lock:like:" + string(kind) + ":" + targetID.String() + ":" + userID.String()
}

// Message is the user-facing notice for a toggle outcome
func Message(kind Kind, liked bool) string {
	noun := "Post"
	if kind == KindComment {
		noun = "Comment"
	}
	if liked {
		return noun + " liked"
	}
	return noun + " unliked"
}
