package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthorProfile exists iff its user is an author
type AuthorProfile struct {
	UserID            uuid.UUID `json:"user_id"`
	Bio               string    `json:"bio"`
	Website           string    `json:"website"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	LinkedinURL       string    `json:"linkedin_url"`
	TwitterURL        string    `json:"twitter_url"`
	FacebookURL       string    `json:"facebook_url"`
	GithubURL         string    `json:"github_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProfilePictureKey is where an author's picture lives in object storage
func ProfilePictureKey(userID uuid.UUID, ext string) string {
	return "authors/" + userID.String() + "/profile." + ext
}
