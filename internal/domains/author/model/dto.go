package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ApplyRequest is the apply-to-write form
type ApplyRequest struct {
	Name           string `json:"name" form:"name"`
	Email          string `json:"email" form:"email"`
	Bio            string `json:"bio" form:"bio"`
	SampleWorkLink string `json:"sample_work_link" form:"sample_work_link"`
}

func (r *ApplyRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Bio = strings.TrimSpace(r.Bio)
	r.SampleWorkLink = strings.TrimSpace(r.SampleWorkLink)
}

func (r ApplyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.RuneLength(1, 255)),
		validation.Field(&r.Email, validation.Required.Error("email is required"), is.Email.Error("invalid email format")),
		validation.Field(&r.Bio, validation.Required.Error("tell us a little about yourself")),
		validation.Field(&r.SampleWorkLink, validation.Required.Error("a link to your work is required"), is.URL.Error("must be a valid URL")),
	)
}

// SubmitResult distinguishes a new application from an informational no-op
type SubmitResult struct {
	Submitted   bool               `json:"submitted"`
	Message     string             `json:"message"`
	Application *AuthorApplication `json:"application,omitempty"`
}

// ReviewResult reports an approval or rejection
type ReviewResult struct {
	Application    *AuthorApplication `json:"application"`
	Changed        bool               `json:"changed"`
	ProfileCreated bool               `json:"profile_created"`
}

type ListApplicationsRequest struct {
	Status ApplicationStatus `form:"status"`
	Page   int               `form:"page"`
	Limit  int               `form:"limit"`
}

const (
	DefaultApplicationsLimit = 20
	MaxApplicationsLimit     = 100
)

// Normalize clamps paging to sane values
func (r *ListApplicationsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit <= 0 || r.Limit > MaxApplicationsLimit {
		r.Limit = DefaultApplicationsLimit
	}
}

func (r ListApplicationsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.In(StatusPending, StatusApproved, StatusRejected).Error("unknown status")),
	)
}

// UpdateProfileRequest replaces the author's public fields.
// The picture arrives separately as a multipart file.
type UpdateProfileRequest struct {
	Bio         string `json:"bio" form:"bio"`
	Website     string `json:"website" form:"website"`
	LinkedinURL string `json:"linkedin_url" form:"linkedin_url"`
	TwitterURL  string `json:"twitter_url" form:"twitter_url"`
	FacebookURL string `json:"facebook_url" form:"facebook_url"`
	GithubURL   string `json:"github_url" form:"github_url"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Bio, validation.RuneLength(0, 5000)),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.LinkedinURL, is.URL),
		validation.Field(&r.TwitterURL, is.URL),
		validation.Field(&r.FacebookURL, is.URL),
		validation.Field(&r.GithubURL, is.URL),
	)
}

// Upload is an uploaded file already read into memory
type Upload struct {
	Filename string
	Data     []byte
}
