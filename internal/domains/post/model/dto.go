package model

import (
	"errors"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"blog-backend/internal/shared/utils"
)

const (
	TitleMinLength = 5
	TitleMaxLength = 100
	BodyMinLength  = 50
)

// PostForm is the create and edit form. Category is an optional category id.
type PostForm struct {
	Title    string `json:"title" form:"title"`
	Body     string `json:"body" form:"body"`
	Category string `json:"category" form:"category"`
}

// Normalize collapses whitespace in the title; the body keeps its markup
func (f *PostForm) Normalize() {
	f.Title = utils.CollapseWhitespace(f.Title)
	f.Category = utils.CollapseWhitespace(f.Category)
}

func (f PostForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title,
			validation.Required.Error("Title is required."),
			validation.By(runeRange(TitleMinLength, TitleMaxLength,
				"Title must be at least 5 characters long.",
				"Title cannot exceed 100 characters.")),
		),
		validation.Field(&f.Body,
			validation.Required.Error("Post content is required."),
			validation.By(minPlainText(BodyMinLength, "Post content must be at least 50 characters long.")),
		),
		validation.Field(&f.Category, is.UUID.Error("unknown category")),
	)
}

func runeRange(min, max int, tooShort, tooLong string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		n := utf8.RuneCountInString(s)
		switch {
		case n < min:
			return errors.New(tooShort)
		case n > max:
			return errors.New(tooLong)
		}
		return nil
	}
}

func minPlainText(min int, msg string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if utils.PlainTextLength(s) < min {
			return errors.New(msg)
		}
		return nil
	}
}

// Upload is an uploaded file read into memory
type Upload struct {
	Filename string
	Data     []byte
}

// ListFilter drives the public listings
type ListFilter struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	Page     int    `form:"page"`
}

// ListQuery is what the repository executes
type ListQuery struct {
	Statuses     []Status
	AuthorID     *uuid.UUID
	CategoryName string
	Search       string
	Limit        int
	Offset       int
}

// PageResult is one page of posts
type PageResult struct {
	Posts      []PostSummary `json:"posts"`
	Page       int           `json:"page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// HomePage is the landing listing plus the popular sidebar
type HomePage struct {
	PageResult
	Query    string        `json:"query,omitempty"`
	Category string        `json:"category,omitempty"`
	Popular  []PostSummary `json:"popular"`
}

// PostDetail is what a viewer gets from the detail page
type PostDetail struct {
	Post         PostSummary `json:"post"`
	UserHasLiked bool        `json:"user_has_liked"`
	CanEdit      bool        `json:"can_edit"`
	CanArchive   bool        `json:"can_archive"`
	CanPublish   bool        `json:"can_publish"`
}

// Dashboard is the signed-in user's overview
type Dashboard struct {
	Posts          []PostSummary `json:"posts"`
	Stats          AuthorStats   `json:"stats"`
	RecentlyViewed []RecentView  `json:"recently_viewed"`
}

// TransitionResult reports a status change; Changed is false on a no-op
type TransitionResult struct {
	Post    *Post `json:"post"`
	Changed bool  `json:"changed"`
}
