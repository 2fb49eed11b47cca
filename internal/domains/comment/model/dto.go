package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const TextMaxLength = 5000

// CommentForm is used for new comments, replies and edits
type CommentForm struct {
	Text string `json:"text" form:"text"`
}

func (f *CommentForm) Normalize() {
	f.Text = strings.TrimSpace(f.Text)
}

func (f CommentForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Text,
			validation.Required.Error("Comment cannot be empty."),
			validation.RuneLength(0, TextMaxLength).Error("Comment cannot exceed 5000 characters."),
		),
	)
}
