package user

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// SignupRequest accepts JSON or form posts
type SignupRequest struct {
	Username  string `json:"username" form:"username"`
	Email     string `json:"email" form:"email"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Password1 string `json:"password1" form:"password1"`
	Password2 string `json:"password2" form:"password2"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.RuneLength(1, 50).Error("username must be at most 50 characters"),
			validation.Match(usernamePattern).Error("letters, digits and @/./+/-/_ only"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(3, 254),
		),
		validation.Field(&r.FirstName, validation.RuneLength(0, 100)),
		validation.Field(&r.LastName, validation.RuneLength(0, 100)),
		validation.Field(&r.Password1,
			validation.Required.Error("password is required"),
			validation.RuneLength(8, 128).Error("password must be at least 8 characters"),
		),
		validation.Field(&r.Password2,
			validation.Required.Error("please confirm the password"),
			validation.In(r.Password1).Error(ErrPasswordMismatch.Error()),
		),
	)
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// LoginResponse carries the token pair; handlers also set the access cookie
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserDTO   `json:"user"`
}

// CreateSuperuserRequest is used by the operator CLI
type CreateSuperuserRequest struct {
	Username string
	Email    string
	Password string
}

func (r CreateSuperuserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.RuneLength(1, 50), validation.Match(usernamePattern)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(8, 128)),
	)
}

type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	IsAuthor    bool      `json:"is_author"`
	DateJoined  time.Time `json:"date_joined"`
}

// PublicUserDTO is what other users see on author pages
type PublicUserDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	IsAuthor bool      `json:"is_author"`
}

func (u *User) ToPublicDTO() PublicUserDTO {
	return PublicUserDTO{ID: u.ID, Username: u.Username, FullName: u.FullName(), IsAuthor: u.IsAuthor}
}
