package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/utils"
)

// User maps the users table. IsAuthor is derived from author_profiles.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	IsAuthor     bool       `json:"is_author"`
	DateJoined   time.Time  `json:"date_joined"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// FullName falls back from "first last" to either part, then the username
func (u *User) FullName() string {
	return utils.DisplayName(u.Username, u.FirstName, u.LastName)
}

// Principal returns the capability set of an active user, or Anonymous
func (u *User) Principal() access.Principal {
	if !u.IsActive {
		return access.Anonymous
	}
	return access.Principal{
		UserID:   u.ID,
		Username: u.Username,
		Caps:     access.CapsFor(u.IsAuthor, u.IsStaff, u.IsSuperuser),
	}
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		IsAuthor:    u.IsAuthor,
		DateJoined:  u.DateJoined,
	}
}

// CacheKey is the cache-aside key of a user's principal.
// Anything that changes flags or author status must delete it.
func CacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// Failed-login lockout
const (
	MaxFailedLogins = 5
	LockoutWindow   = 15 * time.Minute
)

func FailedLoginKey(email string) string {
	return "auth:failed_login:" + strings.ToLower(email)
}
