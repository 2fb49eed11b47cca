package user

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/shared/access"
	"blog-backend/pkg/jwt"
)

// Service is the business layer of accounts and authentication
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error)

	GetByID(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	GetByUsername(ctx context.Context, username string) (*User, error)

	// ResolvePrincipal is the request-time capability lookup, cached
	ResolvePrincipal(ctx context.Context, id uuid.UUID) (access.Principal, error)
	InvalidatePrincipal(ctx context.Context, id uuid.UUID)

	DeleteUser(ctx context.Context, actor access.Principal, id uuid.UUID) error
	CreateSuperuser(ctx context.Context, req CreateSuperuserRequest) (*UserDTO, error)
}
