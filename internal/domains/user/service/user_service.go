package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared/access"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/logger"
)

const principalTTL = 5 * time.Minute

// userService implements user.Service
type userService struct {
	repo       user.Repository
	cache      cache.Cache
	tokens     *jwt.Manager
	bcryptCost int
}

func NewUserService(repo user.Repository, c cache.Cache, tokens *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		cache:      c,
		tokens:     tokens,
		bcryptCost: 12,
	}
}

// cachedPrincipal is the cache-aside value under user.CacheKey
type cachedPrincipal struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Caps     uint8     `json:"caps"`
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Signup(ctx context.Context, req user.SignupRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("[USER] Registered", map[string]interface{}{"user_id": u.ID.String(), "username": u.Username})

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	failKey := user.FailedLoginKey(req.Email)
	var failures int64
	if found, err := s.cache.Get(ctx, failKey, &failures); err == nil && found && failures >= user.MaxFailedLogins {
		return nil, user.ErrTooManyAttempts
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrEmailNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedLogin(ctx, failKey)
		return nil, user.ErrIncorrectPassword
	}

	if err := s.cache.Delete(ctx, failKey); err != nil {
		logger.Warn("[USER] Failed to reset login counter", map[string]interface{}{"error": err.Error()})
	}
	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		logger.Warn("[USER] Failed to update last login", map[string]interface{}{"user_id": u.ID.String(), "error": err.Error()})
	}

	return s.issueTokens(u)
}

func (s *userService) recordFailedLogin(ctx context.Context, key string) {
	n, err := s.cache.Increment(ctx, key)
	if err != nil {
		logger.Warn("[USER] Failed to count login failure", map[string]interface{}{"error": err.Error()})
		return
	}
	if n == 1 {
		if err := s.cache.Expire(ctx, key, user.LockoutWindow); err != nil {
			logger.Warn("[USER] Failed to set lockout window", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *userService) issueTokens(u *user.User) (*user.LoginResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Email, u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &user.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.tokens.AccessExpiry()),
		User:         u.ToDTO(),
	}, nil
}

// Logout revokes the token id until the token would have expired anyway
func (s *userService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	return s.revoke(ctx, claims)
}

func (s *userService) revoke(ctx context.Context, claims *jwt.Claims) error {
	ttl := s.tokens.RemainingTTL(claims)
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, jwt.BlacklistKey(claims.ID), true, ttl); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// RefreshToken rotates the pair; the used refresh token is revoked
func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*user.LoginResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, user.ErrInvalidToken
	}

	revoked, err := s.cache.Exists(ctx, jwt.BlacklistKey(claims.ID))
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, user.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, user.ErrInvalidToken
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}
	return s.issueTokens(u)
}

// ========================================
// LOOKUPS
// ========================================

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *userService) ResolvePrincipal(ctx context.Context, id uuid.UUID) (access.Principal, error) {
	key := user.CacheKey(id)

	var cached cachedPrincipal
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return access.Principal{
			UserID:   cached.UserID,
			Username: cached.Username,
			Caps:     access.Capability(cached.Caps),
		}, nil
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return access.Anonymous, err
	}
	if !u.IsActive {
		return access.Anonymous, user.ErrUserInactive
	}

	p := u.Principal()
	if err := s.cache.Set(ctx, key, cachedPrincipal{
		UserID:   p.UserID,
		Username: p.Username,
		Caps:     uint8(p.Caps),
	}, principalTTL); err != nil {
		logger.Warn("[USER] Failed to cache principal", map[string]interface{}{"user_id": id.String(), "error": err.Error()})
	}
	return p, nil
}

func (s *userService) InvalidatePrincipal(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, user.CacheKey(id)); err != nil {
		logger.Warn("[USER] Failed to invalidate principal", map[string]interface{}{"user_id": id.String(), "error": err.Error()})
	}
}

// ========================================
// ADMINISTRATION
// ========================================

func (s *userService) DeleteUser(ctx context.Context, actor access.Principal, id uuid.UUID) error {
	if !actor.IsSuperuser() {
		return access.ErrForbidden
	}
	if actor.Is(id) {
		return user.ErrCannotDeleteSelf
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.InvalidatePrincipal(ctx, id)

	logger.Info("[USER] Deleted", map[string]interface{}{"user_id": id.String(), "by": actor.UserID.String()})
	return nil
}

// CreateSuperuser creates an active staff superuser with an author profile
func (s *userService) CreateSuperuser(ctx context.Context, req user.CreateSuperuserRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}
