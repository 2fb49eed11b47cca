package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/shared/access"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/logger"
)

const (
	AccessTokenCookie = "access_token"
	ClaimsContextKey  = "claims"
)

// PrincipalResolver turns a token subject into the request capability set
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uuid.UUID) (access.Principal, error)
}

// Identity resolves the principal once per request. It never rejects: a
// missing, invalid or revoked token leaves the request anonymous, and route
// guards decide what anonymous may do.
func Identity(tokens *jwt.Manager, c cache.Cache, resolver PrincipalResolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := bearerToken(ctx)
		if raw == "" {
			access.Set(ctx, access.Anonymous)
			ctx.Next()
			return
		}

		claims, err := tokens.ValidateAccessToken(raw)
		if err != nil {
			access.Set(ctx, access.Anonymous)
			ctx.Next()
			return
		}

		if claims.ID != "" {
			revoked, err := c.Exists(ctx.Request.Context(), jwt.BlacklistKey(claims.ID))
			if err != nil {
				logger.Warn("[AUTH] Blacklist lookup failed", map[string]interface{}{"error": err.Error()})
			}
			if revoked {
				access.Set(ctx, access.Anonymous)
				ctx.Next()
				return
			}
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			access.Set(ctx, access.Anonymous)
			ctx.Next()
			return
		}

		p, err := resolver.ResolvePrincipal(ctx.Request.Context(), userID)
		if err != nil {
			access.Set(ctx, access.Anonymous)
			ctx.Next()
			return
		}

		ctx.Set(ClaimsContextKey, claims)
		access.Set(ctx, p)
		ctx.Next()
	}
}

// RequireAuth rejects anonymous requests
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if access.FromContext(c).IsAnonymous() {
			response.Unauthorized(c, "Please log in to continue")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAuthor gates authoring routes; denial is soft
func RequireAuthor() gin.HandlerFunc {
	return requireCap(access.CapAuthor, "You need to be an approved author to do this", "/apply-to-write/")
}

func RequireStaff() gin.HandlerFunc {
	return requireCap(access.CapStaff, "Staff access required", "/")
}

func RequireSuperuser() gin.HandlerFunc {
	return requireCap(access.CapSuperuser, "Superuser access required", "/")
}

func requireCap(capability access.Capability, message, fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := access.FromContext(c)
		if p.IsAnonymous() {
			response.Unauthorized(c, "Please log in to continue")
			c.Abort()
			return
		}
		if !p.Has(capability) {
			response.Deny(c, message, fallback)
			return
		}
		c.Next()
	}
}

// ClaimsFromContext returns the validated token claims, if any
func ClaimsFromContext(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(ClaimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
