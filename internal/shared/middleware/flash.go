package middleware

import (
	"github.com/gin-gonic/gin"

	"blog-backend/internal/shared/response"
)

// Flash pops the one-shot notice left by a previous soft denial
func Flash() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(response.FlashCookie); err == nil && raw != "" {
			if f := response.ParseFlash(raw); f != nil {
				c.Set(response.FlashContextKey, f)
			}
			c.SetCookie(response.FlashCookie, "", -1, "/", "", false, true)
		}
		c.Next()
	}
}
