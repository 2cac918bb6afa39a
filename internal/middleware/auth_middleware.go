package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/roamly/roamly-backend/internal/config"
	"github.com/roamly/roamly-backend/internal/utils"
)

// JWTAuthMiddleware creates a gin middleware for JWT authentication. On
// success the verified user ID and email are placed in the gin context.
func JWTAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	if cfg.JWT.Secret == "" {
		log.Fatal("[FATAL] JWTAuthMiddleware: JWT_SECRET is not configured")
	}

	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header must start with Bearer"})
			return
		}

		claims, err := utils.ValidateJWT(authHeader[len(bearerSchema):], cfg)
		if err != nil {
			log.Printf("[WARN] JWTAuthMiddleware: token validation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token claims"})
			return
		}
		c.Set("userID", sub)
		if email, ok := claims["email"].(string); ok {
			c.Set("userEmail", email)
		}
		if isAdmin, ok := claims["isAdmin"].(bool); ok {
			c.Set("isAdmin", isAdmin)
		}
		c.Next()
	}
}
