package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminKeyHeader carries the shared admin key for verification-review routes
const AdminKeyHeader = "X-Admin-Key"

// AdminAuthMiddleware checks the admin key header against a bcrypt hash.
// The hash comes from configuration so the plaintext key never lives in the process.
func AdminAuthMiddleware(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(AdminKeyHeader)
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Admin key is required",
				"code":    "MISSING_ADMIN_KEY",
			})
			c.Abort()
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)); err != nil {
			log.Printf("ADMIN AUTH FAILED: Path: %s, IP: %s", c.Request.URL.Path, c.ClientIP())
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Invalid admin key",
				"code":    "INVALID_ADMIN_KEY",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
