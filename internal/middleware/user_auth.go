package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"shopapi/internal/auth"
	"shopapi/internal/models"
)

// tokenCurrent reports whether presented is the pair currently stored on the
// user document and still within its stored expiry. A token that login
// rotated away or logout cleared fails this check even though its signature
// is still valid.
func tokenCurrent(user models.User, presented string, now time.Time) bool {
	if user.AccessToken == "" || user.AccessToken != presented {
		return false
	}
	if user.AccessTokenExp == nil || now.After(*user.AccessTokenExp) {
		return false
	}
	return true
}

// UserAuth validates the bearer token signature and then checks it against
// the token stored on the user document. A token that was rotated or cleared
// by logout no longer matches and stops authenticating, even though its
// signature is still valid.
func UserAuth(db *mongo.Database, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Println("[AUTH] [ERROR] missing token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Println("[AUTH] [ERROR] invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		email, err := auth.ParseSubject(parts[1], secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			log.Println("[AUTH] [ERROR] token subject lookup failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !tokenCurrent(user, parts[1], time.Now()) {
			log.Println("[AUTH] [ERROR] token no longer current for user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("userId", user.ID)
		c.Set("userEmail", user.Email)
		c.Next()
	}
}
