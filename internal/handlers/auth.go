package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shopapi/internal/auth"
	"shopapi/internal/models"
)

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LogoutRequest struct {
	Email string `json:"email" binding:"required"`
}

// Both unauthorized cases return this exact message so a caller cannot tell
// whether the email or the password was wrong.
const invalidCredentialsMessage = "invalid email or password"

var errInvalidCredentials = errors.New(invalidCredentialsMessage)

// verifyLogin collapses "no such user" and "wrong password" into the same
// error, so the response cannot reveal which check failed.
func verifyLogin(user models.User, found bool, password string) error {
	if !found {
		return errInvalidCredentials
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return errInvalidCredentials
	}
	return nil
}

// lookupFailureStatus maps a FindOne failure to a response: an absent
// document is the caller's problem, anything else is a store fault.
func lookupFailureStatus(err error, entity string) (int, string) {
	if err == mongo.ErrNoDocuments {
		return http.StatusNotFound, entity + " not found"
	}
	return http.StatusInternalServerError, "db error"
}

func Signup(db *mongo.Database, issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		username := strings.TrimSpace(req.Username)
		email := strings.ToLower(strings.TrimSpace(req.Email))
		role := normalizeRole(req.Role)

		if err := validateSignup(username, email, req.Password, role); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email}); err != nil {
			log.Println("[AUTH] [ERROR] signup email lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		} else if count > 0 {
			log.Println("[AUTH] [ERROR] signup email exists:", email)
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
			return
		}

		if count, err := db.Collection("users").CountDocuments(ctx, bson.M{"username": username}); err != nil {
			log.Println("[AUTH] [ERROR] signup username lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		} else if count > 0 {
			log.Println("[AUTH] [ERROR] signup username exists:", username)
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Println("[AUTH] [ERROR] signup password hash failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "password hash failed"})
			return
		}

		accessToken, accessExp, err := issuer.IssueAccess(email)
		if err != nil {
			log.Println("[AUTH] [ERROR] signup token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}
		refreshToken, refreshExp, err := issuer.IssueRefresh(email)
		if err != nil {
			log.Println("[AUTH] [ERROR] signup token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		now := time.Now()
		user := models.User{
			Username:        username,
			Email:           email,
			PasswordHash:    hash,
			Role:            role,
			AccessToken:     accessToken,
			AccessTokenExp:  &accessExp,
			RefreshToken:    refreshToken,
			RefreshTokenExp: &refreshExp,
			Orders:          []primitive.ObjectID{},
			SoldProducts:    []primitive.ObjectID{},
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "username or email already exists"})
				return
			}
			log.Println("[AUTH] [ERROR] signup insert failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			user.ID = id
		}

		log.Println("[AUTH] [INFO] user registered:", email)
		// User.PasswordHash is json:"-", so the digest never leaves the server.
		c.JSON(http.StatusCreated, user)
	}
}

func Login(db *mongo.Database, issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		found := true
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			found = false
		} else if err != nil {
			log.Println("[AUTH] [ERROR] login user lookup failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if err := verifyLogin(user, found, req.Password); err != nil {
			log.Println("[AUTH] [ERROR] login invalid credentials")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		accessToken, accessExp, err := issuer.IssueAccess(email)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}
		refreshToken, refreshExp, err := issuer.IssueRefresh(email)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		now := time.Now()
		// Overwriting the stored pair is what revokes the previous one.
		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set": bson.M{
				"accessToken":     accessToken,
				"accessTokenExp":  accessExp,
				"refreshToken":    refreshToken,
				"refreshTokenExp": refreshExp,
				"updatedAt":       now,
			},
		})
		if err != nil {
			log.Println("[AUTH] [ERROR] login token persist failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		user.AccessToken = accessToken
		user.AccessTokenExp = &accessExp
		user.RefreshToken = refreshToken
		user.RefreshTokenExp = &refreshExp
		user.UpdatedAt = now

		log.Println("[AUTH] [INFO] login succeeded:", email)
		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"user":    user,
		})
	}
}

func Logout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LogoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			log.Println("[AUTH] [ERROR] logout user lookup failed:", err)
			status, message := lookupFailureStatus(err, "user")
			c.JSON(status, gin.H{"error": message})
			return
		}

		now := time.Now()
		_, err := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$unset": bson.M{
				"accessToken":     "",
				"accessTokenExp":  "",
				"refreshToken":    "",
				"refreshTokenExp": "",
			},
			"$set": bson.M{"updatedAt": now},
		})
		if err != nil {
			log.Println("[AUTH] [ERROR] logout token clear failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		log.Println("[AUTH] [INFO] logout succeeded:", email)
		c.JSON(http.StatusOK, gin.H{
			"message": "Logout successful",
			"user": gin.H{
				"id":        user.ID.Hex(),
				"username":  user.Username,
				"email":     user.Email,
				"createdAt": user.CreatedAt,
				"updatedAt": now,
			},
		})
	}
}

func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.Get("userId")
		if !ok {
			log.Println("[AUTH] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[AUTH] [ERROR] get me failed:", err)
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":        user.ID.Hex(),
			"username":  user.Username,
			"email":     user.Email,
			"role":      user.Role,
			"createdAt": user.CreatedAt,
			"updatedAt": user.UpdatedAt,
		})
	}
}

func normalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return models.RoleBuyer
	}
	return role
}

func validateSignup(username, email, password, role string) error {
	if username == "" || email == "" || password == "" {
		return errors.New("username, email and password are required")
	}
	if !models.ValidRole(role) {
		return fmt.Errorf("role must be either %q or %q", models.RoleBuyer, models.RoleSeller)
	}
	return nil
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
