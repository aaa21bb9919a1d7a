package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"shopapi/internal/auth"
	"shopapi/internal/models"
)

func TestValidateSignupRequiredFields(t *testing.T) {
	require.Error(t, validateSignup("", "a@b.com", "pw", models.RoleBuyer))
	require.Error(t, validateSignup("alice", "", "pw", models.RoleBuyer))
	require.Error(t, validateSignup("alice", "a@b.com", "", models.RoleBuyer))
	require.NoError(t, validateSignup("alice", "a@b.com", "pw", models.RoleBuyer))
}

func TestValidateSignupRole(t *testing.T) {
	require.NoError(t, validateSignup("alice", "a@b.com", "pw", models.RoleSeller))
	require.Error(t, validateSignup("alice", "a@b.com", "pw", "admin"))
}

func TestNormalizeRoleDefaultsToBuyer(t *testing.T) {
	require.Equal(t, models.RoleBuyer, normalizeRole(""))
	require.Equal(t, models.RoleBuyer, normalizeRole("  "))
	require.Equal(t, models.RoleSeller, normalizeRole(" Seller "))
}

// The password digest must never appear in any serialized user, signup
// response included.
func TestUserJSONOmitsPasswordHash(t *testing.T) {
	now := time.Now()
	user := models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         models.RoleBuyer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	body, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	require.NotContains(t, decoded, "passwordHash")
	require.NotContains(t, string(body), "$2a$10$")
	require.Equal(t, "alice@example.com", decoded["email"])
}

// Unknown email and wrong password must produce byte-identical messages, so
// a caller cannot probe which accounts exist.
func TestVerifyLoginIdenticalMessageForBothFailures(t *testing.T) {
	digest, err := auth.HashPassword("right-password")
	require.NoError(t, err)
	user := models.User{Email: "alice@example.com", PasswordHash: digest}

	unknownEmailErr := verifyLogin(models.User{}, false, "right-password")
	wrongPasswordErr := verifyLogin(user, true, "wrong-password")

	require.Error(t, unknownEmailErr)
	require.Error(t, wrongPasswordErr)
	require.Equal(t, unknownEmailErr.Error(), wrongPasswordErr.Error())
	require.Equal(t, invalidCredentialsMessage, unknownEmailErr.Error())

	require.NoError(t, verifyLogin(user, true, "right-password"))
}

func TestLookupFailureStatus(t *testing.T) {
	status, message := lookupFailureStatus(mongo.ErrNoDocuments, "user")
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "user not found", message)

	status, message = lookupFailureStatus(errors.New("connection reset"), "user")
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "db error", message)
}

func TestLowerCamel(t *testing.T) {
	require.Equal(t, "username", lowerCamel("Username"))
	require.Equal(t, "", lowerCamel(""))
}
