package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
)

// ValidRole reports whether role is one of the accepted account roles.
func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleSeller
}

// User represents the application user account. The current token pair lives
// on the document itself: rotating or clearing it is what revokes the
// previous pair.
type User struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username        string               `bson:"username" json:"username"`
	Email           string               `bson:"email" json:"email"`
	PasswordHash    string               `bson:"passwordHash" json:"-"`
	Role            string               `bson:"role" json:"role"`
	AccessToken     string               `bson:"accessToken,omitempty" json:"accessToken,omitempty"`
	AccessTokenExp  *time.Time           `bson:"accessTokenExp,omitempty" json:"accessTokenExp,omitempty"`
	RefreshToken    string               `bson:"refreshToken,omitempty" json:"refreshToken,omitempty"`
	RefreshTokenExp *time.Time           `bson:"refreshTokenExp,omitempty" json:"refreshTokenExp,omitempty"`
	Orders          []primitive.ObjectID `bson:"orders" json:"orders"`
	SoldProducts    []primitive.ObjectID `bson:"soldProducts" json:"soldProducts"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}
