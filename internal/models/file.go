package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File records an uploaded image: where it is publicly served from and the
// opaque identifier needed to delete it again.
type File struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name       string              `bson:"name" json:"name"`
	Tags       string              `bson:"tags" json:"tags"`
	Email      string              `bson:"email" json:"email"`
	ImageURL   string              `bson:"imageUrl" json:"imageUrl"`
	PublicID   string              `bson:"publicId" json:"publicId"`
	UploadedBy *primitive.ObjectID `bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}
