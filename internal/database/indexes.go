package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureUserIndexes creates the unique indexes that back the signup
// Conflict checks: username and email are globally unique.
func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	usernameIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
		Options: options.Index().
			SetName("username_unique").
			SetUnique(true),
	}
	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating username_unique and email_unique indexes")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{usernameIndex, emailIndex})
	if err != nil {
		log.Println("EnsureUserIndexes: index error:", err)
		return err
	}
	log.Println("EnsureUserIndexes: indexes created")
	return nil
}

// EnsureFileIndexes makes upload records addressable by their public ID.
func EnsureFileIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("files").Indexes()

	publicIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "publicId", Value: 1}},
		Options: options.Index().
			SetName("publicId_unique").
			SetUnique(true),
	}

	log.Println("EnsureFileIndexes: creating publicId_unique index")
	_, err := indexes.CreateOne(ctx, publicIDIndex)
	if err != nil {
		log.Println("EnsureFileIndexes: publicId index error:", err)
		return err
	}
	log.Println("EnsureFileIndexes: publicId_unique index created")
	return nil
}
