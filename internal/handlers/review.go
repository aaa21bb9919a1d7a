package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"shopapi/internal/models"
)

type addRatingRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Stars   int    `json:"stars" binding:"required"`
	Comment string `json:"comment"`
}

// Two submissions for the same product race on the read-modify-write cycle,
// so the write pins the version it read and retries on mismatch.
const reviewWriteAttempts = 3

func AddRating(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/:id/ratings"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var req addRatingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		authorID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.UserID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}

		if !validStars(req.Stars) {
			respondWithError(c, http.StatusBadRequest, route, "rating must be between 1 and 5 stars")
			return
		}

		comment := strings.TrimSpace(req.Comment)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated bool
		var product models.Product
		for attempt := 0; attempt < reviewWriteAttempts; attempt++ {
			err := db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
			if err == mongo.ErrNoDocuments {
				respondWithError(c, http.StatusNotFound, route, "product not found")
				return
			}
			if err != nil {
				log.Println("[RATING] [ERROR] product lookup failed:", err)
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}

			product.Reviews, updated = upsertReview(product.Reviews, authorID, req.Stars, comment, time.Now())
			product.Rating = averageRating(product.Reviews)

			res, err := db.Collection("products").UpdateOne(ctx,
				bson.M{"_id": productID, "version": product.Version},
				bson.M{
					"$set": bson.M{
						"reviews":   product.Reviews,
						"rating":    product.Rating,
						"updatedAt": time.Now(),
					},
					"$inc": bson.M{"version": 1},
				},
			)
			if err != nil {
				log.Println("[RATING] [ERROR] review persist failed:", err)
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if res.MatchedCount > 0 {
				message := "Rating added successfully"
				if updated {
					message = "Rating updated successfully"
				}

				log.Printf("[RATING] [INFO] product %s rated %d by %s (avg %.1f over %d)",
					productID.Hex(), req.Stars, authorID.Hex(), product.Rating, len(product.Reviews))
				c.JSON(http.StatusOK, gin.H{
					"message": message,
					"data": gin.H{
						"productId":    productID.Hex(),
						"rating":       product.Rating,
						"totalReviews": len(product.Reviews),
						"userRating":   req.Stars,
						"userComment":  comment,
					},
				})
				return
			}
			// Version moved under us; re-read and try again.
			log.Println("[RATING] [WARN] concurrent review write, retrying")
		}

		respondWithError(c, http.StatusConflict, route, "product was modified concurrently, try again")
	}
}

type reviewWithAuthor struct {
	User      primitive.ObjectID `json:"user"`
	Username  string             `json:"username,omitempty"`
	Email     string             `json:"email,omitempty"`
	Stars     int                `json:"stars"`
	Comment   string             `json:"comment,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

func GetReviews(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id/reviews"
		defer handlePanic(c, route)

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			log.Println("[RATING] [ERROR] product lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		authors, err := loadReviewAuthors(ctx, db, product.Reviews)
		if err != nil {
			log.Println("[RATING] [ERROR] author lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		reviews := make([]reviewWithAuthor, 0, len(product.Reviews))
		for _, review := range product.Reviews {
			entry := reviewWithAuthor{
				User:      review.User,
				Stars:     review.Stars,
				Comment:   review.Comment,
				CreatedAt: review.CreatedAt,
			}
			if author, ok := authors[review.User]; ok {
				entry.Username = author.Username
				entry.Email = author.Email
			}
			reviews = append(reviews, entry)
		}

		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"productId":    product.ID.Hex(),
				"rating":       product.Rating,
				"totalReviews": len(product.Reviews),
				"reviews":      reviews,
			},
		})
	}
}

func loadReviewAuthors(ctx context.Context, db *mongo.Database, reviews []models.Review) (map[primitive.ObjectID]models.User, error) {
	if len(reviews) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, review := range reviews {
		ids = append(ids, review.User)
	}

	cursor, err := db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	authors := make(map[primitive.ObjectID]models.User, len(users))
	for _, user := range users {
		authors[user.ID] = user
	}
	return authors, nil
}
