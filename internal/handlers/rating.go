package handlers

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopapi/internal/models"
)

// roundRating rounds to one decimal place with half-up semantics, so
// [4, 2, 5] averages to 3.7, not 3.6.
func roundRating(value float64) float64 {
	return math.Floor(value*10+0.5) / 10
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, review := range reviews {
		total += review.Stars
	}
	return roundRating(float64(total) / float64(len(reviews)))
}

// upsertReview overwrites the author's existing review in place, or appends a
// new one. An empty comment on an update keeps the prior comment. Returns the
// new collection and whether an existing review was replaced.
func upsertReview(reviews []models.Review, author primitive.ObjectID, stars int, comment string, now time.Time) ([]models.Review, bool) {
	for i := range reviews {
		if reviews[i].User == author {
			reviews[i].Stars = stars
			if comment != "" {
				reviews[i].Comment = comment
			}
			return reviews, true
		}
	}

	return append(reviews, models.Review{
		User:      author,
		Stars:     stars,
		Comment:   comment,
		CreatedAt: now,
	}), false
}

func validStars(stars int) bool {
	return stars >= 1 && stars <= 5
}
