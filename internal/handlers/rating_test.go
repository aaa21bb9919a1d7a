package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shopapi/internal/models"
)

func TestAverageRatingRoundsHalfUp(t *testing.T) {
	author := func() primitive.ObjectID { return primitive.NewObjectID() }

	reviews := []models.Review{
		{User: author(), Stars: 4},
		{User: author(), Stars: 2},
		{User: author(), Stars: 5},
	}

	// 11/3 = 3.666... rounds half-up to 3.7, not 3.6.
	require.Equal(t, 3.7, averageRating(reviews))
}

func TestAverageRatingEmpty(t *testing.T) {
	require.Equal(t, 0.0, averageRating(nil))
}

func TestRoundRatingHalfway(t *testing.T) {
	require.Equal(t, 3.5, roundRating(3.45))
	require.Equal(t, 3.4, roundRating(3.44))
	require.Equal(t, 5.0, roundRating(5.0))
}

func TestUpsertReviewAppendsNewAuthor(t *testing.T) {
	alice := primitive.NewObjectID()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	reviews, updated := upsertReview(nil, alice, 4, "solid", now)
	require.False(t, updated)
	require.Len(t, reviews, 1)
	require.Equal(t, alice, reviews[0].User)
	require.Equal(t, 4, reviews[0].Stars)
	require.Equal(t, "solid", reviews[0].Comment)
	require.Equal(t, now, reviews[0].CreatedAt)
}

func TestUpsertReviewOverwritesInPlace(t *testing.T) {
	alice := primitive.NewObjectID()
	now := time.Now()

	reviews, _ := upsertReview(nil, alice, 4, "solid", now)
	reviews, updated := upsertReview(reviews, alice, 5, "even better", now)

	require.True(t, updated)
	require.Len(t, reviews, 1)
	require.Equal(t, 5, reviews[0].Stars)
	require.Equal(t, "even better", reviews[0].Comment)
}

func TestUpsertReviewKeepsCommentWhenAbsent(t *testing.T) {
	alice := primitive.NewObjectID()
	now := time.Now()

	reviews, _ := upsertReview(nil, alice, 4, "original comment", now)
	reviews, updated := upsertReview(reviews, alice, 2, "", now)

	require.True(t, updated)
	require.Equal(t, 2, reviews[0].Stars)
	require.Equal(t, "original comment", reviews[0].Comment)
}

func TestUpsertReviewOneReviewPerAuthor(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	now := time.Now()

	var reviews []models.Review
	reviews, _ = upsertReview(reviews, alice, 4, "", now)
	reviews, _ = upsertReview(reviews, bob, 2, "", now)
	reviews, _ = upsertReview(reviews, alice, 5, "", now)
	reviews, _ = upsertReview(reviews, bob, 3, "", now)

	require.Len(t, reviews, 2)
}

// Mirrors the documented scenario: A rates 4 on a fresh product, B rates 2,
// then A re-rates 5.
func TestRatingScenario(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	now := time.Now()

	var reviews []models.Review

	reviews, updated := upsertReview(reviews, alice, 4, "", now)
	require.False(t, updated)
	require.Equal(t, 4.0, averageRating(reviews))
	require.Len(t, reviews, 1)

	reviews, updated = upsertReview(reviews, bob, 2, "", now)
	require.False(t, updated)
	require.Equal(t, 3.0, averageRating(reviews))
	require.Len(t, reviews, 2)

	reviews, updated = upsertReview(reviews, alice, 5, "", now)
	require.True(t, updated)
	require.Equal(t, 3.5, averageRating(reviews))
	require.Len(t, reviews, 2)
}

func TestValidStars(t *testing.T) {
	require.False(t, validStars(0))
	require.True(t, validStars(1))
	require.True(t, validStars(5))
	require.False(t, validStars(6))
	require.False(t, validStars(-1))
}
