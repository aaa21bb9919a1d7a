package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAlreadyPurchased(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	other := primitive.NewObjectID()

	orders := []primitive.ObjectID{first, second}

	require.True(t, alreadyPurchased(orders, first))
	require.True(t, alreadyPurchased(orders, second))
	require.False(t, alreadyPurchased(orders, other))
	require.False(t, alreadyPurchased(nil, first))
}

func TestDuplicatePurchaseErrorMessage(t *testing.T) {
	err := duplicatePurchaseError{
		UserID:    primitive.NewObjectID(),
		ProductID: primitive.NewObjectID(),
	}
	require.EqualError(t, err, "product already purchased")
}

func TestEntityNotFoundErrorNamesEntity(t *testing.T) {
	err := entityNotFoundError{Entity: "user", ID: primitive.NewObjectID()}
	require.EqualError(t, err, "user not found")
}
