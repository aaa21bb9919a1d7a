package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultProductImageURL = "https://via.placeholder.com/150"

// Review is a single per-author rating embedded in its product document.
// At most one review exists per (product, author) pair.
type Review struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Stars     int                `bson:"stars" json:"stars"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Product owns its review collection; Rating is derived from it and BuyNo
// only ever grows. Version backs the optimistic check on review writes.
type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"productName"`
	Description string              `bson:"description" json:"description"`
	Category    string              `bson:"category" json:"category"`
	Price       float64             `bson:"price" json:"price"`
	ImageURL    string              `bson:"imageUrl" json:"imageUrl"`
	Discount    float64             `bson:"discount" json:"discount"`
	BuyNo       int                 `bson:"buyNo" json:"buyNo"`
	Rating      float64             `bson:"rating" json:"rating"`
	Reviews     []Review            `bson:"reviews" json:"reviews"`
	Seller      *primitive.ObjectID `bson:"seller,omitempty" json:"seller,omitempty"`
	Version     int64               `bson:"version" json:"-"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// NewProduct builds a product with the documented defaults applied: empty
// review list, zero rating and purchase counter, placeholder image.
func NewProduct(name, description, category string, price float64, now time.Time) Product {
	return Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		ImageURL:    DefaultProductImageURL,
		Reviews:     []Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
