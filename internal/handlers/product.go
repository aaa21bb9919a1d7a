package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopapi/internal/models"
)

type createProductRequest struct {
	ImageURL    string  `json:"imageUrl"`
	Name        string  `json:"productName" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Price       float64 `json:"price" binding:"required"`
	BuyNo       int     `json:"buyNo"`
	Rating      float64 `json:"rating"`
	Discount    float64 `json:"discount"`
	SellerID    string  `json:"sellerId"`
}

func validateProductInput(price, discount, rating float64) error {
	if price <= 0 {
		return errors.New("price must be greater than 0")
	}
	if discount < 0 || discount > 100 {
		return errors.New("discount must be between 0 and 100")
	}
	if rating < 0 || rating > 5 {
		return errors.New("rating must be between 0 and 5")
	}
	return nil
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := validateProductInput(req.Price, req.Discount, req.Rating); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var sellerID *primitive.ObjectID
		if trimmed := strings.TrimSpace(req.SellerID); trimmed != "" {
			id, err := primitive.ObjectIDFromHex(trimmed)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid sellerId")
				return
			}
			if err := db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
				if err == mongo.ErrNoDocuments {
					respondWithError(c, http.StatusNotFound, route, "seller not found")
					return
				}
				log.Println("[PRODUCT] [ERROR] seller lookup failed:", err)
				respondWithError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			sellerID = &id
		}

		product := models.NewProduct(
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Description),
			strings.TrimSpace(req.Category),
			req.Price,
			time.Now(),
		)
		product.BuyNo = req.BuyNo
		product.Rating = req.Rating
		product.Discount = req.Discount
		product.Seller = sellerID
		if imageURL := strings.TrimSpace(req.ImageURL); imageURL != "" {
			product.ImageURL = imageURL
		}

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "product with this name already exists")
				return
			}
			log.Println("[PRODUCT] [ERROR] insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		if sellerID != nil {
			if _, err := db.Collection("users").UpdateByID(ctx, *sellerID, bson.M{
				"$push": bson.M{"soldProducts": product.ID},
				"$set":  bson.M{"updatedAt": time.Now()},
			}); err != nil {
				log.Println("[PRODUCT] [ERROR] seller soldProducts update failed:", err)
			}
		}

		log.Println("[PRODUCT] [INFO] product created:", product.Name)
		c.JSON(http.StatusCreated, gin.H{
			"message": "Product created successfully",
			"data":    product,
		})
	}
}

func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		filter := bson.M{}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["name"] = bson.M{"$regex": search, "$options": "i"}
		}

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
				return
			}
			findOptions.
				SetSkip((page - 1) * limit).
				SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		products := []models.Product{}
		if err := cursor.All(ctx, &products); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, gin.H{
			"count": len(products),
			"data":  products,
		})
	}
}

func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
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
			log.Println("[PRODUCT] [ERROR] lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": product})
	}
}
