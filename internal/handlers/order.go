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

type purchaseRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

func alreadyPurchased(orders []primitive.ObjectID, productID primitive.ObjectID) bool {
	for _, id := range orders {
		if id == productID {
			return true
		}
	}
	return false
}

// Purchase appends the product to the user's order list and bumps the
// product's purchase counter. Both writes run in one transaction so a failure
// between them cannot leave a half-applied purchase.
func Purchase(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /purchase"
		defer handlePanic(c, route)

		var req purchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.UserID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}
		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		var user models.User
		var product models.Product
		now := time.Now()

		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			if err := db.Collection("users").FindOne(sessCtx, bson.M{"_id": userID}).Decode(&user); err != nil {
				if err == mongo.ErrNoDocuments {
					return nil, entityNotFoundError{Entity: "user", ID: userID}
				}
				return nil, err
			}

			if err := db.Collection("products").FindOne(sessCtx, bson.M{"_id": productID}).Decode(&product); err != nil {
				if err == mongo.ErrNoDocuments {
					return nil, entityNotFoundError{Entity: "product", ID: productID}
				}
				return nil, err
			}

			if alreadyPurchased(user.Orders, productID) {
				return nil, duplicatePurchaseError{UserID: userID, ProductID: productID}
			}

			if _, err := db.Collection("users").UpdateByID(sessCtx, userID, bson.M{
				"$push": bson.M{"orders": productID},
				"$set":  bson.M{"updatedAt": now},
			}); err != nil {
				return nil, err
			}

			if _, err := db.Collection("products").UpdateByID(sessCtx, productID, bson.M{
				"$inc": bson.M{"buyNo": 1},
				"$set": bson.M{"updatedAt": now},
			}); err != nil {
				return nil, err
			}
			return nil, nil
		})
		if err != nil {
			switch e := err.(type) {
			case entityNotFoundError:
				respondWithError(c, http.StatusNotFound, route, e.Entity+" not found")
			case duplicatePurchaseError:
				respondWithError(c, http.StatusConflict, route, "product already purchased by this user")
			default:
				log.Println("[ORDER] [ERROR] purchase transaction failed:", err)
				respondWithError(c, http.StatusInternalServerError, route, "db error")
			}
			return
		}

		user.Orders = append(user.Orders, productID)
		product.BuyNo++

		log.Println("[ORDER] [INFO] purchase recorded:", userID.Hex(), "->", productID.Hex())
		c.JSON(http.StatusOK, gin.H{
			"message": "Product purchased successfully",
			"user": gin.H{
				"id":        user.ID.Hex(),
				"username":  user.Username,
				"email":     user.Email,
				"orders":    user.Orders,
				"createdAt": user.CreatedAt,
				"updatedAt": now,
			},
			"product": gin.H{
				"id":          product.ID.Hex(),
				"productName": product.Name,
				"price":       product.Price,
				"discount":    product.Discount,
				"buyNo":       product.BuyNo,
			},
		})
	}
}

func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:userId"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("userId")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}
		if err != nil {
			log.Println("[ORDER] [ERROR] user lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		products, err := resolveProducts(ctx, db, user.Orders)
		if err != nil {
			log.Println("[ORDER] [ERROR] order products lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Orders retrieved successfully",
			"user": gin.H{
				"id":        user.ID.Hex(),
				"username":  user.Username,
				"email":     user.Email,
				"orders":    products,
				"createdAt": user.CreatedAt,
				"updatedAt": user.UpdatedAt,
			},
			"totalOrders": len(products),
		})
	}
}

func GetUserSoldProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/:userId/sold"
		defer handlePanic(c, route)

		userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("userId")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid userId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}
		if err != nil {
			log.Println("[ORDER] [ERROR] user lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		products, err := resolveProducts(ctx, db, user.SoldProducts)
		if err != nil {
			log.Println("[ORDER] [ERROR] sold products lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"userId":       user.ID.Hex(),
				"username":     user.Username,
				"email":        user.Email,
				"soldProducts": products,
				"totalSold":    len(products),
			},
		})
	}
}

// resolveProducts fetches the referenced products and returns them in the
// order the reference list holds them.
func resolveProducts(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	cursor, err := db.Collection("products").Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	ordered := make([]models.Product, 0, len(products))
	for _, id := range ids {
		if product, ok := byID[id]; ok {
			ordered = append(ordered, product)
		}
	}
	return ordered, nil
}

type entityNotFoundError struct {
	Entity string
	ID     primitive.ObjectID
}

func (e entityNotFoundError) Error() string {
	return e.Entity + " not found"
}

type duplicatePurchaseError struct {
	UserID    primitive.ObjectID
	ProductID primitive.ObjectID
}

func (e duplicatePurchaseError) Error() string {
	return "product already purchased"
}
