package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"shopapi/internal/auth"
	"shopapi/internal/config"
	"shopapi/internal/database"
	"shopapi/internal/handlers"
	"shopapi/internal/middleware"
)

func main() {
	cfg := config.Load()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(cfg.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureFileIndexes(db); err != nil {
		log.Printf("file index warning: %v", err)
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	store := handlers.DiskStorage{Root: cfg.UploadDir, BaseURL: cfg.PublicBaseURL}

	r := gin.Default()
	r.Static("/uploads", cfg.UploadDir)

	r.POST("/auth/signup", handlers.Signup(db, issuer))
	r.POST("/auth/login", handlers.Login(db, issuer))
	r.POST("/auth/logout", handlers.Logout(db))
	r.GET("/auth/me", middleware.UserAuth(db, cfg.JWTSecret), handlers.GetMe(db))

	r.POST("/products", handlers.CreateProduct(db))
	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))
	r.POST("/products/:id/ratings", handlers.AddRating(db))
	r.GET("/products/:id/reviews", handlers.GetReviews(db))

	r.POST("/purchase", handlers.Purchase(db))
	r.GET("/orders/:userId", handlers.GetOrders(db))
	r.GET("/users/:userId/sold", handlers.GetUserSoldProducts(db))

	r.POST("/upload/image", handlers.UploadProductImage(db, store))
	r.DELETE("/upload/image", handlers.DeleteImage(db, store))

	r.Run(":" + cfg.Port)
}
